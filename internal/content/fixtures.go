package content

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/recipebook/internal/foundation/errors"
)

type fixtureRecord struct {
	ID          string         `yaml:"id"`
	ContentType string         `yaml:"content_type"`
	CreatedAt   time.Time      `yaml:"created_at"`
	UpdatedAt   time.Time      `yaml:"updated_at"`
	Fields      map[string]any `yaml:"fields"`
}

// LoadFixtures reads a YAML (or JSON) list of records into a MemorySource, for
// running without a content space. Linked assets are written inline.
func LoadFixtures(path string) (*MemorySource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "read fixtures").
			WithContext("path", path).
			Build()
	}
	var raw []fixtureRecord
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryValidation, "parse fixtures").
			WithContext("path", path).
			Build()
	}
	records := make([]Record, 0, len(raw))
	for i, fr := range raw {
		if fr.ID == "" || fr.ContentType == "" {
			return nil, derrors.ValidationError("fixture record needs id and content_type").
				WithContext("path", path).
				WithContext("index", i).
				Build()
		}
		records = append(records, Record{
			ID:          fr.ID,
			ContentType: fr.ContentType,
			Fields:      fr.Fields,
			CreatedAt:   fr.CreatedAt,
			UpdatedAt:   fr.UpdatedAt,
		})
	}
	return NewMemorySource(records...), nil
}
