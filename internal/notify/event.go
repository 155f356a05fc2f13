// Package notify connects content change notifications to page revalidation over NATS.
//
// A content webhook relay (or `recipebook revalidate`) publishes an Event on the
// configured subject; every serving instance subscribed to it invalidates the
// corresponding route.
package notify

import (
	"encoding/json"
	"strings"

	derrors "git.home.luguber.info/inful/recipebook/internal/foundation/errors"
	"git.home.luguber.info/inful/recipebook/internal/views"
)

// Event names a route to revalidate, either by path or by recipe slug.
type Event struct {
	Slug string `json:"slug,omitempty"`
	Path string `json:"path,omitempty"`
}

// Route returns the path to invalidate. Path takes precedence over Slug.
func (e Event) Route() (string, error) {
	if p := strings.TrimSpace(e.Path); p != "" {
		return p, nil
	}
	if s := strings.TrimSpace(e.Slug); s != "" {
		return views.DetailPath(s), nil
	}
	return "", derrors.ValidationError("revalidation event needs a path or slug").Build()
}

// DecodeEvent parses a message payload.
func DecodeEvent(data []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return Event{}, derrors.WrapError(err, derrors.CategoryValidation, "malformed revalidation event").Build()
	}
	return ev, nil
}
