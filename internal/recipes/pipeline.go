package recipes

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"git.home.luguber.info/inful/recipebook/internal/content"
	derrors "git.home.luguber.info/inful/recipebook/internal/foundation/errors"
	"git.home.luguber.info/inful/recipebook/internal/logfields"
)

// ErrNotFound is returned by FetchDetail when no record has the requested slug.
// It is an expected outcome: callers redirect to the listing instead of failing.
var ErrNotFound = derrors.NotFoundError("recipe not found").Build()

// FallbackPolicy tells the scheduler what to do with slugs outside the discovered set.
type FallbackPolicy string

const (
	// FallbackGenerateOnDemand attempts FetchDetail for unknown slugs before giving up.
	FallbackGenerateOnDemand FallbackPolicy = "generate-on-demand"
)

// Routes is the result of path discovery.
type Routes struct {
	// Slugs in source order, not deduplicated.
	Slugs []string
	// Duplicates lists each slug that occurs more than once, in first-seen order.
	Duplicates []string
	Fallback   FallbackPolicy
}

// Result is a successful detail fetch.
type Result struct {
	Detail *Detail
	// Revalidate is how long the rendered result may be served before regeneration.
	Revalidate time.Duration
}

// Options configures a Pipeline.
type Options struct {
	Revalidate           time.Duration
	RejectDuplicateSlugs bool
	Logger               *slog.Logger
}

// Pipeline fetches and shapes recipe content from a Source.
type Pipeline struct {
	source content.Source
	opts   Options
	logger *slog.Logger
}

// NewPipeline returns a pipeline reading from source.
func NewPipeline(source content.Source, opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{source: source, opts: opts, logger: logger}
}

// FetchListing returns every record of contentType in source order.
func (p *Pipeline) FetchListing(ctx context.Context, contentType string) ([]content.Record, error) {
	return p.source.Query(ctx, content.Query{ContentType: contentType})
}

// DiscoverRoutes returns the slug of every record of contentType.
func (p *Pipeline) DiscoverRoutes(ctx context.Context, contentType string) (*Routes, error) {
	records, err := p.source.Query(ctx, content.Query{ContentType: contentType})
	if err != nil {
		return nil, err
	}

	routes := &Routes{Slugs: make([]string, 0, len(records)), Fallback: FallbackGenerateOnDemand}
	seen := make(map[string]int, len(records))
	for _, r := range records {
		slug, _ := r.String(FieldSlug)
		if strings.TrimSpace(slug) == "" {
			p.logger.Warn("Skipping record without slug",
				logfields.ContentType(contentType),
				slog.String("record_id", r.ID))
			continue
		}
		routes.Slugs = append(routes.Slugs, slug)

		key := norm.NFC.String(slug)
		seen[key]++
		if seen[key] == 2 {
			routes.Duplicates = append(routes.Duplicates, slug)
		}
	}

	if len(routes.Duplicates) > 0 {
		if p.opts.RejectDuplicateSlugs {
			return nil, derrors.ValidationError("duplicate slugs discovered").
				WithContext("content_type", contentType).
				WithContext("slugs", routes.Duplicates).
				Build()
		}
		p.logger.Warn("Duplicate slugs discovered; the first record wins",
			logfields.ContentType(contentType),
			slog.Any("slugs", routes.Duplicates))
	}
	return routes, nil
}

// FetchDetail returns the first record of contentType whose slug equals slug.
// It returns ErrNotFound when none matches.
func (p *Pipeline) FetchDetail(ctx context.Context, contentType, slug string) (*Result, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, derrors.ValidationError("slug must not be empty").
			WithContext("content_type", contentType).
			Build()
	}

	records, err := p.source.Query(ctx, content.Query{
		ContentType: contentType,
		Fields:      map[string]string{FieldSlug: slug},
	})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNotFound.WithContext("slug", slug)
	}
	if len(records) > 1 {
		p.logger.Debug("Multiple records share a slug; using the first",
			logfields.Slug(slug),
			logfields.Count(len(records)))
	}

	detail, err := shape(records[0])
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryContentSource, "shape recipe").
			WithContext("slug", slug).
			WithContext("record_id", records[0].ID).
			Build()
	}
	return &Result{Detail: detail, Revalidate: p.opts.Revalidate}, nil
}
