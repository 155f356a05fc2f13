package commands

import (
	"log/slog"

	"git.home.luguber.info/inful/recipebook/internal/config"
	"git.home.luguber.info/inful/recipebook/internal/content"
	"git.home.luguber.info/inful/recipebook/internal/contentful"
	"git.home.luguber.info/inful/recipebook/internal/generation"
	"git.home.luguber.info/inful/recipebook/internal/metrics"
	"git.home.luguber.info/inful/recipebook/internal/pagecache"
	"git.home.luguber.info/inful/recipebook/internal/recipes"
	"git.home.luguber.info/inful/recipebook/internal/views"
)

// newSource returns the fixture source when one is configured, else the delivery API client.
func newSource(cfg *config.Config, logger *slog.Logger) (content.Source, error) {
	if cfg.Content.Fixtures != "" {
		logger.Info("Using content fixtures", slog.String("path", cfg.Content.Fixtures))
		src, err := content.LoadFixtures(cfg.Content.Fixtures)
		if err != nil {
			return nil, err
		}
		return src, nil
	}
	client, err := contentful.NewClient(cfg.Content, contentful.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return client, nil
}

func newPipeline(cfg *config.Config, source content.Source, logger *slog.Logger) *recipes.Pipeline {
	return recipes.NewPipeline(source, recipes.Options{
		Revalidate:           cfg.Generation.Revalidate,
		RejectDuplicateSlugs: cfg.Generation.RejectDuplicateSlugs,
		Logger:               logger,
	})
}

// site bundles the pieces shared by build and serve.
type site struct {
	renderer  *views.Renderer
	scheduler *generation.Scheduler
}

func newSite(cfg *config.Config, store pagecache.Store, logger *slog.Logger, recorder metrics.Recorder) (*site, error) {
	source, err := newSource(cfg, logger)
	if err != nil {
		return nil, err
	}
	renderer, err := views.NewRenderer(cfg.Site)
	if err != nil {
		return nil, err
	}
	g := cfg.Generation
	scheduler := generation.NewScheduler(newPipeline(cfg, source, logger), renderer, store, generation.Options{
		ContentType:       cfg.Content.ContentType,
		Revalidate:        g.Revalidate,
		ListingRevalidate: g.ListingRevalidate,
		FallbackTimeout:   g.FallbackTimeout,
		Concurrency:       g.Concurrency,
		DiscoveryInterval: g.DiscoveryInterval,
		Logger:            logger,
		Recorder:          recorder,
	})
	return &site{renderer: renderer, scheduler: scheduler}, nil
}
