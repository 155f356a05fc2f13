package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/recipebook/internal/export"
	"git.home.luguber.info/inful/recipebook/internal/pagecache"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output  string `short:"o" help:"Output directory for the generated site (overrides output.directory)"`
	NoClean bool   `name:"no-clean" help:"Keep existing files in the output directory"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.load(g)
	if err != nil {
		return err
	}
	out := cfg.Output
	if b.Output != "" {
		out.Directory = b.Output
	}
	if b.NoClean {
		out.Clean = false
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store := pagecache.NewMemoryStore()
	s, err := newSite(cfg, store, g.Logger, nil)
	if err != nil {
		return err
	}
	defer func() { _ = s.scheduler.Stop(context.Background()) }()

	fmt.Println("Starting recipebook build")
	report, err := s.scheduler.Prerender(ctx)
	if err != nil {
		return err
	}
	for _, slug := range report.Duplicates {
		g.Logger.Warn("Duplicate recipe slug, first entry wins", "slug", slug)
	}

	res, err := export.New(store, s.renderer, g.Logger).Write(ctx, report, out.Directory, out.Clean)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %d pages and %d redirects to %s\n", res.Pages, res.Redirects, res.Directory)
	return nil
}
