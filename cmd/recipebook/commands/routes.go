package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"git.home.luguber.info/inful/recipebook/internal/recipes"
)

// RoutesCmd implements the 'routes' command.
type RoutesCmd struct{}

func (r *RoutesCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.load(g)
	if err != nil {
		return err
	}
	source, err := newSource(cfg, g.Logger)
	if err != nil {
		return err
	}
	routes, err := newPipeline(cfg, source, g.Logger).DiscoverRoutes(context.Background(), cfg.Content.ContentType)
	if err != nil {
		return err
	}
	printRoutes(os.Stdout, routes)
	return nil
}

func printRoutes(w io.Writer, routes *recipes.Routes) {
	_, _ = fmt.Fprintln(w, "/")
	seen := make(map[string]struct{}, len(routes.Slugs))
	for _, slug := range routes.Slugs {
		if _, dup := seen[slug]; dup {
			continue
		}
		seen[slug] = struct{}{}
		_, _ = fmt.Fprintf(w, "/recipes/%s\n", slug)
	}
	for _, slug := range routes.Duplicates {
		_, _ = fmt.Fprintf(w, "duplicate slug: %s\n", slug)
	}
	_, _ = fmt.Fprintf(w, "fallback: %s\n", routes.Fallback)
}
