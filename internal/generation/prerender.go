package generation

import (
	"context"
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"git.home.luguber.info/inful/recipebook/internal/logfields"
	"git.home.luguber.info/inful/recipebook/internal/pagecache"
)

// RouteResult describes one generated route.
type RouteResult struct {
	Route    string
	Slug     string // empty for the listing
	Kind     pagecache.Kind
	Status   int
	Location string
}

// Report summarises a prerender.
type Report struct {
	Routes     []RouteResult
	Duplicates []string
}

// Redirects returns the routes that resolved to a redirect.
func (r *Report) Redirects() []RouteResult {
	var out []RouteResult
	for _, rr := range r.Routes {
		if rr.Kind == pagecache.KindRedirect {
			out = append(out, rr)
		}
	}
	return out
}

// Prerender discovers all routes, generates every detail page with bounded
// parallelism and finally the listing. Any failure aborts the prerender.
func (s *Scheduler) Prerender(ctx context.Context) (*Report, error) {
	routes, err := s.pipeline.DiscoverRoutes(ctx, s.opts.ContentType)
	if err != nil {
		return nil, err
	}
	slugs := unique(routes.Slugs)
	s.remember(slugs)
	s.recorder.SetDiscoveredRoutes(len(slugs))
	s.logger.Info("Prerendering routes",
		logfields.Count(len(slugs)),
		slog.Int("concurrency", s.opts.Concurrency))

	results := make([]RouteResult, len(slugs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)
	for i, slug := range slugs {
		g.Go(func() error {
			r := detailRoute(slug)
			entry, err := s.generateShared(gctx, r)
			if err != nil {
				return err
			}
			results[i] = resultFor(r, entry)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	listing := listingRoute()
	entry, err := s.generateShared(ctx, listing)
	if err != nil {
		return nil, err
	}
	results = append(results, resultFor(listing, entry))

	return &Report{Routes: results, Duplicates: routes.Duplicates}, nil
}

// rediscover runs route discovery and generates routes that appeared since the last
// run. Routes that disappeared are invalidated so their next generation redirects.
func (s *Scheduler) rediscover() {
	ctx := s.bgCtx
	if ctx.Err() != nil {
		return
	}
	routes, err := s.pipeline.DiscoverRoutes(ctx, s.opts.ContentType)
	if err != nil {
		s.logger.Warn("Route discovery failed", logfields.Error(err))
		return
	}
	slugs := unique(routes.Slugs)
	s.recorder.SetDiscoveredRoutes(len(slugs))

	added, removed := s.diffKnown(slugs)
	for _, slug := range added {
		s.revalidateAsync(detailRoute(slug), "discovery")
	}
	for _, slug := range removed {
		if _, err := s.invalidate(ctx, detailRoute(slug).key); err != nil {
			s.logger.Warn("Page cache invalidation failed", logfields.Slug(slug), logfields.Error(err))
		}
	}
	if len(added) > 0 || len(removed) > 0 {
		if _, err := s.invalidate(ctx, RootPath); err != nil {
			s.logger.Warn("Page cache invalidation failed", logfields.Route(RootPath), logfields.Error(err))
		}
		s.revalidateAsync(listingRoute(), "discovery")
	}
	s.logger.Info("Route discovery finished",
		logfields.Count(len(slugs)),
		slog.Int("added", len(added)),
		slog.Int("removed", len(removed)))
}

// generateShared deduplicates generation with concurrent requests for the same route.
func (s *Scheduler) generateShared(ctx context.Context, r route) (*pagecache.Entry, error) {
	v, err, _ := s.group.Do(r.key, func() (any, error) {
		return s.generate(ctx, r)
	})
	if err != nil {
		return nil, err
	}
	entry, _ := v.(*pagecache.Entry)
	return entry, nil
}

func (s *Scheduler) remember(slugs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, slug := range slugs {
		s.known[slug] = struct{}{}
	}
}

// diffKnown replaces the known slug set and returns what changed.
func (s *Scheduler) diffKnown(slugs []string) (added, removed []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make(map[string]struct{}, len(slugs))
	for _, slug := range slugs {
		next[slug] = struct{}{}
		if _, ok := s.known[slug]; !ok {
			added = append(added, slug)
		}
	}
	for slug := range s.known {
		if _, ok := next[slug]; !ok {
			removed = append(removed, slug)
		}
	}
	slices.Sort(removed)
	s.known = next
	return added, removed
}

// unique keeps the first of each slug, comparing NFC forms like route discovery does.
func unique(slugs []string) []string {
	seen := make(map[string]struct{}, len(slugs))
	out := make([]string, 0, len(slugs))
	for _, s := range slugs {
		key := norm.NFC.String(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

func resultFor(r route, e *pagecache.Entry) RouteResult {
	return RouteResult{
		Route:    r.key,
		Slug:     r.slug,
		Kind:     e.Kind,
		Status:   e.Status,
		Location: e.Location,
	}
}
