package generation

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"git.home.luguber.info/inful/recipebook/internal/content"
	derrors "git.home.luguber.info/inful/recipebook/internal/foundation/errors"
	"git.home.luguber.info/inful/recipebook/internal/logfields"
	"git.home.luguber.info/inful/recipebook/internal/metrics"
	"git.home.luguber.info/inful/recipebook/internal/pagecache"
	"git.home.luguber.info/inful/recipebook/internal/recipes"
	"git.home.luguber.info/inful/recipebook/internal/views"
)

// Pipeline is the data side of generation.
type Pipeline interface {
	FetchListing(ctx context.Context, contentType string) ([]content.Record, error)
	DiscoverRoutes(ctx context.Context, contentType string) (*recipes.Routes, error)
	FetchDetail(ctx context.Context, contentType, slug string) (*recipes.Result, error)
}

// Renderer is the presentation side of generation.
type Renderer interface {
	RenderListing(records []content.Record) ([]byte, error)
	RenderDetail(in views.DetailInput) ([]byte, error)
	RenderNotFound() ([]byte, error)
}

// Options configures a Scheduler.
type Options struct {
	ContentType string
	// Revalidate is the freshness window of redirect entries for missing recipes, so a
	// recipe published later replaces the redirect. Zero keeps them until invalidated.
	Revalidate time.Duration
	// ListingRevalidate is the freshness window of the listing; zero keeps it until invalidated.
	ListingRevalidate time.Duration
	// FallbackTimeout bounds how long a request waits for on-demand generation.
	FallbackTimeout time.Duration
	// Concurrency limits parallel detail generations during prerendering.
	Concurrency int
	// DiscoveryInterval enables periodic route rediscovery when positive.
	DiscoveryInterval time.Duration

	Logger   *slog.Logger
	Recorder metrics.Recorder
}

// Response is what the site returns for one request.
type Response struct {
	Status       int
	Location     string
	Body         []byte
	Cache        metrics.CacheStateLabel
	GenerationID string
}

// Scheduler decides when to run the pipelines and what to serve meanwhile.
type Scheduler struct {
	pipeline Pipeline
	renderer Renderer
	store    pagecache.Store
	opts     Options
	logger   *slog.Logger
	recorder metrics.Recorder
	now      func() time.Time

	group singleflight.Group

	mu           sync.Mutex
	known        map[string]struct{}
	revalidating map[string]struct{}
	stopping     bool

	// storeMu orders epoch bumps with store invalidation and epoch checks with Put.
	storeMu sync.Mutex
	epochs  map[string]uint64

	bgCtx    context.Context
	bgCancel context.CancelFunc
	wg       sync.WaitGroup

	cron *cron
}

// NewScheduler wires a scheduler. It does not query anything until used.
func NewScheduler(pipeline Pipeline, renderer Renderer, store pagecache.Store, opts Options) *Scheduler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.ContentType == "" {
		opts.ContentType = "recipe"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		pipeline:     pipeline,
		renderer:     renderer,
		store:        store,
		opts:         opts,
		logger:       opts.Logger,
		recorder:     opts.Recorder,
		now:          time.Now,
		known:        make(map[string]struct{}),
		revalidating: make(map[string]struct{}),
		epochs:       make(map[string]uint64),
		bgCtx:        ctx,
		bgCancel:     cancel,
	}
}

// Start begins periodic rediscovery if configured.
func (s *Scheduler) Start(_ context.Context) error {
	if s.opts.DiscoveryInterval <= 0 {
		return nil
	}
	c, err := newCron()
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryRuntime, "create discovery scheduler").Build()
	}
	if _, err := c.every(s.opts.DiscoveryInterval, "route-discovery", s.rediscover); err != nil {
		_ = c.stop()
		return derrors.WrapError(err, derrors.CategoryRuntime, "schedule route discovery").Build()
	}
	s.cron = c
	s.logger.Info("Starting route discovery", slog.Duration("interval", s.opts.DiscoveryInterval))
	c.start()
	return nil
}

// Stop cancels background work and waits for it until ctx expires.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	s.stopping = true
	s.mu.Unlock()

	var cronErr error
	if s.cron != nil {
		cronErr = s.cron.stop()
		s.cron = nil
	}
	s.bgCancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	if cronErr != nil {
		return derrors.WrapError(cronErr, derrors.CategoryRuntime, "stop discovery scheduler").Build()
	}
	return nil
}

// Serve answers a request for path.
func (s *Scheduler) Serve(ctx context.Context, path string) Response {
	r, ok := parseRoute(path)
	if !ok {
		return s.notFound()
	}

	entry, found, err := s.store.Get(ctx, r.key)
	if err != nil {
		s.logger.Warn("Page cache read failed; generating", logfields.Route(r.key), logfields.Error(err))
	}
	if found {
		state := metrics.CacheFresh
		if entry.Stale(s.now()) {
			state = metrics.CacheStale
			trigger := "expired"
			if entry.Invalidated {
				trigger = "invalidated"
			}
			s.revalidateAsync(r, trigger)
		}
		s.recorder.IncCacheResult(state)
		return responseFrom(entry, state)
	}

	s.recorder.IncCacheResult(metrics.CacheMiss)
	return s.generateOnDemand(ctx, r)
}

// Invalidate marks the cached entry for path stale and starts regenerating it.
// It reports whether an entry existed.
func (s *Scheduler) Invalidate(ctx context.Context, path string) (bool, error) {
	r, ok := parseRoute(path)
	if !ok {
		return false, derrors.ValidationError("not a generated route").
			WithContext("path", path).
			Build()
	}
	found, err := s.invalidate(ctx, r.key)
	if err != nil {
		return false, derrors.WrapError(err, derrors.CategoryCache, "invalidate page").
			WithContext("path", r.key).
			Build()
	}
	if found {
		s.revalidateAsync(r, "invalidated")
	}
	s.logger.Info("Route invalidated", logfields.Route(r.key), slog.Bool("cached", found))
	return found, nil
}

// invalidate bumps the route epoch and marks the cached entry stale.
func (s *Scheduler) invalidate(ctx context.Context, key string) (bool, error) {
	s.storeMu.Lock()
	defer s.storeMu.Unlock()
	s.epochs[key]++
	return s.store.Invalidate(ctx, key)
}

func (s *Scheduler) epoch(key string) uint64 {
	s.storeMu.Lock()
	defer s.storeMu.Unlock()
	return s.epochs[key]
}

// goBackground runs fn as work Stop waits for. It reports false once stopping.
func (s *Scheduler) goBackground(fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopping {
		return false
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn()
	}()
	return true
}

func (s *Scheduler) generateOnDemand(ctx context.Context, r route) Response {
	ch := make(chan singleflight.Result, 1)
	started := s.goBackground(func() {
		v, err, shared := s.group.Do(r.key, func() (any, error) {
			return s.generate(s.bgCtx, r)
		})
		ch <- singleflight.Result{Val: v, Err: err, Shared: shared}
	})
	if !started {
		return Response{Status: http.StatusServiceUnavailable, Cache: metrics.CacheMiss}
	}

	var timeout <-chan time.Time
	if r.kind == routeDetail && s.opts.FallbackTimeout > 0 {
		timer := time.NewTimer(s.opts.FallbackTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case res := <-ch:
		if res.Err != nil {
			return s.notFound()
		}
		entry, _ := res.Val.(*pagecache.Entry)
		return responseFrom(entry, metrics.CacheMiss)
	case <-timeout:
		return s.pending(r)
	case <-ctx.Done():
		if r.kind == routeDetail {
			return s.pending(r)
		}
		return Response{Status: http.StatusServiceUnavailable, Cache: metrics.CacheMiss}
	}
}

// maxRegenerations bounds how often one revalidation repeats while the route keeps
// being invalidated underneath it.
const maxRegenerations = 3

// revalidateAsync regenerates r in the background unless a regeneration is running.
// A running regeneration that overlaps an invalidation stores its entry still
// invalidated and is repeated.
func (s *Scheduler) revalidateAsync(r route, trigger string) {
	s.mu.Lock()
	if _, busy := s.revalidating[r.key]; busy || s.stopping {
		s.mu.Unlock()
		return
	}
	s.revalidating[r.key] = struct{}{}
	s.wg.Add(1)
	s.mu.Unlock()

	s.recorder.IncRevalidation(trigger)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			delete(s.revalidating, r.key)
			s.mu.Unlock()
		}()
		for range maxRegenerations {
			v, err, _ := s.group.Do(r.key, func() (any, error) {
				return s.generate(s.bgCtx, r)
			})
			if err != nil {
				s.logger.Warn("Revalidation failed; keeping cached page",
					logfields.Route(r.key),
					slog.String("trigger", trigger),
					logfields.Error(err))
				return
			}
			entry, _ := v.(*pagecache.Entry)
			if entry == nil || !entry.Invalidated || s.bgCtx.Err() != nil {
				return
			}
		}
	}()
}

// generate runs the pipeline for r, renders it and stores the result. Failures
// leave the cache untouched; a missing recipe stores a redirect to the listing.
func (s *Scheduler) generate(ctx context.Context, r route) (*pagecache.Entry, error) {
	id := uuid.NewString()
	epoch := s.epoch(r.key)
	start := s.now()
	logger := s.logger.With(logfields.Route(r.key), logfields.GenerationID(id))

	entry, outcome, err := s.build(ctx, r)
	elapsed := s.now().Sub(start)
	s.recorder.ObserveGeneration(string(r.kind), elapsed, outcome)
	if err != nil {
		logger.Error("Generation failed", logfields.Duration(elapsed), logfields.Error(err))
		return nil, err
	}

	entry.Route = r.key
	entry.GenerationID = id
	entry.GeneratedAt = start
	s.storeMu.Lock()
	entry.Invalidated = s.epochs[r.key] != epoch
	putErr := s.store.Put(ctx, entry)
	s.storeMu.Unlock()
	if putErr != nil {
		logger.Warn("Page cache write failed", logfields.Error(putErr))
	}
	logger.Info("Generated route",
		logfields.Outcome(string(outcome)),
		logfields.Status(entry.Status),
		logfields.Duration(elapsed))
	return entry, nil
}

func (s *Scheduler) build(ctx context.Context, r route) (*pagecache.Entry, metrics.OutcomeLabel, error) {
	switch r.kind {
	case routeListing:
		records, err := s.pipeline.FetchListing(ctx, s.opts.ContentType)
		if err != nil {
			return nil, metrics.OutcomeError, err
		}
		body, err := s.renderer.RenderListing(records)
		if err != nil {
			return nil, metrics.OutcomeError, err
		}
		return &pagecache.Entry{
			Kind:            pagecache.KindPage,
			Status:          http.StatusOK,
			Body:            body,
			RevalidateAfter: s.opts.ListingRevalidate,
		}, metrics.OutcomeSuccess, nil

	case routeDetail:
		res, err := s.pipeline.FetchDetail(ctx, s.opts.ContentType, r.slug)
		if errors.Is(err, recipes.ErrNotFound) {
			return &pagecache.Entry{
				Kind:            pagecache.KindRedirect,
				Status:          http.StatusTemporaryRedirect,
				Location:        RootPath,
				RevalidateAfter: s.opts.Revalidate,
			}, metrics.OutcomeNotFound, nil
		}
		if err != nil {
			return nil, metrics.OutcomeError, err
		}
		body, err := s.renderer.RenderDetail(views.Ready(res.Detail))
		if err != nil {
			return nil, metrics.OutcomeError, err
		}
		return &pagecache.Entry{
			Kind:            pagecache.KindPage,
			Status:          http.StatusOK,
			Body:            body,
			RevalidateAfter: res.Revalidate,
		}, metrics.OutcomeSuccess, nil
	}
	return nil, metrics.OutcomeError, derrors.InternalError("unknown route kind").
		WithContext("kind", string(r.kind)).
		Build()
}

func (s *Scheduler) pending(r route) Response {
	s.recorder.ObserveGeneration(string(r.kind), 0, metrics.OutcomePending)
	body, err := s.renderer.RenderDetail(views.Pending(r.slug))
	if err != nil {
		s.logger.Error("Pending page render failed", logfields.Route(r.key), logfields.Error(err))
		return Response{Status: http.StatusAccepted, Cache: metrics.CacheMiss}
	}
	return Response{Status: http.StatusAccepted, Body: body, Cache: metrics.CacheMiss}
}

func (s *Scheduler) notFound() Response {
	body, err := s.renderer.RenderNotFound()
	if err != nil {
		s.logger.Error("Not-found page render failed", logfields.Error(err))
		body = []byte(http.StatusText(http.StatusNotFound))
	}
	return Response{Status: http.StatusNotFound, Body: body}
}

func responseFrom(e *pagecache.Entry, state metrics.CacheStateLabel) Response {
	resp := Response{Status: e.Status, Cache: state, GenerationID: e.GenerationID}
	if e.Kind == pagecache.KindRedirect {
		resp.Location = e.Location
		return resp
	}
	resp.Body = e.Body
	return resp
}
