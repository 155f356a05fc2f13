package commands

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"
	promcollect "github.com/prometheus/client_golang/prometheus/collectors"

	"git.home.luguber.info/inful/recipebook/internal/config"
	"git.home.luguber.info/inful/recipebook/internal/logfields"
	"git.home.luguber.info/inful/recipebook/internal/metrics"
	"git.home.luguber.info/inful/recipebook/internal/notify"
	"git.home.luguber.info/inful/recipebook/internal/pagecache"
	"git.home.luguber.info/inful/recipebook/internal/server/httpserver"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Port          int  `short:"p" help:"Site port (overrides server.port)"`
	AdminPort     int  `name:"admin-port" help:"Admin port (overrides server.admin_port)"`
	NoPrerender   bool `name:"no-prerender" help:"Start with an empty cache and generate every page on demand"`
	DisableNotify bool `name:"disable-notify" help:"Do not subscribe to revalidation events"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.load(g)
	if err != nil {
		return err
	}
	if s.Port != 0 {
		cfg.Server.Port = s.Port
	}
	if s.AdminPort != 0 {
		cfg.Server.AdminPort = s.AdminPort
	}
	if s.DisableNotify {
		cfg.Notify.Enabled = false
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return RunServe(ctx, cfg, !s.NoPrerender, g.Logger)
}

// RunServe serves the site until ctx is cancelled.
func RunServe(ctx context.Context, cfg *config.Config, prerender bool, logger *slog.Logger) (err error) {
	store, err := pagecache.Open(cfg.Cache)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Warn("Failed to close page cache", logfields.Error(cerr))
		}
	}()

	reg := prom.NewRegistry()
	reg.MustRegister(promcollect.NewGoCollector(), promcollect.NewProcessCollector(promcollect.ProcessCollectorOpts{}))
	recorder := metrics.NewPrometheusRecorder(reg)

	st, err := newSite(cfg, store, logger, recorder)
	if err != nil {
		return err
	}
	scheduler := st.scheduler

	stopCtx := func() (context.Context, context.CancelFunc) {
		return context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	}
	defer func() {
		sctx, scancel := stopCtx()
		defer scancel()
		if serr := scheduler.Stop(sctx); serr != nil {
			logger.Warn("Scheduler did not stop cleanly", logfields.Error(serr))
		}
	}()

	if prerender {
		report, perr := scheduler.Prerender(ctx)
		if perr != nil {
			return perr
		}
		logger.Info("Prerender complete",
			logfields.Count(len(report.Routes)),
			slog.Int("redirects", len(report.Redirects())))
	}
	if err := scheduler.Start(ctx); err != nil {
		return err
	}

	srv := httpserver.New(cfg.Server, scheduler, httpserver.Options{
		Logger:            logger,
		Recorder:          recorder,
		PrometheusHandler: metrics.HTTPHandler(reg),
	})
	if err := srv.Start(ctx); err != nil {
		return err
	}
	defer func() {
		sctx, scancel := stopCtx()
		defer scancel()
		if serr := srv.Stop(sctx); serr != nil {
			err = errors.Join(err, serr)
		}
	}()

	if cfg.Notify.Enabled {
		sub := notify.NewSubscriber(scheduler, logger)
		if err := sub.Start(cfg.Notify); err != nil {
			return err
		}
		defer func() {
			if cerr := sub.Close(); cerr != nil {
				logger.Warn("Failed to drain revalidation subscription", logfields.Error(cerr))
			}
		}()
	}

	logger.Info("Serving recipes",
		slog.Int("port", cfg.Server.Port),
		slog.Int("admin_port", cfg.Server.AdminPort))
	<-ctx.Done()
	logger.Info("Shutdown signal received, stopping server")
	return nil
}
