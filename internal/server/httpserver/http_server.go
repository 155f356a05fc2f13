// Package httpserver runs the site and admin HTTP listeners.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"git.home.luguber.info/inful/recipebook/internal/config"
	derrors "git.home.luguber.info/inful/recipebook/internal/foundation/errors"
	"git.home.luguber.info/inful/recipebook/internal/logfields"
	handlers "git.home.luguber.info/inful/recipebook/internal/server/handlers"
	smw "git.home.luguber.info/inful/recipebook/internal/server/middleware"
)

// Server manages HTTP endpoints (site, admin).
type Server struct {
	siteServer   *http.Server
	adminServer  *http.Server
	cfg          config.ServerConfig
	opts         Options
	logger       *slog.Logger
	errorAdapter *derrors.HTTPErrorAdapter

	// Handler modules
	siteHandlers       *handlers.SiteHandlers
	monitoringHandlers *handlers.MonitoringHandlers
	revalidateHandlers *handlers.RevalidateHandlers

	// middleware chain
	mchain func(http.Handler) http.Handler
}

// New constructs a new HTTP server wiring instance.
func New(cfg config.ServerConfig, runtime Runtime, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	s := &Server{
		cfg:          cfg,
		opts:         opts,
		logger:       opts.Logger,
		errorAdapter: derrors.NewHTTPErrorAdapter(opts.Logger),
	}

	s.siteHandlers = handlers.NewSiteHandlers(runtime)
	s.monitoringHandlers = handlers.NewMonitoringHandlers(time.Now())
	s.revalidateHandlers = handlers.NewRevalidateHandlers(runtime, cfg.RevalidateSecret)

	s.mchain = smw.Chain(opts.Logger, s.errorAdapter, opts.Recorder)
	return s
}

// Start binds both listeners and serves them in the background.
func (s *Server) Start(ctx context.Context) error {
	// Pre-bind all ports so a busy port fails startup before anything is served.
	type preBind struct {
		name string
		port int
		ln   net.Listener
	}
	binds := []preBind{
		{name: "site", port: s.cfg.Port},
		{name: "admin", port: s.cfg.AdminPort},
	}
	var bindErrs []error
	lc := net.ListenConfig{}
	for i := range binds {
		addr := fmt.Sprintf(":%d", binds[i].port)
		ln, err := lc.Listen(ctx, "tcp", addr)
		if err != nil {
			bindErrs = append(bindErrs, fmt.Errorf("%s port %d: %w", binds[i].name, binds[i].port, err))
			continue
		}
		binds[i].ln = ln
	}
	if len(bindErrs) > 0 {
		for _, b := range binds {
			if b.ln != nil {
				_ = b.ln.Close()
			}
		}
		return derrors.WrapError(errors.Join(bindErrs...), derrors.CategoryRuntime, "http startup failed").Build()
	}

	s.siteServer = &http.Server{Handler: s.SiteHandler(), ReadHeaderTimeout: 10 * time.Second, IdleTimeout: 120 * time.Second}
	s.adminServer = &http.Server{Handler: s.AdminHandler(), ReadTimeout: 30 * time.Second, WriteTimeout: 30 * time.Second, IdleTimeout: 120 * time.Second}
	s.serve("site", s.siteServer, binds[0].ln)
	s.serve("admin", s.adminServer, binds[1].ln)

	s.logger.Info("HTTP servers started",
		slog.Int("site_port", s.cfg.Port),
		slog.Int("admin_port", s.cfg.AdminPort))
	return nil
}

// Stop gracefully shuts down all HTTP servers.
func (s *Server) Stop(ctx context.Context) error {
	var errs []error

	if s.adminServer != nil {
		if err := s.adminServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("admin server shutdown: %w", err))
		}
	}
	if s.siteServer != nil {
		if err := s.siteServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("site server shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return derrors.WrapError(errors.Join(errs...), derrors.CategoryRuntime, "shutdown errors").Build()
	}
	s.logger.Info("HTTP servers stopped")
	return nil
}

// SiteHandler returns the site listener's handler: every GET goes to the scheduler.
func (s *Server) SiteHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.siteHandlers.HandlePage)
	return s.mchain(mux)
}

// serve launches srv on a pre-bound listener.
func (s *Server) serve(kind string, srv *http.Server, ln net.Listener) {
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error(fmt.Sprintf("%s server error", kind), logfields.Error(err))
		}
	}()
}
