package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"git.home.luguber.info/inful/recipebook/internal/generation"
	"git.home.luguber.info/inful/recipebook/internal/metrics"
)

// Runtime is the minimal interface required by the HTTP handlers.
// It is implemented by generation.Scheduler.
type Runtime interface {
	Serve(ctx context.Context, path string) generation.Response
	Invalidate(ctx context.Context, path string) (bool, error)
}

// Options configures additional server wiring that is runtime-specific.
type Options struct {
	Logger   *slog.Logger
	Recorder metrics.Recorder

	// Optional: Prometheus exposition on the admin listener.
	PrometheusHandler http.Handler
}
