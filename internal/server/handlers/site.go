package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"git.home.luguber.info/inful/recipebook/internal/foundation/errors"
	"git.home.luguber.info/inful/recipebook/internal/generation"
)

// PageServer answers page requests; implemented by generation.Scheduler.
type PageServer interface {
	Serve(ctx context.Context, path string) generation.Response
}

// SiteHandlers serves generated pages.
type SiteHandlers struct {
	pages        PageServer
	errorAdapter *errors.HTTPErrorAdapter
}

// NewSiteHandlers creates site handlers backed by pages.
func NewSiteHandlers(pages PageServer) *SiteHandlers {
	return &SiteHandlers{
		pages:        pages,
		errorAdapter: errors.NewHTTPErrorAdapter(slog.Default()),
	}
}

// HandlePage writes the generated response for the request path.
func (h *SiteHandlers) HandlePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		err := errors.ValidationError("invalid HTTP method").
			WithContext("method", r.Method).
			WithContext("allowed_method", "GET").
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	resp := h.pages.Serve(r.Context(), r.URL.Path)

	header := w.Header()
	if resp.Cache != "" {
		header.Set("X-Cache", string(resp.Cache))
	}
	if resp.GenerationID != "" {
		header.Set("X-Generation-Id", resp.GenerationID)
	}
	if resp.Location != "" {
		header.Set("Location", resp.Location)
		w.WriteHeader(resp.Status)
		return
	}
	if resp.Status != http.StatusOK {
		header.Set("Cache-Control", "no-store")
	}
	header.Set("Content-Type", "text/html; charset=utf-8")
	header.Set("Content-Length", strconv.Itoa(len(resp.Body)))
	w.WriteHeader(resp.Status)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(resp.Body)
}
