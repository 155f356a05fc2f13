package handlers

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"git.home.luguber.info/inful/recipebook/internal/foundation/errors"
	"git.home.luguber.info/inful/recipebook/internal/server/responses"
	"git.home.luguber.info/inful/recipebook/internal/views"
)

// SecretHeader carries the shared revalidation secret.
const SecretHeader = "X-Revalidate-Secret"

// Invalidator marks generated routes stale; implemented by generation.Scheduler.
type Invalidator interface {
	Invalidate(ctx context.Context, path string) (bool, error)
}

// RevalidateHandlers handles on-demand revalidation requests.
type RevalidateHandlers struct {
	invalidator  Invalidator
	secret       string
	errorAdapter *errors.HTTPErrorAdapter
}

// NewRevalidateHandlers creates revalidation handlers. An empty secret rejects every request.
func NewRevalidateHandlers(invalidator Invalidator, secret string) *RevalidateHandlers {
	return &RevalidateHandlers{
		invalidator:  invalidator,
		secret:       secret,
		errorAdapter: errors.NewHTTPErrorAdapter(slog.Default()),
	}
}

// HandleRevalidate invalidates the route named by the path or slug query parameter.
func (h *RevalidateHandlers) HandleRevalidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		err := errors.ValidationError("invalid HTTP method").
			WithContext("method", r.Method).
			WithContext("allowed_method", "POST").
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	given := r.Header.Get(SecretHeader)
	if h.secret == "" || subtle.ConstantTimeCompare([]byte(given), []byte(h.secret)) != 1 {
		h.errorAdapter.WriteErrorResponse(w, r, errors.AuthError("invalid revalidation secret").Build())
		return
	}

	path := r.URL.Query().Get("path")
	if slug := r.URL.Query().Get("slug"); path == "" && slug != "" {
		path = views.DetailPath(slug)
	}
	if path == "" {
		err := errors.ValidationError("path or slug query parameter required").Build()
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	cached, err := h.invalidator.Invalidate(r.Context(), path)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	resp := &responses.RevalidateResponse{Path: path, Revalidated: true, Cached: cached}
	if err := writeJSON(w, r, http.StatusAccepted, resp); err != nil {
		internalErr := errors.WrapError(err, errors.CategoryInternal, "failed to write revalidate response").
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, internalErr)
	}
}
