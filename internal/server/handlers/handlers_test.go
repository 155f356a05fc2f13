package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/recipebook/internal/foundation/errors"
	"git.home.luguber.info/inful/recipebook/internal/generation"
	"git.home.luguber.info/inful/recipebook/internal/metrics"
	"git.home.luguber.info/inful/recipebook/internal/server/responses"
)

type fakePages map[string]generation.Response

func (f fakePages) Serve(_ context.Context, path string) generation.Response {
	if resp, ok := f[path]; ok {
		return resp
	}
	return generation.Response{Status: http.StatusNotFound, Body: []byte("missing")}
}

type fakeInvalidator struct {
	paths []string
	err   error
}

func (f *fakeInvalidator) Invalidate(_ context.Context, path string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.paths = append(f.paths, path)
	return path == "/", nil
}

func TestHandlePage(t *testing.T) {
	h := NewSiteHandlers(fakePages{
		"/":             {Status: http.StatusOK, Body: []byte("<html>list</html>"), Cache: metrics.CacheFresh, GenerationID: "g1"},
		"/recipes/gone": {Status: http.StatusTemporaryRedirect, Location: "/", Cache: metrics.CacheFresh},
		"/recipes/slow": {Status: http.StatusAccepted, Body: []byte("pending"), Cache: metrics.CacheMiss},
	})

	t.Run("page", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.HandlePage(w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "<html>list</html>", w.Body.String())
		require.Equal(t, "fresh", w.Header().Get("X-Cache"))
		require.Equal(t, "g1", w.Header().Get("X-Generation-Id"))
		require.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	})

	t.Run("redirect is temporary", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.HandlePage(w, httptest.NewRequest(http.MethodGet, "/recipes/gone", nil))
		require.Equal(t, http.StatusTemporaryRedirect, w.Code)
		require.Equal(t, "/", w.Header().Get("Location"))
		require.Empty(t, w.Body.String())
	})

	t.Run("pending is not cacheable", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.HandlePage(w, httptest.NewRequest(http.MethodGet, "/recipes/slow", nil))
		require.Equal(t, http.StatusAccepted, w.Code)
		require.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	})

	t.Run("head has no body", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.HandlePage(w, httptest.NewRequest(http.MethodHead, "/", nil))
		require.Equal(t, http.StatusOK, w.Code)
		require.Empty(t, w.Body.String())
	})

	t.Run("post rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.HandlePage(w, httptest.NewRequest(http.MethodPost, "/", nil))
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleHealthCheck(t *testing.T) {
	h := NewMonitoringHandlers(time.Now().Add(-time.Minute))

	w := httptest.NewRecorder()
	h.HandleHealthCheck(w, httptest.NewRequest(http.MethodGet, "/health?pretty=1", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body responses.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "healthy", body.Status)
	require.GreaterOrEqual(t, body.Uptime, 60.0)
	require.Contains(t, w.Body.String(), "\n  \"status\"")

	w = httptest.NewRecorder()
	h.HandleHealthCheck(w, httptest.NewRequest(http.MethodHead, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Zero(t, w.Body.Len())

	w = httptest.NewRecorder()
	h.HandleHealthCheck(w, httptest.NewRequest(http.MethodDelete, "/health", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleRevalidate(t *testing.T) {
	newRequest := func(method, target, secret string) *http.Request {
		r := httptest.NewRequest(method, target, nil)
		if secret != "" {
			r.Header.Set(SecretHeader, secret)
		}
		return r
	}

	t.Run("path", func(t *testing.T) {
		inv := &fakeInvalidator{}
		w := httptest.NewRecorder()
		NewRevalidateHandlers(inv, "s3cret").HandleRevalidate(w, newRequest(http.MethodPost, "/revalidate?path=/", "s3cret"))
		require.Equal(t, http.StatusAccepted, w.Code)

		var body responses.RevalidateResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Equal(t, "/", body.Path)
		require.True(t, body.Revalidated)
		require.True(t, body.Cached)
		require.Equal(t, []string{"/"}, inv.paths)
	})

	t.Run("slug", func(t *testing.T) {
		inv := &fakeInvalidator{}
		w := httptest.NewRecorder()
		NewRevalidateHandlers(inv, "s3cret").HandleRevalidate(w, newRequest(http.MethodPost, "/revalidate?slug=pasta-bake", "s3cret"))
		require.Equal(t, http.StatusAccepted, w.Code)
		require.Equal(t, []string{"/recipes/pasta-bake"}, inv.paths)
	})

	t.Run("wrong secret", func(t *testing.T) {
		inv := &fakeInvalidator{}
		w := httptest.NewRecorder()
		NewRevalidateHandlers(inv, "s3cret").HandleRevalidate(w, newRequest(http.MethodPost, "/revalidate?path=/", "nope"))
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Empty(t, inv.paths)
	})

	t.Run("no secret configured", func(t *testing.T) {
		w := httptest.NewRecorder()
		NewRevalidateHandlers(&fakeInvalidator{}, "").HandleRevalidate(w, newRequest(http.MethodPost, "/revalidate?path=/", ""))
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing path", func(t *testing.T) {
		w := httptest.NewRecorder()
		NewRevalidateHandlers(&fakeInvalidator{}, "s3cret").HandleRevalidate(w, newRequest(http.MethodPost, "/revalidate", "s3cret"))
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid route", func(t *testing.T) {
		inv := &fakeInvalidator{err: errors.ValidationError("not a generated route").Build()}
		w := httptest.NewRecorder()
		NewRevalidateHandlers(inv, "s3cret").HandleRevalidate(w, newRequest(http.MethodPost, "/revalidate?path=/about", "s3cret"))
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("get rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		NewRevalidateHandlers(&fakeInvalidator{}, "s3cret").HandleRevalidate(w, newRequest(http.MethodGet, "/revalidate?path=/", "s3cret"))
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}
