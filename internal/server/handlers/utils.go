package handlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"git.home.luguber.info/inful/recipebook/internal/logfields"
)

// writeJSON encodes v before touching w, so an encode failure leaves the
// response untouched for the caller's error adapter.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if wantsPretty(r) {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if r != nil && r.Method == http.MethodHead {
		return nil
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("Failed to write JSON response", logfields.Error(err))
		return err
	}
	return nil
}

func wantsPretty(r *http.Request) bool {
	if r == nil {
		return false
	}
	p := r.URL.Query().Get("pretty")
	return p == "1" || p == "true"
}
