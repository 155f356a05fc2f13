package httpserver

import (
	"net/http"
)

// AdminHandler returns the admin listener's handler.
func (s *Server) AdminHandler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.monitoringHandlers.HandleHealthCheck)
	mux.HandleFunc("/healthz", s.monitoringHandlers.HandleHealthCheck) // Kubernetes-style alias

	if s.opts.PrometheusHandler != nil {
		mux.Handle("/metrics", s.opts.PrometheusHandler)
	}

	mux.HandleFunc("/revalidate", s.revalidateHandlers.HandleRevalidate)

	return s.mchain(mux)
}
