// Package responses defines API response types used by recipebook HTTP handlers.
package responses

import "time"

// HealthResponse represents the health check API response.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    float64   `json:"uptime"`
}

// RevalidateResponse represents the on-demand revalidation response.
type RevalidateResponse struct {
	Path        string `json:"path"`
	Revalidated bool   `json:"revalidated"`
	// Cached is false when the route had not been generated yet; it will be
	// generated on its first request.
	Cached bool `json:"cached"`
}
