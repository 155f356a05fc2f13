// Package pagecache stores generated pages and redirects keyed by route.
package pagecache

import (
	"context"
	"time"
)

// Kind distinguishes rendered pages from redirect entries.
type Kind string

const (
	KindPage     Kind = "page"
	KindRedirect Kind = "redirect"
)

// Entry is one generated route.
type Entry struct {
	Route        string
	Kind         Kind
	Status       int
	Location     string // redirect target
	Body         []byte
	GenerationID string
	GeneratedAt  time.Time
	// RevalidateAfter is how long the entry stays fresh; zero means forever.
	RevalidateAfter time.Duration
	// Invalidated forces the next access to treat the entry as stale.
	Invalidated bool
}

// Stale reports whether the entry should be regenerated at now.
func (e *Entry) Stale(now time.Time) bool {
	if e.Invalidated {
		return true
	}
	if e.RevalidateAfter <= 0 {
		return false
	}
	return !now.Before(e.GeneratedAt.Add(e.RevalidateAfter))
}

// Store defines the interface for persisting generated routes.
type Store interface {
	// Get returns the entry for route; ok is false when none exists.
	Get(ctx context.Context, route string) (entry *Entry, ok bool, err error)

	// Put inserts or replaces the entry for e.Route.
	Put(ctx context.Context, e *Entry) error

	// Invalidate marks the entry for route stale. It reports whether one existed.
	Invalidate(ctx context.Context, route string) (bool, error)

	// Routes lists cached routes in lexical order.
	Routes(ctx context.Context) ([]string, error)

	// Close releases resources.
	Close() error
}
