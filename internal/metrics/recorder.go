package metrics

import "time"

// OutcomeLabel enumerates generation results for counters.
type OutcomeLabel string

const (
	OutcomeSuccess  OutcomeLabel = "success"
	OutcomeNotFound OutcomeLabel = "not_found"
	OutcomeError    OutcomeLabel = "error"
	OutcomePending  OutcomeLabel = "pending"
)

// CacheStateLabel describes how a request was answered by the page cache.
type CacheStateLabel string

const (
	CacheFresh CacheStateLabel = "fresh"
	CacheStale CacheStateLabel = "stale"
	CacheMiss  CacheStateLabel = "miss"
)

// Recorder defines observability hooks for generation and serving metrics.
type Recorder interface {
	ObserveGeneration(kind string, d time.Duration, outcome OutcomeLabel)
	IncCacheResult(state CacheStateLabel)
	SetDiscoveredRoutes(n int)
	IncRevalidation(trigger string) // trigger: expired|api|notify|discovery
	ObserveHTTPRequest(method string, status int, d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveGeneration(string, time.Duration, OutcomeLabel) {}
func (NoopRecorder) IncCacheResult(CacheStateLabel)                        {}
func (NoopRecorder) SetDiscoveredRoutes(int)                               {}
func (NoopRecorder) IncRevalidation(string)                                {}
func (NoopRecorder) ObserveHTTPRequest(string, int, time.Duration)         {}
