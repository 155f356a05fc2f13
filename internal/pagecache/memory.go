package pagecache

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore implements Store in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (s *MemoryStore) Get(_ context.Context, route string) (*Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[route]
	if !ok {
		return nil, false, nil
	}
	e.Body = slices.Clone(e.Body)
	return &e, true, nil
}

func (s *MemoryStore) Put(_ context.Context, e *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *e
	stored.Body = slices.Clone(e.Body)
	s.entries[e.Route] = stored
	return nil
}

func (s *MemoryStore) Invalidate(_ context.Context, route string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[route]
	if !ok {
		return false, nil
	}
	e.Invalidated = true
	s.entries[route] = e
	return true, nil
}

func (s *MemoryStore) Routes(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	routes := make([]string, 0, len(s.entries))
	for r := range s.entries {
		routes = append(routes, r)
	}
	slices.Sort(routes)
	return routes, nil
}

func (s *MemoryStore) Close() error { return nil }
