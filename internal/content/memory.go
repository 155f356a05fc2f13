package content

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// MemorySource is an in-memory Source. Records are returned in insertion order.
type MemorySource struct {
	mu      sync.RWMutex
	records []Record
	queries atomic.Int64
	err     error
}

// NewMemorySource returns a source holding the given records.
func NewMemorySource(records ...Record) *MemorySource {
	return &MemorySource{records: append([]Record(nil), records...)}
}

// Query implements Source.
func (m *MemorySource) Query(ctx context.Context, q Query) ([]Record, error) {
	m.queries.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}

	out := make([]Record, 0, len(m.records))
	for _, r := range m.records {
		if q.ContentType != "" && r.ContentType != q.ContentType {
			continue
		}
		if !matchesFields(r, q.Fields) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// Put appends a record.
func (m *MemorySource) Put(r Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, r)
}

// Replace swaps the full record set.
func (m *MemorySource) Replace(records ...Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append([]Record(nil), records...)
}

// FailWith makes subsequent queries return err; nil restores normal behaviour.
func (m *MemorySource) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Queries reports how many queries were issued.
func (m *MemorySource) Queries() int64 {
	return m.queries.Load()
}

func matchesFields(r Record, filters map[string]string) bool {
	for name, want := range filters {
		v, ok := r.Fields[name]
		if !ok {
			return false
		}
		if fmt.Sprint(v) != want {
			return false
		}
	}
	return true
}
