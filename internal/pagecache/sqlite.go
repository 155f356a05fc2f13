package pagecache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite, so generated pages survive restarts.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens or creates the cache database.
// Use ":memory:" for an in-memory database, or a file path for persistent storage.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// Each connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS pages (
		route TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		status INTEGER NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		body BLOB,
		generation_id TEXT NOT NULL DEFAULT '',
		generated_at INTEGER NOT NULL,
		revalidate_after INTEGER NOT NULL DEFAULT 0,
		invalidated INTEGER NOT NULL DEFAULT 0
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Get returns the entry for route.
func (s *SQLiteStore) Get(ctx context.Context, route string) (*Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		e           Entry
		kind        string
		generatedAt int64
		revalidate  int64
		invalidated int
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT route, kind, status, location, body, generation_id, generated_at, revalidate_after, invalidated
		 FROM pages WHERE route = ?`,
		route,
	).Scan(&e.Route, &kind, &e.Status, &e.Location, &e.Body, &e.GenerationID, &generatedAt, &revalidate, &invalidated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query page: %w", err)
	}

	e.Kind = Kind(kind)
	e.GeneratedAt = time.Unix(0, generatedAt)
	e.RevalidateAfter = time.Duration(revalidate)
	e.Invalidated = invalidated != 0
	return &e, true, nil
}

// Put inserts or replaces an entry.
func (s *SQLiteStore) Put(ctx context.Context, e *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	invalidated := 0
	if e.Invalidated {
		invalidated = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pages (route, kind, status, location, body, generation_id, generated_at, revalidate_after, invalidated)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(route) DO UPDATE SET
		   kind = excluded.kind,
		   status = excluded.status,
		   location = excluded.location,
		   body = excluded.body,
		   generation_id = excluded.generation_id,
		   generated_at = excluded.generated_at,
		   revalidate_after = excluded.revalidate_after,
		   invalidated = excluded.invalidated`,
		e.Route, string(e.Kind), e.Status, e.Location, e.Body, e.GenerationID,
		e.GeneratedAt.UnixNano(), int64(e.RevalidateAfter), invalidated,
	)
	if err != nil {
		return fmt.Errorf("upsert page: %w", err)
	}
	return nil
}

// Invalidate marks route stale.
func (s *SQLiteStore) Invalidate(ctx context.Context, route string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "UPDATE pages SET invalidated = 1 WHERE route = ?", route)
	if err != nil {
		return false, fmt.Errorf("invalidate page: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("invalidate page: %w", err)
	}
	return n > 0, nil
}

// Routes lists cached routes.
func (s *SQLiteStore) Routes(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT route FROM pages ORDER BY route")
	if err != nil {
		return nil, fmt.Errorf("query routes: %w", err)
	}
	defer rows.Close()

	var routes []string
	for rows.Next() {
		var r string
		if err := rows.Scan(&r); err != nil {
			return nil, fmt.Errorf("scan route: %w", err)
		}
		routes = append(routes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return routes, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
