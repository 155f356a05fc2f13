package pagecache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/recipebook/internal/config"
	derrors "git.home.luguber.info/inful/recipebook/internal/foundation/errors"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	sqliteStore, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	memSQLite, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqliteStore.Close()
		_ = memSQLite.Close()
	})
	return map[string]Store{
		"memory":        NewMemoryStore(),
		"sqlite":        sqliteStore,
		"sqlite-memory": memSQLite,
	}
}

func TestStores(t *testing.T) {
	generated := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := t.Context()

			_, ok, err := store.Get(ctx, "/recipes/soup")
			require.NoError(t, err)
			require.False(t, ok)

			page := &Entry{
				Route:           "/recipes/soup",
				Kind:            KindPage,
				Status:          200,
				Body:            []byte("<p>soup</p>"),
				GenerationID:    "gen-1",
				GeneratedAt:     generated,
				RevalidateAfter: time.Second,
			}
			require.NoError(t, store.Put(ctx, page))

			got, ok, err := store.Get(ctx, "/recipes/soup")
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, KindPage, got.Kind)
			require.Equal(t, 200, got.Status)
			require.Equal(t, []byte("<p>soup</p>"), got.Body)
			require.Equal(t, "gen-1", got.GenerationID)
			require.True(t, generated.Equal(got.GeneratedAt))
			require.Equal(t, time.Second, got.RevalidateAfter)
			require.False(t, got.Invalidated)

			redirect := &Entry{
				Route:       "/recipes/soup",
				Kind:        KindRedirect,
				Status:      307,
				Location:    "/",
				GeneratedAt: generated.Add(time.Minute),
			}
			require.NoError(t, store.Put(ctx, redirect))
			got, ok, err = store.Get(ctx, "/recipes/soup")
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, KindRedirect, got.Kind)
			require.Equal(t, "/", got.Location)
			require.Empty(t, got.Body)

			found, err := store.Invalidate(ctx, "/recipes/soup")
			require.NoError(t, err)
			require.True(t, found)
			got, _, err = store.Get(ctx, "/recipes/soup")
			require.NoError(t, err)
			require.True(t, got.Invalidated)

			found, err = store.Invalidate(ctx, "/recipes/none")
			require.NoError(t, err)
			require.False(t, found)

			require.NoError(t, store.Put(ctx, &Entry{Route: "/", Kind: KindPage, Status: 200, GeneratedAt: generated}))
			routes, err := store.Routes(ctx)
			require.NoError(t, err)
			require.Equal(t, []string{"/", "/recipes/soup"}, routes)
		})
	}
}

func TestMemoryStoreCopiesBodies(t *testing.T) {
	s := NewMemoryStore()
	body := []byte("abc")
	require.NoError(t, s.Put(t.Context(), &Entry{Route: "/", Body: body}))
	body[0] = 'x'

	got, _, err := s.Get(t.Context(), "/")
	require.NoError(t, err)
	require.Equal(t, "abc", string(got.Body))
}

func TestSQLiteStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(t.Context(), &Entry{Route: "/", Kind: KindPage, Status: 200, Body: []byte("x"), GeneratedAt: time.Now()}))
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	got, ok, err := reopened.Get(t.Context(), "/")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "x", string(got.Body))
}

func TestEntryStale(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	forever := &Entry{GeneratedAt: at}
	require.False(t, forever.Stale(at.Add(24*time.Hour)))

	short := &Entry{GeneratedAt: at, RevalidateAfter: time.Second}
	require.False(t, short.Stale(at.Add(500*time.Millisecond)))
	require.True(t, short.Stale(at.Add(time.Second)))

	forced := &Entry{GeneratedAt: at, Invalidated: true}
	require.True(t, forced.Stale(at))
}

func TestOpen(t *testing.T) {
	s, err := Open(config.CacheConfig{Backend: config.CacheBackendMemory})
	require.NoError(t, err)
	require.IsType(t, &MemoryStore{}, s)

	s, err = Open(config.CacheConfig{Backend: config.CacheBackendSQLite, Path: filepath.Join(t.TempDir(), "c.db")})
	require.NoError(t, err)
	require.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open(config.CacheConfig{Backend: "redis"})
	require.True(t, derrors.HasCategory(err, derrors.CategoryConfig))
}
