package pagecache

import (
	"git.home.luguber.info/inful/recipebook/internal/config"
	derrors "git.home.luguber.info/inful/recipebook/internal/foundation/errors"
)

// Open returns the store selected by cfg.
func Open(cfg config.CacheConfig) (Store, error) {
	switch cfg.Backend {
	case config.CacheBackendSQLite:
		s, err := NewSQLiteStore(cfg.Path)
		if err != nil {
			return nil, derrors.WrapError(err, derrors.CategoryCache, "open sqlite page cache").
				WithContext("path", cfg.Path).
				Build()
		}
		return s, nil
	case config.CacheBackendMemory, "":
		return NewMemoryStore(), nil
	default:
		return nil, derrors.ConfigError("unsupported cache backend").
			WithContext("backend", string(cfg.Backend)).
			Build()
	}
}
