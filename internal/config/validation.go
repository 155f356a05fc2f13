package config

import (
	"fmt"
	"strings"

	derrors "git.home.luguber.info/inful/recipebook/internal/foundation/errors"
	"git.home.luguber.info/inful/recipebook/internal/foundation/normalization"
)

// CacheBackend selects the page cache implementation.
type CacheBackend string

const (
	CacheBackendMemory CacheBackend = "memory"
	CacheBackendSQLite CacheBackend = "sqlite"
)

var cacheBackendNormalizer = normalization.NewNormalizer(map[string]CacheBackend{
	"memory": CacheBackendMemory,
	"sqlite": CacheBackendSQLite,
}, CacheBackendMemory)

// normalize case-folds enumerations, rejecting unknown values.
func normalize(cfg *Config) error {
	backend, err := cacheBackendNormalizer.NormalizeWithError(string(cfg.Cache.Backend))
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryConfig, "invalid cache.backend").Fatal().Build()
	}
	cfg.Cache.Backend = backend
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
	cfg.Content.Host = strings.TrimSuffix(strings.TrimSpace(cfg.Content.Host), "/")
	return nil
}

// Validate checks the configuration after defaults were applied.
func Validate(cfg *Config) error {
	if cfg.Content.Fixtures == "" {
		if strings.TrimSpace(cfg.Content.SpaceID) == "" {
			return derrors.ConfigError(fmt.Sprintf("content.space_id is required (set %s)", EnvSpaceID)).Build()
		}
		if strings.TrimSpace(cfg.Content.AccessToken) == "" {
			return derrors.ConfigError(fmt.Sprintf("content.access_token is required (set %s)", EnvAccessToken)).Build()
		}
	}
	if cfg.Content.PageSize > 1000 {
		return derrors.ConfigError("content.page_size cannot exceed 1000").
			WithContext("page_size", cfg.Content.PageSize).
			Build()
	}
	if cfg.Generation.Revalidate < 0 {
		return derrors.ConfigError("generation.revalidate cannot be negative").Build()
	}
	if cfg.Generation.ListingRevalidate < 0 {
		return derrors.ConfigError("generation.listing_revalidate cannot be negative").Build()
	}
	if cfg.Generation.FallbackTimeout < 0 {
		return derrors.ConfigError("generation.fallback_timeout cannot be negative").Build()
	}
	if cfg.Cache.Backend == CacheBackendSQLite && strings.TrimSpace(cfg.Cache.Path) == "" {
		return derrors.ConfigError("cache.path is required for the sqlite backend").Build()
	}
	if cfg.Server.Port == cfg.Server.AdminPort {
		return derrors.ConfigError("server.port and server.admin_port must differ").
			WithContext("port", cfg.Server.Port).
			Build()
	}
	if cfg.Notify.Enabled && strings.TrimSpace(cfg.Notify.NATSURL) == "" {
		return derrors.ConfigError("notify.nats_url is required when notify is enabled").Build()
	}
	return nil
}
