package config

import "time"

// Default values applied to zero-valued fields.
const (
	DefaultEnvironment       = "master"
	DefaultHost              = "cdn.contentful.com"
	DefaultContentType       = "recipe"
	DefaultPageSize          = 100
	DefaultTimeout           = 10 * time.Second
	DefaultRevalidate        = time.Second
	DefaultFallbackTimeout   = 2 * time.Second
	DefaultConcurrency       = 4
	DefaultDiscoveryInterval = 10 * time.Minute
	DefaultPort              = 8080
	DefaultAdminPort         = 8081
	DefaultShutdownTimeout   = 30 * time.Second
	DefaultNotifySubject     = "recipebook.revalidate"
	DefaultCachePath         = "./recipebook-cache.db"
	DefaultOutputDir         = "./site"
	DefaultSiteTitle         = "Just Add Marmite"
	DefaultSiteTagline       = "Spread the joy"
)

// applyDefaults fills zero values. ListingRevalidate stays zero (never) and
// DiscoveryInterval is only defaulted when unset in the file, so an explicit 0s
// in YAML cannot be told apart from absence; use a negative value to disable.
func applyDefaults(cfg *Config) {
	c := &cfg.Content
	if c.Environment == "" {
		c.Environment = DefaultEnvironment
	}
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.ContentType == "" {
		c.ContentType = DefaultContentType
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}

	if cfg.Site.Title == "" {
		cfg.Site.Title = DefaultSiteTitle
		if cfg.Site.Tagline == "" {
			cfg.Site.Tagline = DefaultSiteTagline
		}
	}

	g := &cfg.Generation
	if g.Revalidate == 0 {
		g.Revalidate = DefaultRevalidate
	}
	if g.FallbackTimeout == 0 {
		g.FallbackTimeout = DefaultFallbackTimeout
	}
	if g.Concurrency <= 0 {
		g.Concurrency = DefaultConcurrency
	}
	switch {
	case g.DiscoveryInterval == 0:
		g.DiscoveryInterval = DefaultDiscoveryInterval
	case g.DiscoveryInterval < 0:
		g.DiscoveryInterval = 0
	}

	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = CacheBackendMemory
	}
	if cfg.Cache.Path == "" {
		cfg.Cache.Path = DefaultCachePath
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Server.AdminPort == 0 {
		cfg.Server.AdminPort = DefaultAdminPort
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if cfg.Notify.Subject == "" {
		cfg.Notify.Subject = DefaultNotifySubject
	}

	if cfg.Output.Directory == "" {
		cfg.Output.Directory = DefaultOutputDir
		cfg.Output.Clean = true
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
}
