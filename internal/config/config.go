// Package config loads recipebook configuration from YAML, .env files and the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/recipebook/internal/foundation/errors"
)

// Environment variables holding the two content service secrets.
const (
	EnvSpaceID     = "CONTENTFUL_SPACE_ID"
	EnvAccessToken = "CONTENTFUL_ACCESS_KEY"
)

// Config represents the application configuration.
type Config struct {
	Content    ContentConfig    `yaml:"content"`
	Site       SiteConfig       `yaml:"site"`
	Generation GenerationConfig `yaml:"generation"`
	Cache      CacheConfig      `yaml:"cache"`
	Server     ServerConfig     `yaml:"server"`
	Notify     NotifyConfig     `yaml:"notify"`
	Output     OutputConfig     `yaml:"output"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ContentConfig configures the content delivery client.
type ContentConfig struct {
	SpaceID     string        `yaml:"space_id"`
	AccessToken string        `yaml:"access_token"`
	Environment string        `yaml:"environment"`
	Host        string        `yaml:"host"`         // cdn.contentful.com or preview.contentful.com
	ContentType string        `yaml:"content_type"` // routed content type
	PageSize    int           `yaml:"page_size"`    // entries per request when paging
	Timeout     time.Duration `yaml:"timeout"`
	Fixtures    string        `yaml:"fixtures"` // local records file used instead of the delivery API
}

// SiteConfig holds presentation settings for the rendered pages.
type SiteConfig struct {
	Title   string `yaml:"title"`
	Tagline string `yaml:"tagline"`
	BaseURL string `yaml:"base_url"`
}

// GenerationConfig controls prerendering and regeneration of pages.
type GenerationConfig struct {
	Revalidate           time.Duration `yaml:"revalidate"`             // detail pages stale after
	ListingRevalidate    time.Duration `yaml:"listing_revalidate"`     // 0 = never
	FallbackTimeout      time.Duration `yaml:"fallback_timeout"`       // wait before serving the pending page
	Concurrency          int           `yaml:"concurrency"`            // parallel detail generations during prerender
	DiscoveryInterval    time.Duration `yaml:"discovery_interval"`     // 0 disables periodic rediscovery
	RejectDuplicateSlugs bool          `yaml:"reject_duplicate_slugs"` // fail discovery on duplicate slugs
}

// CacheConfig selects where generated pages are kept.
type CacheConfig struct {
	Backend CacheBackend `yaml:"backend"`
	Path    string       `yaml:"path"` // sqlite database file
}

// ServerConfig configures the HTTP listeners used by `serve`.
type ServerConfig struct {
	Port             int           `yaml:"port"`
	AdminPort        int           `yaml:"admin_port"`
	RevalidateSecret string        `yaml:"revalidate_secret"`
	ShutdownTimeout  time.Duration `yaml:"shutdown_timeout"`
}

// NotifyConfig configures the optional NATS revalidation subscriber.
type NotifyConfig struct {
	Enabled bool   `yaml:"enabled"`
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
	Queue   string `yaml:"queue"`
}

// OutputConfig represents static export configuration.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean"`
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// Load reads the configuration file at configPath. A missing file is not an error:
// defaults plus the environment are enough to run against a content space.
func Load(configPath string) (*Config, error) {
	if loaded, err := loadEnvFiles(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	} else {
		slog.Debug("Loaded environment file", "path", loaded)
	}

	cfg := &Config{}
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
				return nil, derrors.WrapError(err, derrors.CategoryConfig, "failed to parse configuration").
					Fatal().
					WithContext("path", configPath).
					Build()
			}
		case os.IsNotExist(err):
			slog.Debug("Configuration file not found, using defaults", "path", configPath)
		default:
			return nil, derrors.WrapError(err, derrors.CategoryConfig, "failed to read configuration").
				Fatal().
				WithContext("path", configPath).
				Build()
		}
	}

	applyEnv(cfg)
	if err := normalize(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv fills the content secrets from the environment when the file left them empty.
func applyEnv(cfg *Config) {
	if cfg.Content.SpaceID == "" {
		cfg.Content.SpaceID = os.Getenv(EnvSpaceID)
	}
	if cfg.Content.AccessToken == "" {
		cfg.Content.AccessToken = os.Getenv(EnvAccessToken)
	}
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return derrors.ConfigError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath)).
			WithContext("path", configPath).
			Build()
	}
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o644); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "failed to write configuration").
			WithContext("path", configPath).
			Build()
	}
	return nil
}

const exampleConfig = `# recipebook configuration
content:
  space_id: ${CONTENTFUL_SPACE_ID}
  access_token: ${CONTENTFUL_ACCESS_KEY}
  environment: master
  host: cdn.contentful.com
  content_type: recipe
  timeout: 10s

site:
  title: Just Add Marmite
  tagline: Spread the joy

generation:
  revalidate: 1s
  listing_revalidate: 0s
  fallback_timeout: 2s
  concurrency: 4
  discovery_interval: 10m
  reject_duplicate_slugs: false

cache:
  backend: memory
  path: ./recipebook-cache.db

server:
  port: 8080
  admin_port: 8081
  revalidate_secret: ${RECIPEBOOK_REVALIDATE_SECRET}

notify:
  enabled: false
  nats_url: nats://127.0.0.1:4222
  subject: recipebook.revalidate

output:
  directory: ./site
  clean: true

logging:
  level: info
  format: text
`
