// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

package config

import (
	"time"

	"github.com/tomtom215/shelfmatch/internal/logging"
	"github.com/tomtom215/shelfmatch/internal/recommend"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Store     StoreConfig     `koanf:"store"`
	Recommend RecommendConfig `koanf:"recommend"`
	Security  SecurityConfig  `koanf:"security"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`          // per-request handler timeout
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"` // graceful drain window
	Environment     string        `koanf:"environment"`      // development, staging, production
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json (production) or console (development).
	Format string `koanf:"format"`

	// Caller includes file and line number in every entry.
	Caller bool `koanf:"caller"`
}

// ToLogging converts to the logging package's configuration.
func (l LoggingConfig) ToLogging() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = l.Level
	cfg.Format = l.Format
	cfg.Caller = l.Caller
	return cfg
}

// StoreConfig locates the catalog snapshot store.
type StoreConfig struct {
	// Dir holds the {name}_v{version}.gob.gz snapshot files.
	Dir string `koanf:"dir"`

	// Name is the snapshot name the server serves.
	Name string `koanf:"name"`

	// ReloadInterval is how often the store is polled for a newer version.
	// Zero disables polling.
	ReloadInterval time.Duration `koanf:"reload_interval"`

	// Keep is how many versions Prune retains after a reload. Zero keeps all.
	Keep int `koanf:"keep"`
}

// RecommendConfig holds scoring defaults and result cache settings.
type RecommendConfig struct {
	WeightTitle   float64 `koanf:"weight_title"`
	WeightGenre   float64 `koanf:"weight_genre"`
	WeightRating  float64 `koanf:"weight_rating"`
	WeightYear    float64 `koanf:"weight_year"`
	WeightCluster float64 `koanf:"weight_cluster"`

	DefaultK         int `koanf:"default_k"`
	MaxK             int `koanf:"max_k"`
	MaxSearchResults int `koanf:"max_search_results"`

	CacheEnabled    bool          `koanf:"cache_enabled"`
	CacheTTL        time.Duration `koanf:"cache_ttl"`
	CacheMaxEntries int           `koanf:"cache_max_entries"`
}

// Weights returns the configured default weight set.
func (r RecommendConfig) Weights() recommend.WeightSet {
	return recommend.WeightSet{
		Title:   r.WeightTitle,
		Genre:   r.WeightGenre,
		Rating:  r.WeightRating,
		Year:    r.WeightYear,
		Cluster: r.WeightCluster,
	}
}

// ToEngineConfig converts to the recommendation engine's configuration.
//
//nolint:gocritic // hugeParam: called once at startup
func (r RecommendConfig) ToEngineConfig() *recommend.Config {
	return &recommend.Config{
		Weights: r.Weights(),
		Limits: recommend.LimitsConfig{
			DefaultK:         r.DefaultK,
			MaxK:             r.MaxK,
			MaxSearchResults: r.MaxSearchResults,
		},
		Cache: recommend.CacheConfig{
			Enabled:    r.CacheEnabled,
			TTL:        r.CacheTTL,
			MaxEntries: r.CacheMaxEntries,
		},
	}
}

// SecurityConfig holds rate limiting and CORS settings
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`

	// ConfigWriteEnabled allows PUT /api/v1/recommendations/config. The
	// endpoint has no authentication, so it is off unless set.
	ConfigWriteEnabled bool `koanf:"config_write_enabled"`
}
