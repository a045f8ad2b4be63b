// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

package recommend

import (
	"fmt"
	"math"
	"time"

	"github.com/goccy/go-json"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Weights are the default signal weights used when a request carries none.
	// Weights are normalized per request, so they don't need to sum to 1.0.
	Weights WeightSet `json:"weights"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`

	// Cache contains result caching parameters.
	Cache CacheConfig `json:"cache"`
}

// WeightSet holds the five non-negative signal weights.
type WeightSet struct {
	Title   float64 `json:"title"`
	Genre   float64 `json:"genre"`
	Rating  float64 `json:"rating"`
	Year    float64 `json:"year"`
	Cluster float64 `json:"cluster"`
}

// DefaultWeights returns the stock blend: text similarity dominates, the
// cluster boost only breaks near-ties.
func DefaultWeights() WeightSet {
	return WeightSet{
		Title:   0.45,
		Genre:   0.25,
		Rating:  0.15,
		Year:    0.10,
		Cluster: 0.05,
	}
}

// Sum returns the raw weight total.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w WeightSet) Sum() float64 {
	return w.Title + w.Genre + w.Rating + w.Year + w.Cluster
}

// Validate checks that every weight is finite and non-negative and that at least one is positive.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w WeightSet) Validate() error {
	for _, p := range w.pairs() {
		if math.IsNaN(p.value) || math.IsInf(p.value, 0) {
			return &ConfigurationError{Reason: fmt.Sprintf("weight %s is not finite", p.name)}
		}
		if p.value < 0 {
			return &ConfigurationError{Reason: fmt.Sprintf("weight %s must be non-negative, got %f", p.name, p.value)}
		}
	}
	if w.Sum() <= 0 {
		return &ConfigurationError{Reason: "all weights are zero"}
	}
	return nil
}

// Normalize returns a copy with weights divided by their sum.
// A zero sum or a negative weight is a *ConfigurationError; there is no fallback blend.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w WeightSet) Normalize() (WeightSet, error) {
	if err := w.Validate(); err != nil {
		return WeightSet{}, err
	}
	sum := w.Sum()
	return WeightSet{
		Title:   w.Title / sum,
		Genre:   w.Genre / sum,
		Rating:  w.Rating / sum,
		Year:    w.Year / sum,
		Cluster: w.Cluster / sum,
	}, nil
}

type weightPair struct {
	name  string
	value float64
}

//nolint:gocritic // value receiver is intentional for immutable semantics
func (w WeightSet) pairs() []weightPair {
	return []weightPair{
		{SignalTitle, w.Title},
		{SignalGenre, w.Genre},
		{SignalRating, w.Rating},
		{SignalYear, w.Year},
		{SignalCluster, w.Cluster},
	}
}

// ToMap returns the weights keyed by signal name.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w WeightSet) ToMap() map[string]float64 {
	return map[string]float64{
		SignalTitle:   w.Title,
		SignalGenre:   w.Genre,
		SignalRating:  w.Rating,
		SignalYear:    w.Year,
		SignalCluster: w.Cluster,
	}
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultK is the number of recommendations returned when a request asks for none.
	// Default: 10.
	DefaultK int `json:"default_k"`

	// MaxK caps the requested K.
	// Default: 100.
	MaxK int `json:"max_k"`

	// MaxSearchResults caps search result lists.
	// Default: 50.
	MaxSearchResults int `json:"max_search_results"`
}

// CacheConfig contains result caching parameters.
type CacheConfig struct {
	// Enabled controls whether caching is active.
	// Default: true.
	Enabled bool `json:"enabled"`

	// TTL is the cache entry time-to-live.
	// Default: 5m.
	TTL time.Duration `json:"ttl"`

	// MaxEntries is the maximum number of cached responses.
	// Default: 10000.
	MaxEntries int `json:"max_entries"`
}

// DefaultConfig returns a Config with sensible production defaults.
func DefaultConfig() *Config {
	return &Config{
		Weights: DefaultWeights(),
		Limits: LimitsConfig{
			DefaultK:         10,
			MaxK:             100,
			MaxSearchResults: 50,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        5 * time.Minute,
			MaxEntries: 10000,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return fmt.Errorf("weights: %w", err)
	}

	if c.Limits.DefaultK < 1 {
		return fmt.Errorf("limits.default_k must be positive, got %d", c.Limits.DefaultK)
	}
	if c.Limits.MaxK < c.Limits.DefaultK {
		return fmt.Errorf("limits.max_k must be >= limits.default_k, got %d < %d", c.Limits.MaxK, c.Limits.DefaultK)
	}
	if c.Limits.MaxSearchResults < 1 {
		return fmt.Errorf("limits.max_search_results must be positive, got %d", c.Limits.MaxSearchResults)
	}

	if c.Cache.Enabled {
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive, got %v", c.Cache.TTL)
		}
		if c.Cache.MaxEntries < 1 {
			return fmt.Errorf("cache.max_entries must be positive, got %d", c.Cache.MaxEntries)
		}
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// All nested structs contain only value types.
	clone := *c
	return &clone
}

// MarshalJSON renders durations as strings.
func (c *Config) MarshalJSON() ([]byte, error) {
	type cacheJSON struct {
		Enabled    bool   `json:"enabled"`
		TTL        string `json:"ttl"`
		MaxEntries int    `json:"max_entries"`
	}
	return json.Marshal(&struct {
		Weights WeightSet    `json:"weights"`
		Limits  LimitsConfig `json:"limits"`
		Cache   cacheJSON    `json:"cache"`
	}{
		Weights: c.Weights,
		Limits:  c.Limits,
		Cache: cacheJSON{
			Enabled:    c.Cache.Enabled,
			TTL:        c.Cache.TTL.String(),
			MaxEntries: c.Cache.MaxEntries,
		},
	})
}
