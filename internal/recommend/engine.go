// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfmatch/internal/cache"
	"github.com/tomtom215/shelfmatch/internal/metrics"
)

// Engine serves recommendations from the currently loaded catalog snapshot.
// It is safe for concurrent use. Each request reads the snapshot that was
// current when it started; Load swaps snapshots without blocking readers.
type Engine struct {
	logger zerolog.Logger

	// Configuration and the result cache it sizes
	mu     sync.RWMutex
	config *Config
	cache  *cache.LRU[string, *Response]

	snapshot atomic.Pointer[Snapshot]

	// Metrics
	requestCount atomic.Int64
	emptyResults atomic.Int64
	notFound     atomic.Int64
	cacheHits    atomic.Int64
	cacheMisses  atomic.Int64
	errorCount   atomic.Int64
}

// NewEngine creates a new recommendation engine with no snapshot loaded.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	e := &Engine{
		config: cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
	}
	e.cache = newResultCache(cfg)
	return e, nil
}

func newResultCache(cfg *Config) *cache.LRU[string, *Response] {
	if !cfg.Cache.Enabled {
		return nil
	}
	return cache.NewLRU[string, *Response](cfg.Cache.MaxEntries, cfg.Cache.TTL)
}

// Load installs s as the current snapshot and drops cached results.
func (e *Engine) Load(s *Snapshot) error {
	if s == nil {
		return fmt.Errorf("load snapshot: nil snapshot")
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	prev := e.snapshot.Swap(s)
	e.clearCache()
	metrics.SetSnapshot(s.Version, len(s.Items))

	ev := e.logger.Info().
		Int("version", s.Version).
		Int("items", len(s.Items)).
		Str("source", s.Source)
	if prev != nil {
		ev = ev.Int("previous_version", prev.Version)
	}
	ev.Msg("catalog snapshot loaded")
	return nil
}

// Snapshot returns the current snapshot, or nil if none is loaded.
func (e *Engine) Snapshot() *Snapshot {
	return e.snapshot.Load()
}

// Recommend resolves the request's anchor and returns the top K similar items.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := e.recommend(ctx, req, start)

	returned := 0
	if resp != nil {
		returned = len(resp.Items)
	}
	metrics.RecordRecommendation(outcomeOf(resp, err), time.Since(start), returned)
	return resp, err
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) recommend(ctx context.Context, req Request, start time.Time) (*Response, error) {
	e.requestCount.Add(1)

	snap := e.snapshot.Load()
	if snap == nil {
		return nil, ErrNoSnapshot
	}

	cfg, resultCache := e.current()
	req = e.prepareRequest(req, cfg)
	logger := e.createRequestLogger(req)
	logger.Debug().Msg("processing recommendation request")

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}

	anchor, err := e.resolveAnchor(req, snap)
	if err != nil {
		if IsNotFound(err) {
			e.notFound.Add(1)
			logger.Debug().Str("query", req.Query).Msg("query matched no item")
		}
		return nil, err
	}

	nw, err := req.Weights.Normalize()
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}

	key := cacheKey(snap.Version, anchor, nw, req.Filter, req.K)
	if resp := e.tryGetCachedResponse(resultCache, key, req, start, logger); resp != nil {
		return resp, nil
	}

	items, scanned, err := e.scoreAndRank(snap, anchor, nw, req)
	if err != nil {
		e.errorCount.Add(1)
		logger.Error().Err(err).Int("anchor_id", anchor).Msg("scoring failed")
		return nil, fmt.Errorf("score anchor %d: %w", anchor, err)
	}

	resp := &Response{
		Anchor: snap.Items[anchor].Clone(),
		Items:  items,
		Metadata: ResponseMetadata{
			RequestID:       req.RequestID,
			AnchorID:        anchor,
			Weights:         nw,
			SnapshotVersion: snap.Version,
			Scanned:         scanned,
			LatencyMS:       time.Since(start).Milliseconds(),
			Timestamp:       time.Now(),
		},
	}
	if len(items) == 0 {
		e.emptyResults.Add(1)
	}
	if resultCache != nil {
		resultCache.Add(key, resp)
	}

	logger.Debug().
		Int("anchor_id", anchor).
		Int("scanned", scanned).
		Int("returned", len(items)).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation complete")

	return copyResponse(resp), nil
}

// outcomeOf classifies a finished request for the recommend_requests_total metric.
func outcomeOf(resp *Response, err error) string {
	switch {
	case err == nil && len(resp.Items) == 0:
		return metrics.OutcomeEmpty
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrNoSnapshot):
		return metrics.OutcomeNoSnapshot
	case IsNotFound(err):
		return metrics.OutcomeNotFound
	case IsConfiguration(err):
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeError
	}
}

// current returns the configuration and result cache as one consistent pair.
func (e *Engine) current() (*Config, *cache.LRU[string, *Response]) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.config, e.cache
}

// prepareRequest applies defaults and generates a request ID if needed.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request, cfg *Config) Request {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	if req.Mode == "" {
		req.Mode = ModeTitle
	}
	if req.K <= 0 {
		req.K = cfg.Limits.DefaultK
	}
	if req.K > cfg.Limits.MaxK {
		req.K = cfg.Limits.MaxK
	}
	if req.Weights == nil {
		w := cfg.Weights
		req.Weights = &w
	}
	return req
}

// createRequestLogger creates a logger with request context.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) createRequestLogger(req Request) zerolog.Logger {
	return e.logger.With().
		Str("request_id", req.RequestID).
		Str("mode", req.Mode.String()).
		Int("k", req.K).
		Logger()
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) resolveAnchor(req Request, snap *Snapshot) (int, error) {
	if req.AnchorID != nil {
		if err := checkIndex(*req.AnchorID, len(snap.Items)); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrUnknownAnchor, err)
		}
		return *req.AnchorID, nil
	}
	return ResolveBy(req.Query, snap.Items, req.Mode)
}

// scoreAndRank scores every item against the anchor, ranks and filters them,
// and attaches the per-signal breakdown to each accepted item.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) scoreAndRank(snap *Snapshot, anchor int, nw WeightSet, req Request) ([]ScoredItem, int, error) {
	scores, err := Score(anchor, snap.Items, snap.Matrices, nw)
	if err != nil {
		return nil, 0, err
	}

	ranked, scanned, err := rankWithScan(scores, snap.Items, req.Filter, anchor, req.K)
	if err != nil {
		return nil, 0, err
	}

	for i := range ranked {
		breakdown, err := Contributions(anchor, ranked[i].Item.ID, snap.Items, snap.Matrices, nw)
		if err != nil {
			return nil, 0, err
		}
		ranked[i].Scores = breakdown
	}
	return ranked, scanned, nil
}

// tryGetCachedResponse returns a copy of the cached response, or nil on a miss.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) tryGetCachedResponse(c *cache.LRU[string, *Response], key string, req Request, start time.Time, logger zerolog.Logger) *Response {
	if c == nil {
		return nil
	}

	cached, ok := c.Get(key)
	metrics.RecordCacheLookup(ok)
	if !ok {
		e.cacheMisses.Add(1)
		return nil
	}

	e.cacheHits.Add(1)
	if len(cached.Items) == 0 {
		e.emptyResults.Add(1)
	}
	resp := copyResponse(cached)
	resp.Metadata.RequestID = req.RequestID
	resp.Metadata.CacheHit = true
	resp.Metadata.LatencyMS = time.Since(start).Milliseconds()
	resp.Metadata.Timestamp = time.Now()
	logger.Debug().Msg("cache hit")
	return resp
}

// cacheKey identifies a ranked result. The snapshot version is part of the key
// so a reload can never serve results computed from an older catalog.
//
//nolint:gocritic // hugeParam: values passed for immutability
func cacheKey(version, anchor int, nw WeightSet, f FilterSpec, k int) string {
	genres := make([]string, 0, len(f.Genres))
	for g := range f.genreSet() {
		genres = append(genres, g)
	}
	sort.Strings(genres)

	return fmt.Sprintf("rec:v%d:a%d:k%d:w%.9f,%.9f,%.9f,%.9f,%.9f:r%g:g%s",
		version, anchor, k,
		nw.Title, nw.Genre, nw.Rating, nw.Year, nw.Cluster,
		f.MinRating, strings.Join(genres, "|"))
}

// copyResponse returns a deep copy of a cached response. Callers own the
// result and may modify any part of it.
func copyResponse(resp *Response) *Response {
	items := make([]ScoredItem, len(resp.Items))
	for i := range resp.Items {
		items[i] = resp.Items[i].Clone()
	}

	return &Response{
		Anchor:   resp.Anchor.Clone(),
		Items:    items,
		Metadata: resp.Metadata,
	}
}

// Search returns up to limit items whose mode field contains query, in catalog order.
func (e *Engine) Search(ctx context.Context, query string, mode SearchMode, limit int) ([]Item, error) {
	snap := e.snapshot.Load()
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	cfg, _ := e.current()
	if limit <= 0 || limit > cfg.Limits.MaxSearchResults {
		limit = cfg.Limits.MaxSearchResults
	}

	ids := Match(query, snap.Items, mode, limit)
	items := make([]Item, 0, len(ids))
	for _, id := range ids {
		items = append(items, snap.Items[id].Clone())
	}
	return items, nil
}

// Item returns the item with the given id.
func (e *Engine) Item(id int) (Item, error) {
	snap := e.snapshot.Load()
	if snap == nil {
		return Item{}, ErrNoSnapshot
	}
	if err := checkIndex(id, len(snap.Items)); err != nil {
		return Item{}, err
	}
	return snap.Items[id].Clone(), nil
}

// GetMetrics returns the current engine metrics.
func (e *Engine) GetMetrics() Metrics {
	m := Metrics{
		RequestCount: e.requestCount.Load(),
		EmptyResults: e.emptyResults.Load(),
		NotFound:     e.notFound.Load(),
		CacheHits:    e.cacheHits.Load(),
		CacheMisses:  e.cacheMisses.Load(),
		ErrorCount:   e.errorCount.Load(),
	}
	if snap := e.snapshot.Load(); snap != nil {
		m.SnapshotVersion = snap.Version
		m.ItemCount = len(snap.Items)
	}
	return m
}

// GetConfig returns a copy of the current configuration.
func (e *Engine) GetConfig() *Config {
	cfg, _ := e.current()
	return cfg.Clone()
}

// UpdateConfig replaces the engine configuration and resets the result cache.
func (e *Engine) UpdateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("invalid config: nil")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	e.mu.Lock()
	e.config = cfg.Clone()
	e.cache = newResultCache(cfg)
	e.mu.Unlock()

	e.logger.Info().
		Interface("weights", cfg.Weights).
		Int("default_k", cfg.Limits.DefaultK).
		Msg("configuration updated")

	return nil
}

// CleanupCache drops expired result cache entries and returns how many were removed.
func (e *Engine) CleanupCache() int {
	_, c := e.current()
	if c == nil {
		return 0
	}
	return c.CleanupExpired()
}

// CacheStats returns result cache counters. ok is false when caching is disabled.
func (e *Engine) CacheStats() (stats cache.Stats, ok bool) {
	_, c := e.current()
	if c == nil {
		return cache.Stats{}, false
	}
	return c.Stats(), true
}

// clearCache removes all cached entries.
func (e *Engine) clearCache() {
	_, c := e.current()
	if c == nil {
		return
	}
	c.Clear()
	e.logger.Debug().Msg("cache cleared")
}
