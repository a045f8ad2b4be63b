// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

package api

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfmatch/internal/cache"
	"github.com/tomtom215/shelfmatch/internal/recommend"
	"github.com/tomtom215/shelfmatch/internal/storage"
)

// Recommender is the engine surface the handlers use. *recommend.Engine satisfies it.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error)
	Search(ctx context.Context, query string, mode recommend.SearchMode, limit int) ([]recommend.Item, error)
	Item(id int) (recommend.Item, error)
	Snapshot() *recommend.Snapshot
	GetMetrics() recommend.Metrics
	GetConfig() *recommend.Config
	UpdateConfig(cfg *recommend.Config) error
	CacheStats() (cache.Stats, bool)
}

// SnapshotLister lists stored snapshot versions. *storage.Store satisfies it.
type SnapshotLister interface {
	ListSnapshots(ctx context.Context) ([]storage.SnapshotMetadata, error)
}

// Handler serves the HTTP API.
type Handler struct {
	engine    Recommender
	store     SnapshotLister
	logger    zerolog.Logger
	startTime time.Time
}

// NewHandler creates a handler. store may be nil, in which case snapshot
// listings are omitted.
func NewHandler(engine Recommender, store SnapshotLister, logger zerolog.Logger) *Handler {
	return &Handler{
		engine:    engine,
		store:     store,
		logger:    logger.With().Str("component", "api").Logger(),
		startTime: time.Now(),
	}
}
