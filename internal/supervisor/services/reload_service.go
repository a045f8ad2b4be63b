// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfmatch/internal/metrics"
	"github.com/tomtom215/shelfmatch/internal/recommend"
	"github.com/tomtom215/shelfmatch/internal/storage"
)

// Reload outcomes recorded on catalog_snapshot_reloads_total.
const (
	ReloadLoaded    = "loaded"
	ReloadUnchanged = "unchanged"
	ReloadError     = "error"
)

// SnapshotStore is the storage surface the reload loop needs. *storage.Store satisfies it.
type SnapshotStore interface {
	Rescan() error
	GetLatestVersion(name string) (int, bool)
	LoadSnapshot(ctx context.Context, name string, version int) (*recommend.Snapshot, *storage.SnapshotMetadata, error)
	Prune(ctx context.Context, name string, keep int) ([]int, error)
}

// SnapshotEngine is the engine surface the reload loop needs. *recommend.Engine satisfies it.
type SnapshotEngine interface {
	Snapshot() *recommend.Snapshot
	Load(s *recommend.Snapshot) error
	CleanupCache() int
}

// ReloadConfig configures SnapshotReloadService.
type ReloadConfig struct {
	// Name is the snapshot name to follow.
	Name string

	// Interval is how often the store is polled. Default: 1m.
	Interval time.Duration

	// Keep prunes older versions after each load, keeping this many. 0 keeps all.
	Keep int
}

// SnapshotReloadService polls the snapshot store and swaps newer versions into
// the engine. Requests in flight keep the snapshot they started with.
// Expired result cache entries are dropped on every tick.
type SnapshotReloadService struct {
	store  SnapshotStore
	engine SnapshotEngine
	config ReloadConfig
	logger zerolog.Logger
}

// NewSnapshotReloadService creates the reload service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewSnapshotReloadService(store SnapshotStore, engine SnapshotEngine, cfg ReloadConfig, logger zerolog.Logger) *SnapshotReloadService {
	if cfg.Name == "" {
		cfg.Name = storage.DefaultName
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	return &SnapshotReloadService{
		store:  store,
		engine: engine,
		config: cfg,
		logger: logger.With().Str("service", "snapshot-reload").Str("snapshot", cfg.Name).Logger(),
	}
}

// Serve implements suture.Service. Reload failures are logged and retried on
// the next tick; the engine keeps serving its current snapshot meanwhile.
func (s *SnapshotReloadService) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.config.Interval).Int("keep", s.config.Keep).Msg("snapshot reload service starting")

	if _, err := s.ReloadOnce(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("snapshot reload failed (will retry on schedule)")
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("snapshot reload service shutting down")
			return ctx.Err()

		case <-ticker.C:
			if _, err := s.ReloadOnce(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("snapshot reload failed")
			}
			if n := s.engine.CleanupCache(); n > 0 {
				s.logger.Debug().Int("removed", n).Msg("expired cache entries removed")
			}
		}
	}
}

// ReloadOnce loads the latest stored version if it is newer than the one the
// engine serves. It reports whether a snapshot was loaded.
func (s *SnapshotReloadService) ReloadOnce(ctx context.Context) (bool, error) {
	if err := s.store.Rescan(); err != nil {
		metrics.RecordSnapshotReload(ReloadError)
		return false, fmt.Errorf("rescan snapshot store: %w", err)
	}

	latest, ok := s.store.GetLatestVersion(s.config.Name)
	if !ok {
		metrics.RecordSnapshotReload(ReloadUnchanged)
		return false, nil
	}
	if current := s.engine.Snapshot(); current != nil && current.Version >= latest {
		metrics.RecordSnapshotReload(ReloadUnchanged)
		return false, nil
	}

	start := time.Now()
	snap, meta, err := s.store.LoadSnapshot(ctx, s.config.Name, latest)
	if err != nil {
		metrics.RecordSnapshotReload(ReloadError)
		return false, fmt.Errorf("load snapshot v%d: %w", latest, err)
	}
	if err := s.engine.Load(snap); err != nil {
		metrics.RecordSnapshotReload(ReloadError)
		return false, fmt.Errorf("install snapshot v%d: %w", latest, err)
	}
	metrics.RecordSnapshotReload(ReloadLoaded)

	s.logger.Info().
		Int("version", meta.Version).
		Int("items", meta.ItemCount).
		Str("checksum", meta.Checksum).
		Dur("duration", time.Since(start)).
		Msg("snapshot loaded")

	if s.config.Keep > 0 {
		removed, err := s.store.Prune(ctx, s.config.Name, s.config.Keep)
		if err != nil {
			s.logger.Warn().Err(err).Msg("snapshot prune failed")
		} else if len(removed) > 0 {
			s.logger.Info().Ints("removed", removed).Msg("old snapshots pruned")
		}
	}

	return true, nil
}

// String names the service in supervisor logs.
func (s *SnapshotReloadService) String() string {
	return "snapshot-reload"
}
