// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tomtom215/shelfmatch/internal/config"
	"github.com/tomtom215/shelfmatch/internal/logging"
	"github.com/tomtom215/shelfmatch/internal/recommend"
	"github.com/tomtom215/shelfmatch/internal/storage"
)

// app carries the loaded configuration and the persistent flag values that
// override it.
type app struct {
	cfg      *config.Config
	storeDir string
	name     string
}

// NewRootCmd returns the shelfmatch command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "shelfmatch",
		Short: "Hybrid book recommendations from precomputed similarity matrices",
		Long: `Shelfmatch blends title, genre, rating and publication-year similarity
with a cluster boost to recommend books similar to an anchor book.

Catalogs are imported once into a versioned snapshot directory and then
queried from the command line or served over HTTP.`,
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.setup()
		},
	}

	cmd.PersistentFlags().StringVar(&a.storeDir, "store", "", "Snapshot directory (default SHELFMATCH_STORE_DIR or /data/snapshots)")
	cmd.PersistentFlags().StringVar(&a.name, "name", "", "Snapshot name (default SHELFMATCH_SNAPSHOT_NAME or catalog)")

	cmd.AddCommand(
		newImportCmd(a),
		newRecommendCmd(a),
		newSearchCmd(a),
		newSnapshotsCmd(a),
		newServeCmd(a),
	)
	return cmd
}

func (a *app) setup() error {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	cfg, err := config.LoadWithKoanf()
	if err != nil {
		return err
	}
	if a.storeDir != "" {
		cfg.Store.Dir = a.storeDir
	}
	if a.name != "" {
		cfg.Store.Name = a.name
	}
	a.cfg = cfg

	logging.Init(cfg.Logging.ToLogging())
	return nil
}

func (a *app) openStore() (*storage.Store, error) {
	store, err := storage.NewStore(a.cfg.Store.Dir)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}
	return store, nil
}

// openEngine loads the latest snapshot of the configured name into a fresh
// engine.
func (a *app) openEngine(ctx context.Context) (*recommend.Engine, error) {
	store, err := a.openStore()
	if err != nil {
		return nil, err
	}

	snap, meta, err := store.LoadSnapshot(ctx, a.cfg.Store.Name, 0)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("no snapshot %q in %s, run 'shelfmatch import' first", a.cfg.Store.Name, store.Dir())
	}
	if err != nil {
		return nil, err
	}

	engineCfg := a.cfg.Recommend.ToEngineConfig()
	engineCfg.Cache.Enabled = false
	engine, err := recommend.NewEngine(engineCfg, logging.Logger())
	if err != nil {
		return nil, err
	}
	if err := engine.Load(snap); err != nil {
		return nil, err
	}

	logging.Debug().
		Str("name", meta.Name).
		Int("version", meta.Version).
		Int("items", len(snap.Items)).
		Msg("snapshot loaded")
	return engine, nil
}
