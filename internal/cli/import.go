// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/shelfmatch/internal/catalog"
	"github.com/tomtom215/shelfmatch/internal/logging"
	"github.com/tomtom215/shelfmatch/internal/storage"
)

func newImportCmd(a *app) *cobra.Command {
	var (
		src     catalog.Sources
		version int
		keep    int
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Build a catalog snapshot from an item table and four similarity matrices",
		Long: `Reads the item table (.jsonl, .json, .csv or .parquet) and the title, genre,
rating and year similarity matrices (Parquet, one row per item),
validates that they line up, and saves them as the next snapshot version.

A running server picks the new version up on its next reload tick.`,
		Example: `  shelfmatch import --items books.jsonl \
    --title title_sim.parquet --genre genre_sim.parquet \
    --rating rating_sim.parquet --year year_sim.parquet`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			snap, err := catalog.Build(ctx, src)
			if err != nil {
				return err
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			meta, err := store.Save(ctx, a.cfg.Store.Name, version, storage.StateFromSnapshot(snap), storage.SnapshotMetadata{
				Source: src.Items,
			})
			if err != nil {
				return fmt.Errorf("save snapshot: %w", err)
			}

			logging.Info().
				Str("name", meta.Name).
				Int("version", meta.Version).
				Int("items", meta.ItemCount).
				Msg("snapshot imported")

			if keep > 0 {
				removed, err := store.Prune(ctx, meta.Name, keep)
				if err != nil {
					return fmt.Errorf("prune: %w", err)
				}
				if len(removed) > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "pruned versions %v\n", removed)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "saved %s v%d (%d items) to %s\n",
				meta.Name, meta.Version, meta.ItemCount, store.Dir())
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&src.Items, "items", "", "Item table path")
	f.StringVar(&src.Title, "title", "", "Title similarity matrix path")
	f.StringVar(&src.Genre, "genre", "", "Genre similarity matrix path")
	f.StringVar(&src.Rating, "rating", "", "Rating similarity matrix path")
	f.StringVar(&src.Year, "year", "", "Publication year similarity matrix path")
	f.IntVar(&version, "version", 0, "Explicit version number (0 saves the next version)")
	f.IntVar(&keep, "keep", 0, "Prune to the newest N versions after saving (0 keeps all)")
	for _, name := range []string{"items", "title", "genre", "rating", "year"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
