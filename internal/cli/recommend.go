// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

package cli

import (
	"errors"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tomtom215/shelfmatch/internal/recommend"
)

type recommendOptions struct {
	query     string
	id        int
	mode      string
	k         int
	minRating float64
	genres    []string
	format    string
}

// weightFlags binds --w-<signal> flags; only flags the user set override the
// configured weights.
type weightFlags struct {
	title, genre, rating, year, cluster float64
}

func (w *weightFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&w.title, "w-title", 0, "Title similarity weight")
	f.Float64Var(&w.genre, "w-genre", 0, "Genre similarity weight")
	f.Float64Var(&w.rating, "w-rating", 0, "Rating similarity weight")
	f.Float64Var(&w.year, "w-year", 0, "Publication year similarity weight")
	f.Float64Var(&w.cluster, "w-cluster", 0, "Same-cluster boost weight")
}

func (w *weightFlags) apply(cmd *cobra.Command, base recommend.WeightSet) *recommend.WeightSet {
	f := cmd.Flags()
	changed := false
	for _, o := range []struct {
		flag string
		src  float64
		dst  *float64
	}{
		{"w-title", w.title, &base.Title},
		{"w-genre", w.genre, &base.Genre},
		{"w-rating", w.rating, &base.Rating},
		{"w-year", w.year, &base.Year},
		{"w-cluster", w.cluster, &base.Cluster},
	} {
		if f.Changed(o.flag) {
			*o.dst = o.src
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return &base
}

func newRecommendCmd(a *app) *cobra.Command {
	var (
		opts    recommendOptions
		weights weightFlags
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend books similar to an anchor book",
		Long: `Resolves the anchor (by --query against the chosen field, or directly by --id),
scores every other book with the weighted blend of similarity signals, applies
the filters and prints the top K.`,
		Example: `  shelfmatch recommend --query "dune"
  shelfmatch recommend --query tolkien --mode author --k 5 --min-rating 4
  shelfmatch recommend --id 42 --genres fantasy,fiction --w-title 0.2 --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(opts.format); err != nil {
				return err
			}
			idSet := cmd.Flags().Changed("id")
			if opts.query == "" && !idSet {
				return errors.New("one of --query or --id is required")
			}
			mode, err := recommend.ParseSearchMode(opts.mode)
			if err != nil {
				return err
			}

			engine, err := a.openEngine(cmd.Context())
			if err != nil {
				return err
			}

			req := recommend.Request{
				Query:     opts.query,
				Mode:      mode,
				K:         opts.k,
				Weights:   weights.apply(cmd, a.cfg.Recommend.Weights()),
				Filter:    recommend.FilterSpec{MinRating: opts.minRating, Genres: opts.genres},
				RequestID: uuid.NewString(),
			}
			if idSet {
				id := opts.id
				req.AnchorID = &id
			}

			resp, err := engine.Recommend(cmd.Context(), req)
			if err != nil {
				return err
			}
			return writeRecommendations(cmd.OutOrStdout(), opts.format, resp)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.query, "query", "q", "", "Anchor query (case-insensitive substring)")
	f.IntVar(&opts.id, "id", 0, "Anchor item id (overrides --query)")
	f.StringVar(&opts.mode, "mode", string(recommend.ModeTitle), "Field --query matches: title, author, genre or keyword")
	f.IntVar(&opts.k, "k", 0, "Number of recommendations (0 uses the configured default)")
	f.Float64Var(&opts.minRating, "min-rating", 0, "Drop books rated below this")
	f.StringSliceVar(&opts.genres, "genres", nil, "Keep only books sharing one of these genres")
	f.StringVarP(&opts.format, "format", "o", FormatTable, "Output format: table, json or yaml")
	weights.register(cmd)
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	var (
		query  string
		mode   string
		limit  int
		format string
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Find books whose title, author, genres or text contain a query",
		Example: `  shelfmatch search --query "harry potter"
  shelfmatch search --query rowling --mode author --format yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			m, err := recommend.ParseSearchMode(mode)
			if err != nil {
				return err
			}

			engine, err := a.openEngine(cmd.Context())
			if err != nil {
				return err
			}
			items, err := engine.Search(cmd.Context(), query, m, limit)
			if err != nil {
				return err
			}
			return writeBooks(cmd.OutOrStdout(), format, items)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&query, "query", "q", "", "Search text (case-insensitive substring)")
	f.StringVar(&mode, "mode", string(recommend.ModeTitle), "Field to match: title, author, genre or keyword")
	f.IntVar(&limit, "limit", 0, "Maximum results (0 uses the configured maximum)")
	f.StringVarP(&format, "format", "o", FormatTable, "Output format: table, json or yaml")
	_ = cmd.MarkFlagRequired("query")
	return cmd
}
