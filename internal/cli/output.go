// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

package cli

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/tomtom215/shelfmatch/internal/recommend"
)

// Output formats accepted by --format.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// EmptyResultMessage is printed when filters leave nothing to recommend.
const EmptyResultMessage = "no recommendations, relax filters"

func checkFormat(format string) error {
	switch format {
	case FormatTable, FormatJSON, FormatYAML:
		return nil
	}
	return fmt.Errorf("unknown format %q (want table, json or yaml)", format)
}

// bookView is the printable form of an item.
type bookView struct {
	ID     int      `json:"id" yaml:"id"`
	Title  string   `json:"title" yaml:"title"`
	Author string   `json:"author" yaml:"author"`
	Rating float64  `json:"avg_rating" yaml:"avg_rating"`
	Year   int      `json:"year_published" yaml:"year_published"`
	Genres []string `json:"genres" yaml:"genres"`
}

type recommendationView struct {
	bookView `yaml:",inline"`
	Score    float64            `json:"score" yaml:"score"`
	Scores   map[string]float64 `json:"scores,omitempty" yaml:"scores,omitempty"`
}

type recommendView struct {
	Anchor          bookView             `json:"anchor" yaml:"anchor"`
	Weights         recommend.WeightSet  `json:"weights" yaml:"weights"`
	SnapshotVersion int                  `json:"snapshot_version" yaml:"snapshot_version"`
	Items           []recommendationView `json:"items" yaml:"items"`
	Message         string               `json:"message,omitempty" yaml:"message,omitempty"`
}

func newBookView(it *recommend.Item) bookView {
	genres := it.Genres
	if genres == nil {
		genres = []string{}
	}
	return bookView{
		ID:     it.ID,
		Title:  it.Title,
		Author: it.Author,
		Rating: it.AvgRating,
		Year:   it.YearPublished,
		Genres: genres,
	}
}

// round4 matches the four decimals the table prints.
func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

func newRecommendView(resp *recommend.Response) recommendView {
	v := recommendView{
		Anchor:          newBookView(&resp.Anchor),
		Weights:         resp.Metadata.Weights,
		SnapshotVersion: resp.Metadata.SnapshotVersion,
		Items:           make([]recommendationView, 0, len(resp.Items)),
	}
	for i := range resp.Items {
		si := &resp.Items[i]
		scores := make(map[string]float64, len(si.Scores))
		for k, s := range si.Scores {
			scores[k] = round4(s)
		}
		v.Items = append(v.Items, recommendationView{
			bookView: newBookView(&si.Item),
			Score:    round4(si.Score),
			Scores:   scores,
		})
	}
	if len(v.Items) == 0 {
		v.Message = EmptyResultMessage
	}
	return v
}

func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return checkFormat(format)
}

func writeRecommendations(w io.Writer, format string, resp *recommend.Response) error {
	view := newRecommendView(resp)
	if format != FormatTable {
		return writeStructured(w, format, view)
	}

	fmt.Fprintf(w, "Anchor: [%d] %s by %s\n", view.Anchor.ID, view.Anchor.Title, view.Anchor.Author)
	if len(view.Items) == 0 {
		fmt.Fprintln(w, EmptyResultMessage)
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tID\tSCORE\tTITLE\tAUTHOR\tRATING\tYEAR")
	for i := range view.Items {
		it := &view.Items[i]
		fmt.Fprintf(tw, "%d\t%d\t%.4f\t%s\t%s\t%.2f\t%d\n",
			i+1, it.ID, it.Score, it.Title, it.Author, it.Rating, it.Year)
	}
	return tw.Flush()
}

func writeBooks(w io.Writer, format string, items []recommend.Item) error {
	views := make([]bookView, 0, len(items))
	for i := range items {
		views = append(views, newBookView(&items[i]))
	}
	if format != FormatTable {
		return writeStructured(w, format, views)
	}

	if len(views) == 0 {
		fmt.Fprintln(w, "no matching books")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tRATING\tYEAR\tGENRES")
	for i := range views {
		b := &views[i]
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\t%d\t%s\n",
			b.ID, b.Title, b.Author, b.Rating, b.Year, strings.Join(b.Genres, ", "))
	}
	return tw.Flush()
}
