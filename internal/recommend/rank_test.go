// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

package recommend

import (
	"fmt"
	"testing"
)

func TestRank_FiveBookScenario(t *testing.T) {
	t.Parallel()

	items := fiveBooks()
	scores, err := Score(0, items, fiveBookMatrices(t), titleGenreWeights())
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	ranked, err := Rank(scores, items, FilterSpec{}, 0, 10)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}

	wantIDs := []int{2, 1, 3, 4}
	wantScores := []float64{0.6, 0.5, 0.2, 0.1}
	if !equalInts(ids(ranked), wantIDs) {
		t.Fatalf("ranked ids = %v, want %v", ids(ranked), wantIDs)
	}
	for i := range ranked {
		if !approxEqual(ranked[i].Score, wantScores[i]) {
			t.Errorf("ranked[%d].Score = %f, want %f", i, ranked[i].Score, wantScores[i])
		}
	}
}

func TestRank_ResultDoesNotAliasItems(t *testing.T) {
	t.Parallel()

	items := fiveBooks()
	scores, err := Score(0, items, fiveBookMatrices(t), titleGenreWeights())
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	ranked, err := Rank(scores, items, FilterSpec{}, 0, 1)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}

	ranked[0].Item.Genres[0] = "poetry"
	if items[2].Genres[0] != "fiction" {
		t.Errorf("items[2].Genres = %v, edit leaked into the catalog", items[2].Genres)
	}
}

func TestRank_EmptyResultIsNotError(t *testing.T) {
	t.Parallel()

	items := fiveBooks()
	scores, err := Score(0, items, fiveBookMatrices(t), DefaultWeights())
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	ranked, err := Rank(scores, items, FilterSpec{MinRating: 4.9}, 0, 10)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if ranked == nil || len(ranked) != 0 {
		t.Errorf("ranked = %v, want empty non-nil slice", ranked)
	}
}

func TestRank_Filters(t *testing.T) {
	t.Parallel()

	items := fiveBooks()
	scores, err := Score(0, items, fiveBookMatrices(t), titleGenreWeights())
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	tests := []struct {
		name    string
		filter  FilterSpec
		n       int
		wantIDs []int
	}{
		{
			name:    "min rating drops lower rated",
			filter:  FilterSpec{MinRating: 4.05},
			n:       10,
			wantIDs: []int{2, 3},
		},
		{
			name:    "min rating is inclusive",
			filter:  FilterSpec{MinRating: 4.1},
			n:       10,
			wantIDs: []int{2, 3},
		},
		{
			name:    "genre intersection",
			filter:  FilterSpec{Genres: []string{"poetry", "non-fiction"}},
			n:       10,
			wantIDs: []int{3, 4},
		},
		{
			name:    "genre match ignores case and spaces",
			filter:  FilterSpec{Genres: []string{"  Poetry "}},
			n:       10,
			wantIDs: []int{4},
		},
		{
			name:    "blank genre tags mean no restriction",
			filter:  FilterSpec{Genres: []string{" ", ""}},
			n:       10,
			wantIDs: []int{2, 1, 3, 4},
		},
		{
			name:    "truncate to n",
			filter:  FilterSpec{},
			n:       2,
			wantIDs: []int{2, 1},
		},
		{
			name:    "filters combine",
			filter:  FilterSpec{MinRating: 4.0, Genres: []string{"science"}},
			n:       10,
			wantIDs: []int{2, 3},
		},
		{
			name:    "n of zero returns nothing",
			filter:  FilterSpec{},
			n:       0,
			wantIDs: []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ranked, err := Rank(scores, items, tt.filter, 0, tt.n)
			if err != nil {
				t.Fatalf("Rank: %v", err)
			}
			if !equalInts(ids(ranked), tt.wantIDs) {
				t.Errorf("ids = %v, want %v", ids(ranked), tt.wantIDs)
			}
			for _, r := range ranked {
				if r.Item.AvgRating < tt.filter.MinRating {
					t.Errorf("item %d rating %.2f below %.2f", r.Item.ID, r.Item.AvgRating, tt.filter.MinRating)
				}
				if r.Item.ID == 0 {
					t.Error("anchor returned")
				}
			}
		})
	}
}

func TestRank_StableTieBreak(t *testing.T) {
	t.Parallel()

	items := make([]Item, 8)
	for i := range items {
		items[i] = Item{ID: i, Title: fmt.Sprintf("book %d", i), AvgRating: 3}
	}
	scores := []float64{1, 0.4, 0.7, 0.4, 0.7, 0.4, 0.1, 0.7}

	ranked, err := Rank(scores, items, FilterSpec{}, 0, 10)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}

	want := []int{2, 4, 7, 1, 3, 5, 6}
	if !equalInts(ids(ranked), want) {
		t.Errorf("ids = %v, want %v", ids(ranked), want)
	}
}

// Filtering must run after ranking: a naive top-N-then-filter would return
// fewer than N here because the best scores belong to filtered items.
func TestRank_FillsNUnderFilters(t *testing.T) {
	t.Parallel()

	const total = 40
	items := make([]Item, total)
	scores := make([]float64, total)
	for i := range items {
		items[i] = Item{ID: i, AvgRating: 2.0, Genres: []string{"romance"}}
		scores[i] = 1 - float64(i)/total
		if i >= 25 {
			items[i].AvgRating = 4.5
			items[i].Genres = []string{"history"}
		}
	}

	ranked, scanned, err := rankWithScan(scores, items, FilterSpec{MinRating: 4, Genres: []string{"history"}}, 0, 10)
	if err != nil {
		t.Fatalf("rankWithScan: %v", err)
	}
	if len(ranked) != 10 {
		t.Fatalf("len(ranked) = %d, want 10", len(ranked))
	}
	if ranked[0].Item.ID != 25 || ranked[9].Item.ID != 34 {
		t.Errorf("ranked ids = %v", ids(ranked))
	}
	if scanned != 35 {
		t.Errorf("scanned = %d, want 35", scanned)
	}
}

func TestRank_NeverReturnsAnchor(t *testing.T) {
	t.Parallel()

	items := fiveBooks()
	m := fiveBookMatrices(t)
	for anchor := range items {
		scores, err := Score(anchor, items, m, DefaultWeights())
		if err != nil {
			t.Fatalf("Score: %v", err)
		}
		ranked, err := Rank(scores, items, FilterSpec{}, anchor, len(items))
		if err != nil {
			t.Fatalf("Rank: %v", err)
		}
		if len(ranked) != len(items)-1 {
			t.Errorf("anchor %d: %d results, want %d", anchor, len(ranked), len(items)-1)
		}
		for _, r := range ranked {
			if r.Item.ID == anchor {
				t.Errorf("anchor %d present in results", anchor)
			}
		}
		for i := 1; i < len(ranked); i++ {
			if ranked[i].Score > ranked[i-1].Score {
				t.Errorf("anchor %d: results not descending at %d", anchor, i)
			}
		}
	}
}

func TestRank_LengthMismatch(t *testing.T) {
	t.Parallel()

	_, err := Rank([]float64{1, 0.5}, fiveBooks(), FilterSpec{}, 0, 3)
	if !IsConfiguration(err) {
		t.Errorf("err = %v, want *ConfigurationError", err)
	}
}

func TestRank_Deterministic(t *testing.T) {
	t.Parallel()

	items := fiveBooks()
	scores, err := Score(1, items, fiveBookMatrices(t), DefaultWeights())
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	filter := FilterSpec{MinRating: 3.5, Genres: []string{"fiction", "science"}}

	first, err := Rank(scores, items, filter, 1, 3)
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	for run := 0; run < 20; run++ {
		again, err := Rank(scores, items, filter, 1, 3)
		if err != nil {
			t.Fatalf("Rank: %v", err)
		}
		if !equalInts(ids(first), ids(again)) {
			t.Fatalf("run %d: %v != %v", run, ids(again), ids(first))
		}
	}
}
