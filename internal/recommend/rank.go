// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

package recommend

import (
	"fmt"
	"sort"
)

// Rank orders items by score, highest first, with ties broken by ascending
// index, then walks that order accepting items until n are collected.
// An item is skipped when it is the excluded anchor, when its average rating is
// below f.MinRating, or when f.Genres is non-empty and shares no tag with it.
//
// Filtering happens after sorting, so a restrictive filter still yields up to
// n results if enough items qualify. Zero survivors is an empty slice, not an error.
//
//nolint:gocritic // hugeParam: filter passed by value for immutability
func Rank(scores []float64, items []Item, f FilterSpec, exclude, n int) ([]ScoredItem, error) {
	ranked, _, err := rankWithScan(scores, items, f, exclude, n)
	return ranked, err
}

// rankWithScan is Rank that also reports how many ranked positions were inspected.
//
//nolint:gocritic // hugeParam: filter passed by value for immutability
func rankWithScan(scores []float64, items []Item, f FilterSpec, exclude, n int) ([]ScoredItem, int, error) {
	if len(scores) != len(items) {
		return nil, 0, &ConfigurationError{
			Reason: fmt.Sprintf("score vector has %d entries but catalog has %d items", len(scores), len(items)),
		}
	}
	if n <= 0 {
		return []ScoredItem{}, 0, nil
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	// Ascending index order going in plus a stable sort gives the index tie-break.
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	genres := f.genreSet()
	result := make([]ScoredItem, 0, min(n, len(order)))
	scanned := 0
	for _, idx := range order {
		if len(result) >= n {
			break
		}
		scanned++
		if !accept(&items[idx], idx, f.MinRating, genres, exclude) {
			continue
		}
		result = append(result, ScoredItem{Item: items[idx].Clone(), Score: scores[idx]})
	}
	return result, scanned, nil
}

func accept(it *Item, idx int, minRating float64, genres map[string]struct{}, exclude int) bool {
	if idx == exclude {
		return false
	}
	if it.AvgRating < minRating {
		return false
	}
	if genres != nil && !it.HasAnyGenre(genres) {
		return false
	}
	return true
}
