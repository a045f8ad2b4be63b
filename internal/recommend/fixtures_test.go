// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

package recommend

import (
	"math"
	"testing"
)

const floatTolerance = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= floatTolerance
}

// matrixFromAnchorRow builds a symmetric matrix with unit diagonal whose row 0
// is row and whose remaining off-diagonal entries are fill.
func matrixFromAnchorRow(t *testing.T, row []float64, fill float64) *SimilarityMatrix {
	t.Helper()

	n := len(row)
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
		for j := range rows[i] {
			switch {
			case i == j:
				rows[i][j] = 1
			case i == 0:
				rows[i][j] = row[j]
			case j == 0:
				rows[i][j] = row[i]
			default:
				rows[i][j] = fill
			}
		}
	}
	m, err := NewSimilarityMatrix(rows)
	if err != nil {
		t.Fatalf("NewSimilarityMatrix: %v", err)
	}
	return m
}

// identityMatrix returns an n x n matrix with ones on the diagonal and zeros elsewhere.
func identityMatrix(t *testing.T, n int) *SimilarityMatrix {
	t.Helper()
	return matrixFromAnchorRow(t, append([]float64{1}, make([]float64, n-1)...), 0)
}

// fiveBooks is a small catalog used across tests.
func fiveBooks() []Item {
	return []Item{
		{ID: 0, Title: "Dune", Author: "Frank Herbert", AvgRating: 4.3, YearPublished: 1965, Cluster: 1, Genres: []string{"fiction", "science"}, SearchableText: "desert planet spice"},
		{ID: 1, Title: "Dune Messiah", Author: "Frank Herbert", AvgRating: 3.9, YearPublished: 1969, Cluster: 1, Genres: []string{"fiction"}, SearchableText: "emperor prophecy"},
		{ID: 2, Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin", AvgRating: 4.1, YearPublished: 1969, Cluster: 2, Genres: []string{"fiction", "science"}, SearchableText: "winter planet envoy"},
		{ID: 3, Title: "A Brief History of Time", Author: "Stephen Hawking", AvgRating: 4.2, YearPublished: 1988, Cluster: 3, Genres: []string{"non-fiction", "science"}, SearchableText: "cosmology black holes"},
		{ID: 4, Title: "Leaves of Grass", Author: "Walt Whitman", AvgRating: 4.0, YearPublished: 1855, Cluster: 4, Genres: []string{"poetry"}, SearchableText: "poems america"},
	}
}

// fiveBookMatrices produces the composite [1.0, 0.5, 0.6, 0.2, 0.1] for anchor 0
// under weights {title: 0.5, genre: 0.5}.
func fiveBookMatrices(t *testing.T) Matrices {
	t.Helper()
	return Matrices{
		Title:  matrixFromAnchorRow(t, []float64{1.0, 0.8, 0.3, 0.3, 0.1}, 0.2),
		Genre:  matrixFromAnchorRow(t, []float64{1.0, 0.2, 0.9, 0.1, 0.1}, 0.4),
		Rating: matrixFromAnchorRow(t, []float64{1.0, 0.7, 0.9, 0.95, 0.8}, 0.5),
		Year:   matrixFromAnchorRow(t, []float64{1.0, 0.9, 0.9, 0.6, 0.1}, 0.3),
	}
}

func titleGenreWeights() WeightSet {
	return WeightSet{Title: 0.5, Genre: 0.5}
}

func ids(items []ScoredItem) []int {
	out := make([]int, len(items))
	for i := range items {
		out[i] = items[i].Item.ID
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
