// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

package recommend

import (
	"testing"
)

func TestNewSimilarityMatrix(t *testing.T) {
	t.Parallel()

	m, err := NewSimilarityMatrix([][]float64{
		{1, 0.2, 0.3},
		{0.2, 1, 0.4},
		{0.3, 0.4, 1},
	})
	if err != nil {
		t.Fatalf("NewSimilarityMatrix: %v", err)
	}
	if m.Size() != 3 {
		t.Errorf("Size() = %d, want 3", m.Size())
	}
	if m.At(1, 2) != 0.4 || m.At(2, 0) != 0.3 {
		t.Errorf("At returned wrong entries: %v", m.Rows())
	}
	if row := m.Row(2); len(row) != 3 || row[1] != 0.4 {
		t.Errorf("Row(2) = %v", row)
	}

	rows := m.Rows()
	rows[0][1] = 0.9
	if m.At(0, 1) != 0.2 {
		t.Error("Rows() aliases matrix storage")
	}

	if _, err := NewSimilarityMatrix([][]float64{{1, 0}, {0}}); !IsConfiguration(err) {
		t.Errorf("ragged rows err = %v, want *ConfigurationError", err)
	}

	var nilMatrix *SimilarityMatrix
	if nilMatrix.Size() != 0 {
		t.Error("nil matrix Size() != 0")
	}
}

func TestSimilarityMatrix_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		rows    [][]float64
		wantErr bool
	}{
		{"valid", [][]float64{{1, 0.5}, {0.5, 1}}, false},
		{"float noise tolerated", [][]float64{{1, 0.5}, {0.5 + 1e-9, 1 - 1e-9}}, false},
		{"empty", [][]float64{}, false},
		{"diagonal not one", [][]float64{{0.9, 0.5}, {0.5, 1}}, true},
		{"asymmetric", [][]float64{{1, 0.5}, {0.4, 1}}, true},
		{"negative", [][]float64{{1, -0.2}, {-0.2, 1}}, true},
		{"above one", [][]float64{{1, 1.5}, {1.5, 1}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m, err := NewSimilarityMatrix(tt.rows)
			if err != nil {
				t.Fatalf("NewSimilarityMatrix: %v", err)
			}
			if err := m.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewSnapshot(t *testing.T) {
	t.Parallel()

	items := fiveBooks()
	snap, err := NewSnapshot(items, fiveBookMatrices(t), 3, "test")
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	if snap.Version != 3 || snap.Source != "test" || snap.LoadedAt.IsZero() {
		t.Errorf("snapshot = %+v", snap)
	}

	t.Run("id mismatch", func(t *testing.T) {
		t.Parallel()
		bad := fiveBooks()
		bad[2].ID = 7
		if _, err := NewSnapshot(bad, fiveBookMatrices(t), 1, "test"); !IsConfiguration(err) {
			t.Errorf("err = %v, want *ConfigurationError", err)
		}
	})

	t.Run("matrix mismatch", func(t *testing.T) {
		t.Parallel()
		m := fiveBookMatrices(t)
		m.Rating = identityMatrix(t, 3)
		if _, err := NewSnapshot(fiveBooks(), m, 1, "test"); !IsConfiguration(err) {
			t.Errorf("err = %v, want *ConfigurationError", err)
		}
	})
}

func TestItem_HasAnyGenre(t *testing.T) {
	t.Parallel()

	it := Item{Genres: []string{"Fiction", " Science "}}

	if !it.HasAnyGenre(FilterSpec{Genres: []string{"science"}}.genreSet()) {
		t.Error("expected case/space-insensitive match")
	}
	if it.HasAnyGenre(FilterSpec{Genres: []string{"poetry"}}.genreSet()) {
		t.Error("unexpected match")
	}
	if (&Item{}).HasAnyGenre(FilterSpec{Genres: []string{"poetry"}}.genreSet()) {
		t.Error("item without genres matched")
	}
}

func TestErrors_Messages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{&NotFoundError{Query: "atlas"}, `no item matches "atlas"`},
		{&ConfigurationError{Reason: "all weights are zero"}, "configuration error: all weights are zero"},
		{&IndexError{Index: 9, Size: 5}, "item index 9 out of range [0, 5)"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
