// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/tomtom215/shelfmatch/internal/recommend"
)

// MatrixRow is one row of a similarity matrix file.
type MatrixRow struct {
	Index  int64     `parquet:"index"`
	Values []float64 `parquet:"values,list"`
}

// LoadMatrix reads an n x n similarity matrix from a Parquet file of MatrixRow.
// Rows may appear in any order but each index in [0, n) must appear exactly once.
// Only the shape is checked here; Build validates the contents.
func LoadMatrix(ctx context.Context, path string, n int) (*recommend.SimilarityMatrix, error) {
	file, err := os.Open(path) //nolint:gosec // path is an operator-supplied input file
	if err != nil {
		return nil, fmt.Errorf("open matrix file: %w", err)
	}
	defer func() { _ = file.Close() }() //nolint:errcheck // read-only file

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat matrix file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}
	if pf.NumRows() != int64(n) {
		return nil, fmt.Errorf("matrix has %d rows, catalog has %d items", pf.NumRows(), n)
	}

	reader := parquet.NewGenericReader[MatrixRow](pf)
	defer func() { _ = reader.Close() }() //nolint:errcheck // read-only reader

	data := make([]float64, n*n)
	seen := make([]bool, n)
	rows := make([]MatrixRow, 64)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		count, readErr := reader.Read(rows)
		for _, row := range rows[:count] {
			if err := placeRow(data, seen, row, n); err != nil {
				return nil, err
			}
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("read matrix rows: %w", readErr)
		}
	}

	for i, ok := range seen {
		if !ok {
			return nil, fmt.Errorf("matrix row %d missing", i)
		}
	}

	return recommend.NewDenseMatrix(n, data)
}

//nolint:gocritic // hugeParam: row is consumed once
func placeRow(data []float64, seen []bool, row MatrixRow, n int) error {
	idx := int(row.Index)
	if idx < 0 || idx >= n {
		return fmt.Errorf("matrix row index %d out of range [0, %d)", row.Index, n)
	}
	if seen[idx] {
		return fmt.Errorf("matrix row %d appears twice", idx)
	}
	if len(row.Values) != n {
		return fmt.Errorf("matrix row %d has %d values, want %d", idx, len(row.Values), n)
	}
	copy(data[idx*n:(idx+1)*n], row.Values)
	seen[idx] = true
	return nil
}

// WriteMatrix writes m as a Parquet file of MatrixRow, one row per item.
func WriteMatrix(path string, m *recommend.SimilarityMatrix) error {
	rows := make([]MatrixRow, m.Size())
	for i := range rows {
		rows[i] = MatrixRow{Index: int64(i), Values: m.Row(i)}
	}
	if err := parquet.WriteFile(path, rows); err != nil {
		return fmt.Errorf("write matrix file: %w", err)
	}
	return nil
}

// WriteItems writes records as a Parquet item table.
func WriteItems(path string, records []ItemRecord) error {
	if err := parquet.WriteFile(path, records); err != nil {
		return fmt.Errorf("write item file: %w", err)
	}
	return nil
}
