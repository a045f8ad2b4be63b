// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/shelfmatch/internal/recommend"
)

// Sources names the collaborator output files that make up one catalog.
type Sources struct {
	Items  string `json:"items" yaml:"items"`
	Title  string `json:"title" yaml:"title"`
	Genre  string `json:"genre" yaml:"genre"`
	Rating string `json:"rating" yaml:"rating"`
	Year   string `json:"year" yaml:"year"`
}

// Validate reports the first missing path.
func (s Sources) Validate() error {
	for _, p := range []struct{ name, path string }{
		{"items", s.Items},
		{recommend.SignalTitle, s.Title},
		{recommend.SignalGenre, s.Genre},
		{recommend.SignalRating, s.Rating},
		{recommend.SignalYear, s.Year},
	} {
		if p.path == "" {
			return fmt.Errorf("%s path is required", p.name)
		}
	}
	return nil
}

// Build loads the item table and the four matrices, validates every matrix
// and assembles an unversioned snapshot.
func Build(ctx context.Context, src Sources) (*recommend.Snapshot, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}

	items, err := LoadItems(ctx, src.Items)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	if len(items) == 0 {
		return nil, errors.New("item table is empty")
	}

	var m recommend.Matrices
	for _, sig := range []struct {
		name string
		path string
		into **recommend.SimilarityMatrix
	}{
		{recommend.SignalTitle, src.Title, &m.Title},
		{recommend.SignalGenre, src.Genre, &m.Genre},
		{recommend.SignalRating, src.Rating, &m.Rating},
		{recommend.SignalYear, src.Year, &m.Year},
	} {
		matrix, err := LoadMatrix(ctx, sig.path, len(items))
		if err != nil {
			return nil, fmt.Errorf("load %s matrix: %w", sig.name, err)
		}
		if err := matrix.Validate(); err != nil {
			return nil, fmt.Errorf("%s matrix: %w", sig.name, err)
		}
		*sig.into = matrix
	}

	snap, err := recommend.NewSnapshot(items, m, 0, src.Items)
	if err != nil {
		return nil, fmt.Errorf("assemble snapshot: %w", err)
	}
	return snap, nil
}
