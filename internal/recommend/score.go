// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

package recommend

// Score computes the hybrid score of every item relative to anchor:
//
//	score[i] = w.Title*title[a][i] + w.Genre*genre[a][i] + w.Rating*rating[a][i]
//	         + w.Year*year[a][i] + w.Cluster*[cluster(i) == cluster(a)]
//
// Weights are normalized on every call. The cluster term is a binary boost.
// The returned vector has one entry per item, the anchor included.
//
//nolint:gocritic // hugeParam: weights passed by value for immutability
func Score(anchor int, items []Item, m Matrices, w WeightSet) ([]float64, error) {
	nw, err := w.Normalize()
	if err != nil {
		return nil, err
	}
	if err := m.checkAligned(len(items)); err != nil {
		return nil, err
	}
	if err := checkIndex(anchor, len(items)); err != nil {
		return nil, err
	}

	title := m.Title.Row(anchor)
	genre := m.Genre.Row(anchor)
	rating := m.Rating.Row(anchor)
	year := m.Year.Row(anchor)
	anchorCluster := items[anchor].Cluster

	scores := make([]float64, len(items))
	for i := range items {
		s := nw.Title*title[i] + nw.Genre*genre[i] + nw.Rating*rating[i] + nw.Year*year[i]
		if items[i].Cluster == anchorCluster {
			s += nw.Cluster
		}
		scores[i] = s
	}
	return scores, nil
}

// Contributions returns the per-signal terms that make up score[i] for the
// given anchor. nw must already be normalized; the values sum to the composite score.
//
//nolint:gocritic // hugeParam: weights passed by value for immutability
func Contributions(anchor, i int, items []Item, m Matrices, nw WeightSet) (map[string]float64, error) {
	if err := checkIndex(anchor, len(items)); err != nil {
		return nil, err
	}
	if err := checkIndex(i, len(items)); err != nil {
		return nil, err
	}

	cluster := 0.0
	if items[i].Cluster == items[anchor].Cluster {
		cluster = nw.Cluster
	}
	return map[string]float64{
		SignalTitle:   nw.Title * m.Title.At(anchor, i),
		SignalGenre:   nw.Genre * m.Genre.At(anchor, i),
		SignalRating:  nw.Rating * m.Rating.At(anchor, i),
		SignalYear:    nw.Year * m.Year.At(anchor, i),
		SignalCluster: cluster,
	}, nil
}
