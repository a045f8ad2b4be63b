// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

// Package recommend implements the hybrid book similarity engine.
//
// # Architecture
//
// Recommendations are computed from an immutable catalog Snapshot: the item
// table plus four precomputed N x N similarity matrices (title text, genre,
// rating and publication year). A request flows through three pure steps:
//
//   - Resolve: map a free-text query to an anchor item (first case-insensitive
//     substring match on the title, or NotFoundError)
//   - Score: blend the anchor's four matrix rows and a binary cluster boost
//     under normalized weights into one score per item
//   - Rank: stable sort by score (ties by index), then lazily filter out the
//     anchor, low-rated items and genre mismatches until K items are accepted
//
// The Engine wraps these steps with request defaults, a result cache keyed by
// snapshot version, counters and structured logging.
//
// # Determinism
//
// Same snapshot, anchor, weights and filter always produce the same ranking.
// Nothing is randomized and ties are broken by item index.
//
// # Errors
//
//   - NotFoundError: the query matched no item
//   - ConfigurationError: all weights zero, a negative weight, or a matrix whose
//     size disagrees with the item count
//   - IndexError: an item id outside the catalog
//   - ErrNoSnapshot: the engine has no catalog loaded yet
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), logger)
//	if err != nil {
//	    return err
//	}
//	if err := engine.Load(snapshot); err != nil {
//	    return err
//	}
//
//	resp, err := engine.Recommend(ctx, recommend.Request{
//	    Query:  "dune",
//	    K:      10,
//	    Filter: recommend.FilterSpec{MinRating: 3.5},
//	})
//
// # Thread Safety
//
// The engine is safe for concurrent use. Snapshots are swapped atomically, and
// each request scores against the snapshot it started with. Scoring itself
// takes no locks.
package recommend
