// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

// Package catalog ingests the finished output of the offline dataset pipeline:
// an item table and four dense similarity matrices.
//
// Item tables may be JSONL, Parquet or CSV. CSV is read through DuckDB's
// read_csv_auto so quoted multi-line descriptions survive. Matrices are Parquet
// files with one {index, values} row per item.
//
// Build assembles and validates a recommend.Snapshot; the storage package
// persists it.
package catalog
