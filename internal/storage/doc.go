// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

// Package storage provides versioned persistence for catalog snapshots.
//
// A snapshot bundles the item table with its four similarity matrices so the
// item ids and matrix rows can never drift apart. Snapshots persist across
// restarts, and older versions stay available for rollback until pruned.
//
// # Overview
//
// The storage system provides:
//   - Gob serialization for efficient Go type encoding
//   - Gzip compression to reduce storage footprint
//   - SHA-256 checksums for data integrity verification
//   - Version tracking per snapshot name
//   - Cleanup of old versions via Prune
//
// # Storage Format
//
//	filename: {name}_v{version}.gob.gz
//
//	structure:
//	  - Metadata (SnapshotMetadata)
//	  - CompressedData (gzip-compressed gob-encoded CatalogState)
//
// Files are written under a temporary name and renamed into place.
//
// # Usage
//
//	store, err := storage.NewStore("/var/lib/shelfmatch/snapshots")
//	meta, err := store.Save(ctx, storage.DefaultName, 0, storage.StateFromSnapshot(snap), storage.SnapshotMetadata{Source: "import"})
//	snap, meta, err := store.LoadSnapshot(ctx, storage.DefaultName, 0) // 0 = latest
//
// # Thread Safety
//
// All Store methods are safe for concurrent use within a process. Rescan picks
// up versions written by other processes, such as the CLI import command.
package storage
