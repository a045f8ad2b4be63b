// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

// Package services provides suture.Service implementations for the server.
//
// Each service blocks in Serve until its context is canceled, returns
// ctx.Err() on a clean stop, and implements fmt.Stringer so supervisor logs
// name it.
//
//   - HTTPServerService: net/http server with graceful shutdown
//   - SnapshotReloadService: follows the snapshot store and hot-swaps the
//     engine's catalog, pruning old versions and expiring cached results
package services
