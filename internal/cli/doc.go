// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

/*
Package cli implements the shelfmatch command tree.

Commands:

	import      build a snapshot from an item table and four similarity matrices
	recommend   top-K recommendations for an anchor found by --query or --id
	search      list books matching a query in one field
	snapshots   list or prune stored snapshot versions
	serve       run the HTTP API (same as cmd/server)

Every command loads configuration the same way the server does (defaults,
config.yaml, environment, then a .env file if present); --store and --name
override the snapshot directory and name.

Output:

recommend, search and snapshots list print an aligned table by default and
accept --format json or --format yaml. Scores are printed with four decimals.
When filters remove every candidate, recommend prints
"no recommendations, relax filters".
*/
package cli
