// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

// Package metrics defines the Prometheus collectors exported on /metrics.
//
// Collectors register with the default registry through promauto, so importing
// the package is enough to expose them. Use the Record helpers rather than the
// collectors directly so label values stay consistent.
//
// # API
//
//	api_requests_total{method, endpoint, status_code}
//	api_request_duration_seconds{method, endpoint}
//	api_active_requests
//	api_rate_limit_hits_total{endpoint}
//
// endpoint is the chi route pattern, never the raw path, to bound cardinality.
//
// # Recommendation Engine
//
//	recommend_requests_total{outcome}
//	recommend_duration_seconds
//	recommend_result_size
//	recommend_cache_hits_total, recommend_cache_misses_total
//
// # Catalog Snapshots
//
//	catalog_snapshot_version
//	catalog_snapshot_items
//	catalog_snapshot_reloads_total{result}
package metrics
