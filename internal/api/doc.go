// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

/*
Package api serves the recommendation engine over HTTP using the chi router.

# Endpoints

	GET  /api/v1/recommendations?q=&mode=&k=&min_rating=&genres=&w_title=&w_genre=&w_rating=&w_year=&w_cluster=
	GET  /api/v1/recommendations/similar/{itemID}
	GET  /api/v1/recommendations/config
	PUT  /api/v1/recommendations/config   (only with security.config_write_enabled)
	GET  /api/v1/recommendations/status
	GET  /api/v1/books/search?q=&mode=&limit=
	GET  /api/v1/books/{itemID}
	GET  /api/v1/health/live
	GET  /api/v1/health/ready
	GET  /metrics

Any w_* parameter overrides the configured default for that signal only.
Weights are normalized per request and need not sum to 1.

# Response Format

Every JSON response uses one envelope:

	{
	  "success": true,
	  "data": {...},
	  "error": {"code": "NOT_FOUND", "message": "...", "details": {...}, "request_id": "..."},
	  "meta": {"request_id": "...", "timestamp": "...", "duration_ms": 3, "count": 10}
	}

# Error Mapping

	unresolvable query                  404 NOT_FOUND
	item id outside the catalog         404 NOT_FOUND
	invalid parameters or weights       400 VALIDATION_FAILED / BAD_REQUEST
	no catalog snapshot loaded          503 SERVICE_UNAVAILABLE
	config write while disabled         403 FORBIDDEN
	rate limit exceeded                 429 TOO_MANY_REQUESTS
	anything else, including a scoring
	index error                         500 INTERNAL_ERROR (logged)

# Middleware

Request and correlation IDs, RealIP, Recoverer, access logging and CORS apply
to every route. The /api/v1 group adds httprate rate limiting and Prometheus
request metrics; health endpoints are exempt from both.

PUT /api/v1/recommendations/config changes live scoring for every client and
carries no authentication. It answers 403 unless security.config_write_enabled
is set, which should only be done behind a trusted network boundary.
*/
package api
