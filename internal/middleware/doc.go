// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

// Package middleware provides chi-compatible HTTP middleware:
//
//   - RequestID: request and correlation ids in the response and logging context
//   - PrometheusMetrics: api_requests_total, api_request_duration_seconds, api_active_requests
//   - AccessLog: one debug log line per request
//
// Order matters. RequestID must run first so later middleware and handlers
// can log with the id:
//
//	r.Use(middleware.RequestID)
//	r.Use(chimiddleware.RealIP)
//	r.Use(chimiddleware.Recoverer)
//	r.Use(middleware.AccessLog)
//	r.Use(middleware.PrometheusMetrics)
package middleware
