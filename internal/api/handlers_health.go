// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

package api

import (
	"net/http"
	"time"
)

// HealthLive handles GET /api/v1/health/live.
// It only reports that the process is serving requests.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"status":         "alive",
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
	})
}

// HealthReady handles GET /api/v1/health/ready.
// The service is ready once a catalog snapshot is loaded.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	snap := h.engine.Snapshot()
	if snap == nil {
		rw.ServiceUnavailable("catalog not loaded")
		return
	}

	rw.Success(map[string]interface{}{
		"status":           "ready",
		"snapshot_version": snap.Version,
		"items":            len(snap.Items),
	})
}
