// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/shelfmatch/internal/cache"
	"github.com/tomtom215/shelfmatch/internal/logging"
	"github.com/tomtom215/shelfmatch/internal/recommend"
	"github.com/tomtom215/shelfmatch/internal/storage"
	"github.com/tomtom215/shelfmatch/internal/validation"
)

// EmptyResultMessage accompanies a recommendation response with no items.
const EmptyResultMessage = "no recommendations, relax filters"

// RecommendationPayload is the data of a recommendation response.
type RecommendationPayload struct {
	Anchor   recommend.Item             `json:"anchor"`
	Items    []recommend.ScoredItem     `json:"items"`
	Metadata recommend.ResponseMetadata `json:"metadata"`
	Message  string                     `json:"message,omitempty"`
}

// Recommendations handles GET /api/v1/recommendations.
// The anchor is resolved from q using mode.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	q := r.URL.Query()

	rank, err := parseRankParams(q)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	params := RecommendParams{Query: strings.TrimSpace(q.Get("q")), RankParams: rank}
	if verr := validation.ValidateStruct(&params); verr != nil {
		writeEngineError(rw, verr)
		return
	}

	req := params.toRequest(h.engine.GetConfig().Weights)
	req.Query = params.Query
	h.recommend(rw, r, req)
}

// SimilarItems handles GET /api/v1/recommendations/similar/{itemID}.
func (h *Handler) SimilarItems(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, err := parseItemID(chi.URLParam(r, "itemID"))
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	// A bad client id is a 404 here; the same error from scoring is a 500.
	if _, err := h.engine.Item(id); err != nil {
		writeLookupError(rw, err)
		return
	}

	rank, err := parseRankParams(r.URL.Query())
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if verr := validation.ValidateStruct(&rank); verr != nil {
		writeEngineError(rw, verr)
		return
	}

	req := rank.toRequest(h.engine.GetConfig().Weights)
	req.AnchorID = &id
	h.recommend(rw, r, req)
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (h *Handler) recommend(rw *ResponseWriter, r *http.Request, req recommend.Request) {
	req.RequestID = logging.RequestIDFromContext(r.Context())

	resp, err := h.engine.Recommend(r.Context(), req)
	if errors.Is(err, recommend.ErrUnknownAnchor) {
		// The catalog may have shrunk since the id was checked.
		writeLookupError(rw, err)
		return
	}
	if err != nil {
		writeEngineError(rw, err)
		return
	}

	payload := RecommendationPayload{
		Anchor:   resp.Anchor,
		Items:    resp.Items,
		Metadata: resp.Metadata,
	}
	if len(payload.Items) == 0 {
		payload.Items = []recommend.ScoredItem{}
		payload.Message = EmptyResultMessage
	}
	rw.SuccessList(payload, len(payload.Items))
}

// GetConfig handles GET /api/v1/recommendations/config.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.engine.GetConfig())
}

// UpdateConfig handles PUT /api/v1/recommendations/config.
func (h *Handler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	update, err := decodeConfigUpdate(w, r)
	if err != nil {
		var verr *validation.RequestValidationError
		if errors.As(err, &verr) {
			writeEngineError(rw, verr)
			return
		}
		rw.BadRequest(err.Error())
		return
	}

	cfg := h.engine.GetConfig()
	if err := update.apply(cfg); err != nil {
		rw.Error(http.StatusBadRequest, ErrCodeValidationFailed, err.Error())
		return
	}
	if err := h.engine.UpdateConfig(cfg); err != nil {
		rw.Error(http.StatusBadRequest, ErrCodeValidationFailed, err.Error())
		return
	}

	logging.Ctx(r.Context()).Info().
		Interface("weights", cfg.Weights).
		Int("default_k", cfg.Limits.DefaultK).
		Bool("cache_enabled", cfg.Cache.Enabled).
		Msg("recommendation config updated via API")

	rw.Success(h.engine.GetConfig())
}

// SnapshotStatus describes the snapshot currently served.
type SnapshotStatus struct {
	Version  int       `json:"version"`
	Source   string    `json:"source"`
	Items    int       `json:"items"`
	LoadedAt time.Time `json:"loaded_at"`
}

// StatusPayload is the data of GET /api/v1/recommendations/status.
type StatusPayload struct {
	Snapshot        *SnapshotStatus            `json:"snapshot"`
	Engine          recommend.Metrics          `json:"engine"`
	Cache           *cache.Stats               `json:"cache,omitempty"`
	StoredSnapshots []storage.SnapshotMetadata `json:"stored_snapshots,omitempty"`
	UptimeSeconds   int64                      `json:"uptime_seconds"`
}

// Status handles GET /api/v1/recommendations/status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	payload := StatusPayload{
		Engine:        h.engine.GetMetrics(),
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
	}

	if snap := h.engine.Snapshot(); snap != nil {
		payload.Snapshot = &SnapshotStatus{
			Version:  snap.Version,
			Source:   snap.Source,
			Items:    len(snap.Items),
			LoadedAt: snap.LoadedAt,
		}
	}
	if stats, ok := h.engine.CacheStats(); ok {
		payload.Cache = &stats
	}
	if h.store != nil {
		stored, err := h.store.ListSnapshots(r.Context())
		if err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("failed to list stored snapshots")
		} else {
			payload.StoredSnapshots = stored
		}
	}

	NewResponseWriter(w, r).Success(payload)
}
