// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/shelfmatch/internal/catalog"
	"github.com/tomtom215/shelfmatch/internal/recommend"
	"github.com/tomtom215/shelfmatch/internal/validation"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 64 << 10

// RankParams are the ranking controls shared by both recommendation endpoints.
type RankParams struct {
	Mode      string   `query:"mode" validate:"omitempty,oneof=title author genre keyword"`
	K         int      `query:"k" validate:"gte=0,lte=1000"`
	MinRating float64  `query:"min_rating" validate:"gte=0,lte=5"`
	Genres    []string `query:"genres" validate:"max=50,dive,genretag"`

	WTitle   *float64 `query:"w_title" validate:"omitempty,weight"`
	WGenre   *float64 `query:"w_genre" validate:"omitempty,weight"`
	WRating  *float64 `query:"w_rating" validate:"omitempty,weight"`
	WYear    *float64 `query:"w_year" validate:"omitempty,weight"`
	WCluster *float64 `query:"w_cluster" validate:"omitempty,weight"`
}

// RecommendParams are the query parameters of GET /recommendations.
type RecommendParams struct {
	Query string `query:"q" validate:"required,max=500"`
	RankParams
}

// SearchParams are the query parameters of GET /books/search.
type SearchParams struct {
	Query string `query:"q" validate:"required,max=500"`
	Mode  string `query:"mode" validate:"omitempty,oneof=title author genre keyword"`
	Limit int    `query:"limit" validate:"gte=0,lte=1000"`
}

// ConfigUpdateRequest is the body of PUT /recommendations/config.
// Omitted sections keep their current values.
type ConfigUpdateRequest struct {
	Weights *WeightsBody `json:"weights"`
	Limits  *LimitsBody  `json:"limits"`
	Cache   *CacheBody   `json:"cache"`
}

// WeightsBody carries the five default signal weights.
type WeightsBody struct {
	Title   float64 `json:"title" validate:"weight"`
	Genre   float64 `json:"genre" validate:"weight"`
	Rating  float64 `json:"rating" validate:"weight"`
	Year    float64 `json:"year" validate:"weight"`
	Cluster float64 `json:"cluster" validate:"weight"`
}

// LimitsBody carries the result size limits.
type LimitsBody struct {
	DefaultK         int `json:"default_k" validate:"gte=1"`
	MaxK             int `json:"max_k" validate:"gte=1,lte=1000"`
	MaxSearchResults int `json:"max_search_results" validate:"gte=1,lte=1000"`
}

// CacheBody carries result cache settings. TTL is a Go duration string.
type CacheBody struct {
	Enabled    bool   `json:"enabled"`
	TTL        string `json:"ttl"`
	MaxEntries int    `json:"max_entries" validate:"gte=0"`
}

// parseRankParams reads the ranking controls from q.
func parseRankParams(q url.Values) (RankParams, error) {
	var (
		p   RankParams
		err error
	)
	p.Mode = strings.ToLower(strings.TrimSpace(q.Get("mode")))
	if p.K, err = intParam(q, "k"); err != nil {
		return p, err
	}
	if v, err := floatParam(q, "min_rating"); err != nil {
		return p, err
	} else if v != nil {
		p.MinRating = *v
	}

	// Both genres=a,b and repeated genres= are accepted.
	for _, raw := range q["genres"] {
		p.Genres = append(p.Genres, catalog.SplitGenres(raw)...)
	}

	for _, w := range []struct {
		name string
		into **float64
	}{
		{"w_title", &p.WTitle},
		{"w_genre", &p.WGenre},
		{"w_rating", &p.WRating},
		{"w_year", &p.WYear},
		{"w_cluster", &p.WCluster},
	} {
		if *w.into, err = floatParam(q, w.name); err != nil {
			return p, err
		}
	}
	return p, nil
}

// toRequest builds an engine request. Any supplied weight overrides the
// corresponding default; unsupplied weights keep their defaults.
//
//nolint:gocritic // hugeParam: params are read once per request
func (p RankParams) toRequest(defaults recommend.WeightSet) recommend.Request {
	req := recommend.Request{
		Mode: recommend.SearchMode(p.Mode),
		K:    p.K,
		Filter: recommend.FilterSpec{
			MinRating: p.MinRating,
			Genres:    p.Genres,
		},
	}

	if p.WTitle != nil || p.WGenre != nil || p.WRating != nil || p.WYear != nil || p.WCluster != nil {
		w := defaults
		setIf(&w.Title, p.WTitle)
		setIf(&w.Genre, p.WGenre)
		setIf(&w.Rating, p.WRating)
		setIf(&w.Year, p.WYear)
		setIf(&w.Cluster, p.WCluster)
		req.Weights = &w
	}
	return req
}

func setIf(dst, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func parseSearchParams(q url.Values) (SearchParams, error) {
	p := SearchParams{
		Query: strings.TrimSpace(q.Get("q")),
		Mode:  strings.ToLower(strings.TrimSpace(q.Get("mode"))),
	}
	var err error
	p.Limit, err = intParam(q, "limit")
	return p, err
}

// parseItemID parses a non-negative integer path segment.
func parseItemID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id < 0 {
		return 0, ErrInvalidItemID
	}
	return id, nil
}

func intParam(q url.Values, name string) (int, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return v, nil
}

func floatParam(q url.Values, name string) (*float64, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", name)
	}
	return &v, nil
}

// decodeConfigUpdate reads and validates a config update body.
func decodeConfigUpdate(w http.ResponseWriter, r *http.Request) (*ConfigUpdateRequest, error) {
	var req ConfigUpdateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		return nil, verr
	}
	return &req, nil
}

// apply merges the update onto cfg.
func (u *ConfigUpdateRequest) apply(cfg *recommend.Config) error {
	if u.Weights != nil {
		cfg.Weights = recommend.WeightSet{
			Title:   u.Weights.Title,
			Genre:   u.Weights.Genre,
			Rating:  u.Weights.Rating,
			Year:    u.Weights.Year,
			Cluster: u.Weights.Cluster,
		}
	}
	if u.Limits != nil {
		cfg.Limits = recommend.LimitsConfig{
			DefaultK:         u.Limits.DefaultK,
			MaxK:             u.Limits.MaxK,
			MaxSearchResults: u.Limits.MaxSearchResults,
		}
	}
	if u.Cache != nil {
		cfg.Cache.Enabled = u.Cache.Enabled
		cfg.Cache.MaxEntries = u.Cache.MaxEntries
		if u.Cache.TTL != "" {
			ttl, err := time.ParseDuration(u.Cache.TTL)
			if err != nil {
				return fmt.Errorf("cache.ttl: %w", err)
			}
			cfg.Cache.TTL = ttl
		}
	}
	return nil
}
