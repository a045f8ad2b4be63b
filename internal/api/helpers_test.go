// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfmatch/internal/recommend"
)

// testBooks is the five-item catalog used by the handler tests.
func testBooks() []recommend.Item {
	return []recommend.Item{
		{ID: 0, Title: "Dune", Author: "Frank Herbert", AvgRating: 4.3, YearPublished: 1965, Cluster: 1, Genres: []string{"fiction", "science"}},
		{ID: 1, Title: "Dune Messiah", Author: "Frank Herbert", AvgRating: 3.9, YearPublished: 1969, Cluster: 1, Genres: []string{"fiction"}},
		{ID: 2, Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin", AvgRating: 4.1, YearPublished: 1969, Cluster: 2, Genres: []string{"fiction", "science"}},
		{ID: 3, Title: "A Brief History of Time", Author: "Stephen Hawking", AvgRating: 4.2, YearPublished: 1988, Cluster: 3, Genres: []string{"non-fiction", "science"}},
		{ID: 4, Title: "Leaves of Grass", Author: "Walt Whitman", AvgRating: 4.0, YearPublished: 1855, Cluster: 4, Genres: []string{"poetry"}},
	}
}

// symmetric builds a unit-diagonal matrix whose row 0 is anchorRow and whose
// other off-diagonal entries are fill.
func symmetric(t *testing.T, anchorRow []float64, fill float64) *recommend.SimilarityMatrix {
	t.Helper()

	n := len(anchorRow)
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
		for j := range rows[i] {
			switch {
			case i == j:
				rows[i][j] = 1
			case i == 0:
				rows[i][j] = anchorRow[j]
			case j == 0:
				rows[i][j] = anchorRow[i]
			default:
				rows[i][j] = fill
			}
		}
	}
	m, err := recommend.NewSimilarityMatrix(rows)
	if err != nil {
		t.Fatalf("NewSimilarityMatrix: %v", err)
	}
	return m
}

// newLoadedEngine returns an engine serving testBooks. With title and genre
// weighted equally, anchor 0 ranks the others [2, 1, 3, 4].
func newLoadedEngine(t *testing.T) *recommend.Engine {
	t.Helper()

	engine := newEmptyEngine(t)
	snap, err := recommend.NewSnapshot(testBooks(), recommend.Matrices{
		Title:  symmetric(t, []float64{1.0, 0.8, 0.3, 0.3, 0.1}, 0.2),
		Genre:  symmetric(t, []float64{1.0, 0.2, 0.9, 0.1, 0.1}, 0.4),
		Rating: symmetric(t, []float64{1.0, 0.7, 0.9, 0.95, 0.8}, 0.5),
		Year:   symmetric(t, []float64{1.0, 0.9, 0.9, 0.6, 0.1}, 0.3),
	}, 3, "test")
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	if err := engine.Load(snap); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return engine
}

func newEmptyEngine(t *testing.T) *recommend.Engine {
	t.Helper()

	engine, err := recommend.NewEngine(recommend.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return engine
}

func newTestServer(engine Recommender) http.Handler {
	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitDisabled = true
	cfg.ConfigWriteEnabled = true
	return NewRouter(NewHandler(engine, nil, zerolog.Nop()), NewChiMiddleware(cfg)).SetupChi()
}

// testEnvelope mirrors APIResponse with a raw payload.
type testEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, testEnvelope) {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, http.NoBody)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env testEnvelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope: %v (body %s)", err, rec.Body.String())
		}
	}
	return rec, env
}

func decodeData(t *testing.T, env testEnvelope, into interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, into); err != nil {
		t.Fatalf("decode data: %v (data %s)", err, string(env.Data))
	}
}
