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
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfmatch/internal/config"
	"github.com/tomtom215/shelfmatch/internal/recommend"
)

func TestHealth(t *testing.T) {
	t.Parallel()

	loaded := newTestServer(newLoadedEngine(t))
	empty := newTestServer(newEmptyEngine(t))

	tests := []struct {
		name       string
		handler    http.Handler
		target     string
		wantStatus int
	}{
		{"live with catalog", loaded, "/api/v1/health/live", http.StatusOK},
		{"live without catalog", empty, "/api/v1/health/live", http.StatusOK},
		{"ready with catalog", loaded, "/api/v1/health/ready", http.StatusOK},
		{"ready without catalog", empty, "/api/v1/health/ready", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec, _ := do(t, tt.handler, http.MethodGet, tt.target, "")
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestBooks(t *testing.T) {
	t.Parallel()

	h := newTestServer(newLoadedEngine(t))

	t.Run("search by title", func(t *testing.T) {
		t.Parallel()
		rec, env := do(t, h, http.MethodGet, "/api/v1/books/search?q=dune", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var items []recommend.Item
		decodeData(t, env, &items)
		if len(items) != 2 || items[0].ID != 0 || items[1].ID != 1 {
			t.Errorf("items = %+v, want ids [0 1]", items)
		}
	})

	t.Run("search by genre with limit", func(t *testing.T) {
		t.Parallel()
		_, env := do(t, h, http.MethodGet, "/api/v1/books/search?q=science&mode=genre&limit=2", "")
		var items []recommend.Item
		decodeData(t, env, &items)
		if len(items) != 2 || items[0].ID != 0 || items[1].ID != 2 {
			t.Errorf("items = %+v, want ids [0 2]", items)
		}
	})

	t.Run("search without query", func(t *testing.T) {
		t.Parallel()
		rec, _ := do(t, h, http.MethodGet, "/api/v1/books/search", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("no match is an empty list", func(t *testing.T) {
		t.Parallel()
		rec, env := do(t, h, http.MethodGet, "/api/v1/books/search?q=atlas", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if string(env.Data) != "[]" {
			t.Errorf("data = %s, want []", string(env.Data))
		}
	})

	t.Run("get book", func(t *testing.T) {
		t.Parallel()
		_, env := do(t, h, http.MethodGet, "/api/v1/books/4", "")
		var item recommend.Item
		decodeData(t, env, &item)
		if item.Title != "Leaves of Grass" {
			t.Errorf("title = %q", item.Title)
		}
	})

	t.Run("get book out of range", func(t *testing.T) {
		t.Parallel()
		rec, _ := do(t, h, http.MethodGet, "/api/v1/books/5", "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestRequestIDEchoed(t *testing.T) {
	t.Parallel()

	h := newTestServer(newLoadedEngine(t))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations?q=atlas", http.NoBody)
	req.Header.Set("X-Request-ID", "req-abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "req-abc-123" {
		t.Errorf("X-Request-ID = %q", got)
	}
	if !strings.Contains(rec.Body.String(), `"request_id":"req-abc-123"`) {
		t.Errorf("body does not carry the request id: %s", rec.Body.String())
	}
}

func TestUnknownRoute(t *testing.T) {
	t.Parallel()

	h := newTestServer(newLoadedEngine(t))
	rec, env := do(t, h, http.MethodGet, "/api/v1/authors", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if env.Error == nil || env.Error.Code != ErrCodeNotFound {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	h := newTestServer(newLoadedEngine(t))
	do(t, h, http.MethodGet, "/api/v1/books/0", "")

	req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "api_requests_total") {
		t.Error("api_requests_total not exposed")
	}
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	cfg := ChiMiddlewareConfigFrom(&config.SecurityConfig{
		RateLimitReqs:   2,
		RateLimitWindow: time.Minute,
		CORSOrigins:     []string{"*"},
	})
	h := NewRouter(NewHandler(newLoadedEngine(t), nil, zerolog.Nop()), NewChiMiddleware(cfg)).SetupChi()

	for i := 0; i < 2; i++ {
		rec, _ := do(t, h, http.MethodGet, "/api/v1/books/0", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, rec.Code)
		}
	}

	rec, env := do(t, h, http.MethodGet, "/api/v1/books/0", "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if env.Error == nil || env.Error.Code != ErrCodeTooManyRequests {
		t.Errorf("error = %+v", env.Error)
	}

	// Health endpoints stay exempt.
	rec, _ = do(t, h, http.MethodGet, "/api/v1/health/live", "")
	if rec.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200", rec.Code)
	}
}
