// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/tomtom215/shelfmatch/internal/recommend"
)

// isolate points config discovery at an empty directory so a stray
// config.yaml in the working directory cannot leak into a test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(ConfigPathEnvVar, filepath.Join(dir, "missing.yaml"))
	saved := DefaultConfigPaths
	DefaultConfigPaths = nil
	t.Cleanup(func() { DefaultConfigPaths = saved })
	return dir
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 3857 {
		t.Errorf("Server.Port = %d, want 3857", cfg.Server.Port)
	}
	if cfg.Store.Name != "catalog" || cfg.Store.ReloadInterval != time.Minute {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if got := cfg.Recommend.Weights(); got != recommend.DefaultWeights() {
		t.Errorf("Recommend.Weights() = %+v, want defaults", got)
	}
	if cfg.Recommend.DefaultK != 10 {
		t.Errorf("Recommend.DefaultK = %d, want 10", cfg.Recommend.DefaultK)
	}
	if cfg.Security.ConfigWriteEnabled {
		t.Error("Security.ConfigWriteEnabled should default to false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"HTTP_PORT", "server.port"},
		{"LOG_LEVEL", "logging.level"},
		{"SHELFMATCH_STORE_DIR", "store.dir"},
		{"RECOMMEND_W_TITLE", "recommend.weight_title"},
		{"RECOMMEND_CACHE_TTL", "recommend.cache_ttl"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"CONFIG_WRITE_ENABLED", "security.config_write_enabled"},
		{"PATH", ""},
		{"HOME", ""},
	}
	for _, tt := range tests {
		if got := envTransformFunc(tt.input); got != tt.expected {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestLoadWithKoanf_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if !reflect.DeepEqual(cfg, defaultConfig()) {
		t.Errorf("LoadWithKoanf() = %+v\nwant %+v", cfg, defaultConfig())
	}
}

func TestLoadWithKoanf_Precedence(t *testing.T) {
	dir := isolate(t)

	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 8080
store:
  dir: /srv/snapshots
  reload_interval: 30s
recommend:
  weight_title: 0.6
  weight_genre: 0.4
  default_k: 5
security:
  cors_origins:
    - https://a.example
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("RECOMMEND_W_GENRE", "0.1")
	t.Setenv("CORS_ORIGINS", "https://b.example, https://c.example")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want env value 9090", cfg.Server.Port)
	}
	if cfg.Store.Dir != "/srv/snapshots" || cfg.Store.ReloadInterval != 30*time.Second {
		t.Errorf("Store = %+v, want file values", cfg.Store)
	}
	if cfg.Recommend.WeightTitle != 0.6 {
		t.Errorf("WeightTitle = %v, want file value 0.6", cfg.Recommend.WeightTitle)
	}
	if cfg.Recommend.WeightGenre != 0.1 {
		t.Errorf("WeightGenre = %v, want env value 0.1", cfg.Recommend.WeightGenre)
	}
	if cfg.Recommend.WeightRating != 0.15 {
		t.Errorf("WeightRating = %v, want default 0.15", cfg.Recommend.WeightRating)
	}
	if cfg.Recommend.DefaultK != 5 {
		t.Errorf("DefaultK = %d, want 5", cfg.Recommend.DefaultK)
	}
	want := []string{"https://b.example", "https://c.example"}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, want) {
		t.Errorf("CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
}

func TestLoadWithKoanf_InvalidEnv(t *testing.T) {
	isolate(t)
	t.Setenv("RECOMMEND_W_TITLE", "-1")

	if _, err := LoadWithKoanf(); err == nil {
		t.Fatal("expected validation error for a negative weight")
	}
}

func TestLoadWithKoanf_BadFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	if _, err := LoadWithKoanf(); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}
