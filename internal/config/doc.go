// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

// Package config loads application configuration with koanf.
//
// Sources are layered, later ones winning: built-in defaults, an optional
// YAML file, then environment variables.
//
// # Config File
//
// CONFIG_PATH names the file explicitly; otherwise config.yaml, config.yml,
// /etc/shelfmatch/config.yaml and /etc/shelfmatch/config.yml are tried in order.
//
//	server:
//	  port: 3857
//	store:
//	  dir: /data/snapshots
//	  reload_interval: 1m
//	recommend:
//	  weight_title: 0.45
//	  weight_genre: 0.25
//	  default_k: 10
//	security:
//	  cors_origins: ["https://books.example.com"]
//
// # Environment Variables
//
//	HTTP_PORT, HTTP_HOST, HTTP_TIMEOUT, SHUTDOWN_TIMEOUT, ENVIRONMENT
//	LOG_LEVEL, LOG_FORMAT, LOG_CALLER
//	SHELFMATCH_STORE_DIR, SHELFMATCH_SNAPSHOT_NAME, SHELFMATCH_RELOAD_INTERVAL, SHELFMATCH_KEEP_VERSIONS
//	RECOMMEND_W_TITLE, RECOMMEND_W_GENRE, RECOMMEND_W_RATING, RECOMMEND_W_YEAR, RECOMMEND_W_CLUSTER
//	RECOMMEND_DEFAULT_K, RECOMMEND_MAX_K, RECOMMEND_MAX_SEARCH_RESULTS
//	RECOMMEND_CACHE_ENABLED, RECOMMEND_CACHE_TTL, RECOMMEND_CACHE_MAX_ENTRIES
//	RATE_LIMIT_REQS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT, CORS_ORIGINS (comma-separated)
//	CONFIG_WRITE_ENABLED (allows PUT /api/v1/recommendations/config, default false)
//
// Durations use Go syntax (30s, 5m).
package config
