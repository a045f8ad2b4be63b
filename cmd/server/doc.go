// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

/*
Package main is the entry point for the Shelfmatch recommendation server.

Shelfmatch recommends books similar to an anchor book by blending four
precomputed item-to-item similarity matrices (title, genre, rating,
publication year) with a same-cluster boost.

# Application Architecture

	RootSupervisor ("shelfmatch")
	├── CatalogSupervisor ("catalog-layer")
	│   └── Snapshot reload (polls the store, hot-swaps the engine snapshot)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (chi router)

Startup order:

 1. .env file (optional) via godotenv
 2. Configuration: Koanf v2 (defaults, config.yaml, environment)
 3. Logging: zerolog with JSON/console output
 4. Snapshot store and engine; the newest stored snapshot is loaded
 5. Supervisor tree: Suture v4

A missing snapshot is not fatal. /api/v1/health/ready answers 503 until
"shelfmatch import" has written one and the reload service picked it up.

# Configuration

	Priority: Environment variables > Config file > Defaults

	HTTP_PORT=3857                    # listen port
	HTTP_HOST=0.0.0.0
	LOG_LEVEL=info                    # trace, debug, info, warn, error
	LOG_FORMAT=json                   # json or console
	SHELFMATCH_STORE_DIR=/data/snapshots
	SHELFMATCH_SNAPSHOT_NAME=catalog
	SHELFMATCH_RELOAD_INTERVAL=1m     # 0 disables polling
	RECOMMEND_W_TITLE=0.45            # default weights, normalized per request
	RATE_LIMIT_REQS=100
	CORS_ORIGINS=https://example.org

# Signal Handling

SIGINT and SIGTERM cancel the root context; the HTTP server drains
in-flight requests for up to SHUTDOWN_TIMEOUT before exiting.
*/
package main
