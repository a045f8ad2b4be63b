// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

/*
Package supervisor runs the server's long-lived services under a suture tree.

# Tree Layout

	shelfmatch (root)
	├── catalog-layer
	│   └── snapshot-reload   polls the snapshot store, loads newer versions
	└── api-layer
	    └── http-server       chi router behind net/http

Each layer restarts its own children with exponential backoff. Supervisor
events (restarts, backoff, timeouts) are logged through sutureslog using the
zerolog-backed slog handler from the logging package.

# Usage

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddCatalogService(services.NewSnapshotReloadService(store, engine, reloadCfg, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logger))
	err := tree.Serve(ctx)

Service implementations live in the services subpackage.
*/
package supervisor
