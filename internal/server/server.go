// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

// Package server assembles the HTTP service: snapshot store, engine, router
// and supervisor tree. Both cmd/server and "shelfmatch serve" run it.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/shelfmatch/internal/api"
	"github.com/tomtom215/shelfmatch/internal/config"
	"github.com/tomtom215/shelfmatch/internal/logging"
	"github.com/tomtom215/shelfmatch/internal/recommend"
	"github.com/tomtom215/shelfmatch/internal/storage"
	"github.com/tomtom215/shelfmatch/internal/supervisor"
	"github.com/tomtom215/shelfmatch/internal/supervisor/services"
)

// Components are the wired parts of a server, exposed for tests and tooling.
type Components struct {
	Store   *storage.Store
	Engine  *recommend.Engine
	Reload  *services.SnapshotReloadService
	Handler http.Handler
	Server  *http.Server
}

// Build wires the components from cfg without starting anything.
func Build(cfg *config.Config) (*Components, error) {
	store, err := storage.NewStore(cfg.Store.Dir)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}

	engine, err := recommend.NewEngine(cfg.Recommend.ToEngineConfig(), logging.Logger())
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}

	reload := services.NewSnapshotReloadService(store, engine, services.ReloadConfig{
		Name:     cfg.Store.Name,
		Interval: cfg.Store.ReloadInterval,
		Keep:     cfg.Store.Keep,
	}, logging.Logger())

	handler := api.NewRouter(
		api.NewHandler(engine, store, logging.Logger()),
		api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(&cfg.Security)),
	).SetupChi()

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * time.Minute,
	}

	return &Components{
		Store:   store,
		Engine:  engine,
		Reload:  reload,
		Handler: handler,
		Server:  srv,
	}, nil
}

// Run builds the server and serves until ctx is canceled. A missing snapshot
// is not fatal: readiness stays false until the reload service finds one.
func Run(ctx context.Context, cfg *config.Config) error {
	c, err := Build(cfg)
	if err != nil {
		return err
	}

	logging.Info().
		Str("addr", c.Server.Addr).
		Str("store", c.Store.Dir()).
		Str("snapshot", cfg.Store.Name).
		Str("environment", cfg.Server.Environment).
		Msg("starting shelfmatch server")

	loaded, err := c.Reload.ReloadOnce(ctx)
	switch {
	case err != nil:
		logging.Warn().Err(err).Msg("initial snapshot load failed, serving not-ready until a reload succeeds")
	case !loaded:
		logging.Warn().Str("store", c.Store.Dir()).Msg("no snapshot stored yet, run 'shelfmatch import'")
	}

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if cfg.Store.ReloadInterval > 0 {
		tree.AddCatalogService(c.Reload)
	}
	tree.AddAPIService(services.NewHTTPServerService(c.Server, cfg.Server.ShutdownTimeout, logging.Logger()))

	err = <-tree.ServeBackground(ctx)

	unstopped, reportErr := tree.UnstoppedServiceReport()
	if reportErr == nil {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("service failed to stop within timeout")
		}
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", err)
	}
	logging.Info().Msg("shelfmatch server stopped")
	return nil
}
