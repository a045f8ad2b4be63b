// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/tomtom215/shelfmatch/internal/config"
	"github.com/tomtom215/shelfmatch/internal/logging"
	"github.com/tomtom215/shelfmatch/internal/server"
)

func main() {
	// .env is optional; real environment variables still win.
	_ = godotenv.Load()

	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(cfg.Logging.ToLogging())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, cfg); err != nil {
		stop()
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
}
