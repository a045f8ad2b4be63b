// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

// Package logging wraps zerolog with a process-wide logger, request and
// correlation ids carried in context, and a slog adapter for libraries that
// only speak log/slog.
//
// # Usage
//
//	logging.Init(logging.Config{Level: "info", Format: "json", Timestamp: true})
//	logging.Info().Str("addr", addr).Msg("listening")
//	logging.Ctx(ctx).Warn().Err(err).Msg("snapshot reload failed")
//
// Components that take a zerolog.Logger should derive their own:
//
//	logger.With().Str("component", "recommend").Logger()
//
// Always finish an event with Msg or Send or nothing is written.
package logging
