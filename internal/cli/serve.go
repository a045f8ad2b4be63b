// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

package cli

import (
	"github.com/spf13/cobra"

	"github.com/tomtom215/shelfmatch/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the recommendation API over HTTP",
		Long: `Starts the HTTP API under a supervisor tree. The newest stored snapshot is
loaded at startup and the store is polled for newer versions afterwards.

Until a snapshot exists the service answers /api/v1/health/ready with 503.`,
		Example: `  shelfmatch serve
  shelfmatch serve --store ./data/snapshots --port 8080`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("host") {
				a.cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port = port
			}
			return server.Run(cmd.Context(), a.cfg)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Listen address (default HTTP_HOST)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Listen port (default HTTP_PORT)")
	return cmd
}
