// Shelfmatch - Hybrid Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmatch

package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newSnapshotsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "Inspect and prune stored catalog snapshots",
	}
	cmd.AddCommand(newSnapshotsListCmd(a), newSnapshotsPruneCmd(a))
	return cmd
}

func newSnapshotsListCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots, newest version first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			metas, err := store.ListSnapshots(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format != FormatTable {
				return writeStructured(out, format, metas)
			}
			if len(metas) == 0 {
				fmt.Fprintf(out, "no snapshots in %s\n", store.Dir())
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tVERSION\tITEMS\tSIZE\tSAVED\tSOURCE")
			for i := range metas {
				m := &metas[i]
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\t%s\n",
					m.Name, m.Version, m.ItemCount, m.SizeBytes, m.SavedAt.Format(time.RFC3339), m.Source)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&format, "format", "o", FormatTable, "Output format: table, json or yaml")
	return cmd
}

func newSnapshotsPruneCmd(a *app) *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest versions of the snapshot name",
		Example: `  shelfmatch snapshots prune --keep 3
  shelfmatch snapshots prune --name goodreads --keep 1`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			removed, err := store.Prune(cmd.Context(), a.cfg.Store.Name, keep)
			if err != nil {
				return err
			}
			if len(removed) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "nothing to prune for %s\n", a.cfg.Store.Name)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s versions %v\n", a.cfg.Store.Name, removed)
			return nil
		},
	}
	cmd.Flags().IntVar(&keep, "keep", 3, "Number of newest versions to keep (minimum 1)")
	return cmd
}
