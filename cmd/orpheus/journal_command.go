package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"orpheus/internal/archive"
)

func newJournalCommand(ctx *commandContext) *cobra.Command {
	var limit int

	journalCmd := &cobra.Command{
		Use:   "journal",
		Short: "List recorded reconciliation runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := archive.Open(cfg)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()

			scans, err := store.ListScans(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(scans) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No scans recorded.")
				return nil
			}

			rows := make([][]string, 0, len(scans))
			for _, scan := range scans {
				finished := "-"
				if scan.Finished() {
					finished = scan.FinishedAt.Local().Format(time.DateTime)
				}
				rows = append(rows, []string{
					scan.ID,
					scan.Scope,
					scan.Subject,
					yesNo(scan.Simulate),
					scan.StartedAt.Local().Format(time.DateTime),
					finished,
					strconv.Itoa(scan.Candidates),
					strconv.Itoa(scan.Duplicates),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]column{
					{title: "Scan"}, {title: "Scope"}, {title: "Subject"}, {title: "Simulate"},
					{title: "Started"}, {title: "Finished"},
					{title: "Kept", right: true}, {title: "Dupes", right: true},
				},
				rows,
			))
			return nil
		},
	}
	journalCmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of scans to list")

	removalsCmd := &cobra.Command{
		Use:   "removals <scan-id>",
		Short: "List the removals journaled under one scan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := archive.Open(cfg)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()

			removals, err := store.ListRemovals(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(removals) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No removals for that scan.")
				return nil
			}

			rows := make([][]string, 0, len(removals))
			for _, removal := range removals {
				archived := "-"
				if removal.ArchivePath != "" {
					archived = removal.ArchivePath
				}
				rows = append(rows, []string{
					removal.PersistentID,
					removal.Disposition,
					yesNo(removal.Simulated),
					removal.SourcePath,
					archived,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]column{
					{title: "Persistent ID"}, {title: "Disposition"}, {title: "Simulated"},
					{title: "Source"}, {title: "Archived To"},
				},
				rows,
			))
			return nil
		},
	}

	journalCmd.AddCommand(removalsCmd)
	return journalCmd
}
