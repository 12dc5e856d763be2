package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"orpheus/internal/librarian"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var simulate bool

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Run duplicate reconciliation over part of the library",
	}
	scanCmd.PersistentFlags().BoolVar(&simulate, "simulate", false, "Report decisions without touching files or the catalog")

	applySimulate := func() {
		if simulate {
			if cfg, err := ctx.ensureConfig(); err == nil {
				cfg.Scanner.Simulate = true
			}
		}
	}

	albumCmd := &cobra.Command{
		Use:   "album <album>",
		Short: "Reconcile one album's tracks",
		Args:  cobra.ExactArgs(1),
	}
	var artist string
	albumCmd.Flags().StringVar(&artist, "artist", "", "Album artist (required)")
	_ = albumCmd.MarkFlagRequired("artist")
	albumCmd.RunE = func(cmd *cobra.Command, args []string) error {
		applySimulate()
		return ctx.withLibrarian(cmd.Context(), func(lib *librarian.Librarian) error {
			report, err := lib.ScanAlbum(cmd.Context(), args[0], artist)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		})
	}

	artistCmd := &cobra.Command{
		Use:   "artist <artist>",
		Short: "Reconcile every track by one artist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applySimulate()
			return ctx.withLibrarian(cmd.Context(), func(lib *librarian.Librarian) error {
				report, err := lib.ScanArtist(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printReport(cmd.OutOrStdout(), report)
				return nil
			})
		},
	}

	playlistCmd := &cobra.Command{
		Use:   "playlist <name>",
		Short: "Reconcile a playlist's tracks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applySimulate()
			return ctx.withLibrarian(cmd.Context(), func(lib *librarian.Librarian) error {
				report, err := lib.ScanPlaylist(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printReport(cmd.OutOrStdout(), report)
				return nil
			})
		},
	}

	scanCmd.AddCommand(albumCmd)
	scanCmd.AddCommand(artistCmd)
	scanCmd.AddCommand(playlistCmd)
	return scanCmd
}

func printReport(out io.Writer, report *librarian.Report) {
	fmt.Fprintf(out, "Scan %s (%s %q)\n", report.ScanID, report.Scope, report.Subject)
	if report.Simulate {
		fmt.Fprintln(out, "Simulate mode: no files or catalog records were changed.")
	}

	if len(report.Duplicates) > 0 {
		rows := make([][]string, 0, len(report.Duplicates))
		for _, demoted := range report.Duplicates {
			rows = append(rows, []string{
				demoted.Track.PersistentID.String(),
				demoted.Track.Title,
				demoted.Winner.PersistentID.String(),
				demoted.Disposition.String(),
				demoted.Track.Location,
			})
		}
		fmt.Fprintln(out, renderTable(
			[]column{
				{title: "Demoted"}, {title: "Title"}, {title: "Kept"},
				{title: "Disposition"}, {title: "Location"},
			},
			rows,
		))
	}

	fmt.Fprintf(out, "Candidates kept: %d  Duplicates: %d  Archived: %d  Removed from catalog: %d\n",
		len(report.Candidates), len(report.Duplicates), report.Archived, report.Removed)
}
