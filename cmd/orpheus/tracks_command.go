package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"orpheus/internal/catalog"
)

func newTracksCommand(ctx *commandContext) *cobra.Command {
	tracksCmd := &cobra.Command{
		Use:   "tracks",
		Short: "Query the library catalog's tracks",
	}

	byArtistCmd := &cobra.Command{
		Use:   "by-artist <artist>",
		Short: "List every track by one artist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := ctx.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			return printTracks(cmd.OutOrStdout(), cat, cat.FindTracksByArtist(args[0]))
		},
	}

	var artist string
	byAlbumCmd := &cobra.Command{
		Use:   "by-album <album>",
		Short: "List one album's tracks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := ctx.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			return printTracks(cmd.OutOrStdout(), cat, cat.FindTracksByAlbum(args[0], artist))
		},
	}
	byAlbumCmd.Flags().StringVar(&artist, "artist", "", "Album artist (required)")
	_ = byAlbumCmd.MarkFlagRequired("artist")

	locateCmd := &cobra.Command{
		Use:   "locate <path>",
		Short: "Resolve a file path to its catalog entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := ctx.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			pid := cat.GetPersistentIDByLocation(args[0])
			if pid.IsZero() {
				return fmt.Errorf("no track at %s", args[0])
			}
			return printTracks(cmd.OutOrStdout(), cat, []catalog.PersistentID{pid})
		},
	}

	tracksCmd.AddCommand(byArtistCmd)
	tracksCmd.AddCommand(byAlbumCmd)
	tracksCmd.AddCommand(locateCmd)
	return tracksCmd
}

func printTracks(out io.Writer, cat *catalog.Catalog, ids []catalog.PersistentID) error {
	if len(ids) == 0 {
		fmt.Fprintln(out, "No matching tracks.")
		return nil
	}
	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		info, ok := cat.Track(id)
		if !ok {
			continue
		}
		rows = append(rows, []string{
			info.PersistentID.String(),
			info.Name,
			info.Artist,
			info.Album,
			formatDuration(info.TotalTime),
			strconv.FormatInt(info.BitRate, 10),
			strconv.FormatInt(info.PlayCount, 10),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]column{
			{title: "Persistent ID"}, {title: "Name"}, {title: "Artist"}, {title: "Album"},
			{title: "Time", right: true}, {title: "kbps", right: true}, {title: "Plays", right: true},
		},
		rows,
	))
	return nil
}

func formatDuration(ms int64) string {
	if ms <= 0 {
		return "-"
	}
	seconds := ms / 1000
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
