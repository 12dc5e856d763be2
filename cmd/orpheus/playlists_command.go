package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"orpheus/internal/mediatypes"
)

func newPlaylistsCommand(ctx *commandContext) *cobra.Command {
	playlistsCmd := &cobra.Command{
		Use:   "playlists",
		Short: "Query the library catalog's playlists",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := ctx.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			playlists := cat.Playlists()
			if len(playlists) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No playlists.")
				return nil
			}
			rows := make([][]string, 0, len(playlists))
			for _, playlist := range playlists {
				rows = append(rows, []string{
					playlist.PersistentID.String(),
					playlist.Name,
					strconv.Itoa(playlist.Tracks),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]column{{title: "Persistent ID"}, {title: "Name"}, {title: "Tracks", right: true}},
				rows,
			))
			return nil
		},
	}

	tracksCmd := &cobra.Command{
		Use:   "tracks <name>",
		Short: "List a playlist's tracks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := ctx.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			playlist, ok := cat.FindPlaylistByName(args[0])
			if !ok {
				return fmt.Errorf("no playlist named %q", args[0])
			}
			return printTracks(cmd.OutOrStdout(), cat, cat.FindTracksByPlaylist(playlist.PersistentID))
		},
	}

	extensionsCmd := &cobra.Command{
		Use:   "extensions <name>",
		Short: "List the audio file extensions a playlist spans",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cat, err := ctx.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			playlist, ok := cat.FindPlaylistByName(args[0])
			if !ok {
				return fmt.Errorf("no playlist named %q", args[0])
			}
			registry := mediatypes.NewRegistry(cfg.Scanner.ExtraAudioExtensions)
			extensions := cat.FindExtensionsByPlaylist(playlist.PersistentID, registry)
			if len(extensions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No audio extensions.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(extensions, " "))
			return nil
		},
	}

	playlistsCmd.AddCommand(tracksCmd)
	playlistsCmd.AddCommand(extensionsCmd)
	return playlistsCmd
}
