package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"orpheus/internal/testsupport"
)

type cliEnv struct {
	configPath string
	archiveDir string
	musicDir   string
}

func setupCLIEnv(t *testing.T) cliEnv {
	t.Helper()

	base := t.TempDir()
	musicDir := filepath.Join(base, "music")
	if err := os.MkdirAll(musicDir, 0o755); err != nil {
		t.Fatal(err)
	}

	good := filepath.Join(musicDir, "come-together.m4a")
	dupe := filepath.Join(musicDir, "come-together-old.mp3")
	for _, path := range []string{good, dupe} {
		if err := os.WriteFile(path, []byte("audio: "+filepath.Base(path)), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	documentPath := filepath.Join(base, "Library.xml")
	testsupport.WriteLibraryDocument(t, documentPath, testsupport.Library{
		Tracks: []testsupport.Track{
			{
				ID: 101, PersistentID: "0000000000000A01", Name: "Come Together",
				Artist: "The Beatles", Album: "Abbey Road",
				TotalTime: 259000, BitRate: 320, Location: good,
			},
			{
				ID: 102, PersistentID: "0000000000000A02", Name: "Come Together",
				Artist: "The Beatles", Album: "Abbey Road",
				TotalTime: 259000, BitRate: 128, Location: dupe,
			},
		},
		Playlists: []testsupport.Playlist{
			{Name: "Library", PlaylistID: 9001, PersistentID: "00000000000F0001", Master: true, TrackIDs: []int{101, 102}},
			{Name: "Rock", PlaylistID: 9002, PersistentID: "00000000000F0002", TrackIDs: []int{101, 102}},
		},
	})

	archiveDir := filepath.Join(base, "archive")
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
library_document = %q
archive_dir = %q
state_dir = %q

[logging]
level = "error"
format = "json"
`, documentPath, archiveDir, filepath.Join(base, "state"))
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	return cliEnv{configPath: configPath, archiveDir: archiveDir, musicDir: musicDir}
}

func runCLI(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func requireContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("output missing %q:\n%s", want, output)
	}
}
