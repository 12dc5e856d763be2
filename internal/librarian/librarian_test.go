package librarian_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"orpheus/internal/bridge"
	"orpheus/internal/catalog"
	"orpheus/internal/change"
	"orpheus/internal/config"
	"orpheus/internal/librarian"
	"orpheus/internal/logging"
	"orpheus/internal/testsupport"
)

const (
	pidGood    = "0000000000000A01"
	pidDupe    = "0000000000000A02"
	pidOther   = "0000000000000B01"
	pidLibrary = "00000000000F0001"
	pidRock    = "00000000000F0002"
)

type fakeResolver struct {
	playlists map[int64]*bridge.Playlist
	tracks    map[int64]*bridge.Track
}

func (f *fakeResolver) ResolvePlaylist(ctx context.Context, ref change.ObjectRef) (*bridge.Playlist, error) {
	playlist, ok := f.playlists[ref.PlaylistID]
	if !ok {
		return nil, fmt.Errorf("no playlist %d", ref.PlaylistID)
	}
	return playlist, nil
}

func (f *fakeResolver) ResolveTrack(ctx context.Context, ref change.ObjectRef) (*bridge.Track, error) {
	track, ok := f.tracks[ref.TrackID]
	if !ok {
		return nil, fmt.Errorf("no track %d", ref.TrackID)
	}
	return track, nil
}

func mustPID(t *testing.T, value string) catalog.PersistentID {
	t.Helper()
	pid, err := catalog.ParsePersistentID(value)
	if err != nil {
		t.Fatalf("ParsePersistentID(%q): %v", value, err)
	}
	return pid
}

func writeAudioFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("audio: "+name), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// newTestLibrarian builds a started librarian over a document containing two
// bit-rate-distinct copies of one track plus an unrelated one, with real
// files behind the locations.
func newTestLibrarian(t *testing.T, opts ...testsupport.ConfigOption) (*librarian.Librarian, *config.Config, map[string]string) {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	music := filepath.Join(filepath.Dir(cfg.Paths.LibraryDocument), "music")
	if err := os.MkdirAll(music, 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"good":  writeAudioFile(t, music, "come-together.m4a"),
		"dupe":  writeAudioFile(t, music, "come-together-old.mp3"),
		"other": writeAudioFile(t, music, "something.mp3"),
	}

	testsupport.WriteLibraryDocument(t, cfg.Paths.LibraryDocument, testsupport.Library{
		Tracks: []testsupport.Track{
			{
				ID: 101, PersistentID: pidGood, Name: "Come Together",
				Artist: "The Beatles", Album: "Abbey Road",
				TotalTime: 259000, BitRate: 320, Location: files["good"],
			},
			{
				ID: 102, PersistentID: pidDupe, Name: "Come Together",
				Artist: "The Beatles", Album: "Abbey Road",
				TotalTime: 259000, BitRate: 128, Location: files["dupe"],
			},
			{
				ID: 103, PersistentID: pidOther, Name: "Something",
				Artist: "The Beatles", Album: "Abbey Road",
				TotalTime: 182000, BitRate: 256, Location: files["other"],
			},
		},
		Playlists: []testsupport.Playlist{
			{Name: "Library", PlaylistID: 9001, PersistentID: pidLibrary, Master: true, TrackIDs: []int{101, 102, 103}},
			{Name: "Rock", PlaylistID: 9002, PersistentID: pidRock, TrackIDs: []int{101, 102}},
		},
	})

	store := testsupport.OpenJournal(t, cfg)
	lib, err := librarian.New(librarian.Options{
		Config: cfg,
		Store:  store,
		Resolver: &fakeResolver{
			playlists: map[int64]*bridge.Playlist{
				9002: {PersistentID: mustPID(t, pidRock), Name: "Rock"},
				9100: {PersistentID: mustPID(t, "00000000000F0009"), Name: "Indie"},
			},
			tracks: map[int64]*bridge.Track{
				101: {PersistentID: mustPID(t, pidGood), Title: "Come Together"},
				103: {PersistentID: mustPID(t, pidOther), Title: "Something"},
				201: {PersistentID: mustPID(t, "0000000000000C01"), Title: "Taxman", Artist: "The Beatles", Album: "Revolver"},
			},
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := lib.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() {
		_ = lib.Close()
	})
	return lib, cfg, files
}

func sourceRef() change.ObjectRef { return change.ObjectRef{SourceID: 1} }

func playlistRef(id int64) change.ObjectRef {
	return change.ObjectRef{SourceID: 1, PlaylistID: id}
}

func trackRef(playlistID, trackID int64) change.ObjectRef {
	return change.ObjectRef{SourceID: 1, PlaylistID: playlistID, TrackID: trackID, DatabaseID: trackID}
}

func TestStartExcludesSecondInstance(t *testing.T) {
	lib, cfg, _ := newTestLibrarian(t)
	_ = lib

	store := testsupport.OpenJournal(t, cfg)
	second, err := librarian.New(librarian.Options{Config: cfg, Store: store})
	if err != nil {
		t.Fatal(err)
	}
	err = second.Start(context.Background())
	if !errors.Is(err, librarian.ErrLockHeld) {
		t.Fatalf("err = %v, want ErrLockHeld", err)
	}
}

func TestApplyAddPlaylist(t *testing.T) {
	lib, _, _ := newTestLibrarian(t)

	err := lib.Apply(context.Background(), change.Notification{sourceRef(), playlistRef(9100)})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if _, ok := lib.Catalog().FindPlaylistByName("Indie"); !ok {
		t.Fatal("playlist not added")
	}
}

func TestApplyAddTracksToPlaylist(t *testing.T) {
	lib, _, _ := newTestLibrarian(t)

	err := lib.Apply(context.Background(), change.Notification{
		sourceRef(), playlistRef(9002), trackRef(9002, 201),
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	rock := lib.Catalog().FindTracksByPlaylist(mustPID(t, pidRock))
	if len(rock) != 3 || rock[2] != mustPID(t, "0000000000000C01") {
		t.Fatalf("Rock tracks = %v", rock)
	}
	// The bridge-resolved track was unknown to the catalog and got inserted.
	if _, ok := lib.Catalog().Track(mustPID(t, "0000000000000C01")); !ok {
		t.Fatal("resolved track not inserted")
	}
}

func TestApplyRemovePlaylist(t *testing.T) {
	lib, _, _ := newTestLibrarian(t)

	err := lib.Apply(context.Background(), change.Notification{playlistRef(9002), sourceRef()})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if _, ok := lib.Catalog().FindPlaylistByName("Rock"); ok {
		t.Fatal("playlist still present")
	}
}

func TestApplyRemoveTracksFromPlaylist(t *testing.T) {
	lib, _, _ := newTestLibrarian(t)

	err := lib.Apply(context.Background(), change.Notification{
		trackRef(9002, 101), sourceRef(), playlistRef(9002),
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	rock := lib.Catalog().FindTracksByPlaylist(mustPID(t, pidRock))
	if len(rock) != 1 || rock[0] != mustPID(t, pidDupe) {
		t.Fatalf("Rock tracks = %v", rock)
	}
	// Removal from a playlist never deletes the track itself.
	if _, ok := lib.Catalog().Track(mustPID(t, pidGood)); !ok {
		t.Fatal("track deleted from catalog")
	}
}

func TestApplyDropsUnclassifiedSilently(t *testing.T) {
	lib, _, _ := newTestLibrarian(t)

	before := lib.Catalog().TrackCount()
	err := lib.Apply(context.Background(), change.Notification{
		{SourceID: 1, PlaylistID: 2, TrackID: 3}, // DatabaseID missing: unrecognized
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := lib.Catalog().TrackCount(); got != before {
		t.Fatalf("TrackCount changed to %d", got)
	}
}

func TestApplyDropLogsOnlyAtDebug(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteLibraryDocument(t, cfg.Paths.LibraryDocument, testsupport.Library{
		Tracks: []testsupport.Track{
			{
				ID: 101, PersistentID: pidGood, Name: "Come Together",
				Artist: "The Beatles", Album: "Abbey Road",
				TotalTime: 259000, BitRate: 320,
			},
		},
		Playlists: []testsupport.Playlist{
			{Name: "Library", PlaylistID: 9001, PersistentID: pidLibrary, Master: true, TrackIDs: []int{101}},
		},
	})

	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}

	lib, err := librarian.New(librarian.Options{
		Config: cfg,
		Store:  testsupport.OpenJournal(t, cfg),
		Logger: logger,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := lib.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() {
		_ = lib.Close()
	})

	buf.Reset()
	err = lib.Apply(context.Background(), change.Notification{
		{SourceID: 1, PlaylistID: 2, TrackID: 3},
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	// Unrecognized notifications are dropped with a debug record only;
	// at info and above the drop is invisible.
	if buf.Len() != 0 {
		t.Fatalf("drop logged above debug: %s", buf.String())
	}
}

func TestScanAlbumArchivesLoser(t *testing.T) {
	lib, cfg, files := newTestLibrarian(t)

	report, err := lib.ScanAlbum(context.Background(), "Abbey Road", "The Beatles")
	if err != nil {
		t.Fatalf("ScanAlbum: %v", err)
	}

	if len(report.Candidates) != 2 || len(report.Duplicates) != 1 {
		t.Fatalf("report = %+v", report)
	}
	if report.Duplicates[0].Track.PersistentID != mustPID(t, pidDupe) {
		t.Fatalf("demoted = %v", report.Duplicates[0].Track.PersistentID)
	}
	if report.Archived != 1 || report.Removed != 1 {
		t.Fatalf("archived=%d removed=%d", report.Archived, report.Removed)
	}

	if _, err := os.Stat(files["dupe"]); !os.IsNotExist(err) {
		t.Fatalf("loser file still present: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.ArchiveDir, "come-together-old.mp3")); err != nil {
		t.Fatalf("archived file missing: %v", err)
	}

	if _, ok := lib.Catalog().Track(mustPID(t, pidDupe)); ok {
		t.Fatal("demoted track still cataloged")
	}
	rock := lib.Catalog().FindTracksByPlaylist(mustPID(t, pidRock))
	if len(rock) != 1 || rock[0] != mustPID(t, pidGood) {
		t.Fatalf("Rock tracks = %v", rock)
	}
}

func TestScanAlbumSimulateTouchesNothing(t *testing.T) {
	lib, _, files := newTestLibrarian(t, testsupport.WithSimulate())

	report, err := lib.ScanAlbum(context.Background(), "Abbey Road", "The Beatles")
	if err != nil {
		t.Fatalf("ScanAlbum: %v", err)
	}

	if len(report.Duplicates) != 1 || report.Removed != 0 {
		t.Fatalf("report = %+v", report)
	}
	if _, err := os.Stat(files["dupe"]); err != nil {
		t.Fatalf("simulate moved the file: %v", err)
	}
	if _, ok := lib.Catalog().Track(mustPID(t, pidDupe)); !ok {
		t.Fatal("simulate removed the catalog record")
	}
}

func TestScanPlaylistScopesToPlaylist(t *testing.T) {
	lib, _, _ := newTestLibrarian(t)

	report, err := lib.ScanPlaylist(context.Background(), "rock")
	if err != nil {
		t.Fatalf("ScanPlaylist: %v", err)
	}
	// Only the playlist's two copies are in scope; "Something" is untouched.
	if len(report.Candidates) != 1 || len(report.Duplicates) != 1 {
		t.Fatalf("report = %+v", report)
	}
}

func TestScanPlaylistUnknown(t *testing.T) {
	lib, _, _ := newTestLibrarian(t)

	_, err := lib.ScanPlaylist(context.Background(), "No Such List")
	if !errors.Is(err, librarian.ErrUnknownPlaylist) {
		t.Fatalf("err = %v, want ErrUnknownPlaylist", err)
	}
}
