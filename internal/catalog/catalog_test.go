package catalog_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"orpheus/internal/catalog"
	"orpheus/internal/logging"
	"orpheus/internal/testsupport"
)

const (
	pidTrackA   = "0000000000000A01"
	pidTrackB   = "0000000000000B02"
	pidTrackC   = "0000000000000C03"
	pidLibrary  = "00000000000F0001"
	pidRock     = "00000000000F0002"
	pidNineties = "00000000000F0003"
)

func fixtureLibrary() testsupport.Library {
	return testsupport.Library{
		Attrs: map[string]string{"Music Folder": "file://localhost/C:/Users/demo/Music/"},
		Tracks: []testsupport.Track{
			{
				ID: 101, PersistentID: pidTrackA, Name: "Come Together",
				Artist: " the beatles ", Album: "ABBEY ROAD", Genre: "Rock",
				Kind: "MPEG audio file", TotalTime: 259000, BitRate: 256,
				Rating: 80, PlayCount: 12, Loved: true,
				Location: "file://localhost/C:/Music/Beatles/Come%20Together.mp3",
			},
			{
				ID: 102, PersistentID: pidTrackB, Name: "Something",
				Artist: "The Beatles", Album: "Abbey Road", Genre: "Rock",
				Kind: "AAC audio file", TotalTime: 182000, BitRate: 320,
				Location: "C:\\Music\\Beatles\\Something.m4a",
			},
			{
				ID: 103, PersistentID: pidTrackC, Name: "Liner Notes",
				Artist: "The Beatles", Album: "Abbey Road",
				Kind: "Text document", TotalTime: 1000,
				Location: "C:\\Music\\Beatles\\notes.txt",
			},
		},
		Playlists: []testsupport.Playlist{
			{Name: "Library", PlaylistID: 9001, PersistentID: pidLibrary, Master: true, TrackIDs: []int{101, 102, 103}},
			{Name: "Rock", PlaylistID: 9002, PersistentID: pidRock, TrackIDs: []int{101, 102}},
			{Name: "90s", PlaylistID: 9003, PersistentID: pidNineties, Smart: true, TrackIDs: []int{103}},
		},
	}
}

func newFixtureCatalog(t *testing.T) (*catalog.Catalog, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Library.xml")
	testsupport.WriteLibraryDocument(t, path, fixtureLibrary())
	cat := catalog.New(path, logging.NewNop())
	if err := cat.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return cat, path
}

func mustPID(t *testing.T, value string) catalog.PersistentID {
	t.Helper()
	pid, err := catalog.ParsePersistentID(value)
	if err != nil {
		t.Fatalf("ParsePersistentID(%q): %v", value, err)
	}
	return pid
}

func TestInitializeBuildsCompactTree(t *testing.T) {
	cat, _ := newFixtureCatalog(t)
	if !cat.Ready() {
		t.Fatal("catalog not ready after Initialize")
	}
	if got := cat.TrackCount(); got != 3 {
		t.Fatalf("TrackCount = %d, want 3", got)
	}
	if got := cat.LibraryAttr("Application Version"); got != "12.9.0.167" {
		t.Fatalf("LibraryAttr = %q", got)
	}
}

func TestBooleanMarkerBecomesAttributeValue(t *testing.T) {
	cat, _ := newFixtureCatalog(t)
	if got := cat.TrackAttr(mustPID(t, pidTrackA), "Loved"); got != "true" {
		t.Fatalf("Loved attr = %q, want true", got)
	}
}

func TestSmartPlaylistSectionsAreSkippedNotParsed(t *testing.T) {
	cat, _ := newFixtureCatalog(t)
	info, ok := cat.FindPlaylistByName("90s")
	if !ok {
		t.Fatal("smart playlist missing from catalog")
	}
	if info.Tracks != 1 {
		t.Fatalf("smart playlist tracks = %d, want 1", info.Tracks)
	}
}

func TestFindTracksByAlbumIsCaseAndWhitespaceInsensitive(t *testing.T) {
	cat, _ := newFixtureCatalog(t)
	got := cat.FindTracksByAlbum("Abbey Road", "The Beatles")
	want := []catalog.PersistentID{mustPID(t, pidTrackA), mustPID(t, pidTrackB)}
	if len(got) != len(want) {
		t.Fatalf("FindTracksByAlbum = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("FindTracksByAlbum[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFindTracksByArtist(t *testing.T) {
	cat, _ := newFixtureCatalog(t)
	got := cat.FindTracksByArtist("  THE BEATLES ")
	if len(got) != 3 {
		t.Fatalf("FindTracksByArtist = %v, want all three tracks", got)
	}
}

func TestFindTracksByPlaylistPreservesStoredOrder(t *testing.T) {
	cat, _ := newFixtureCatalog(t)

	rock := cat.FindTracksByPlaylist(mustPID(t, pidRock))
	want := []catalog.PersistentID{mustPID(t, pidTrackA), mustPID(t, pidTrackB)}
	if len(rock) != 2 || rock[0] != want[0] || rock[1] != want[1] {
		t.Fatalf("Rock playlist = %v, want %v", rock, want)
	}

	library := cat.FindTracksByPlaylist(mustPID(t, pidLibrary))
	if len(library) != 3 {
		t.Fatalf("Library playlist = %v, want all three tracks", library)
	}
}

type extSet map[string]bool

func (s extSet) IsAudio(ext string) bool { return s[ext] }

func TestFindExtensionsByPlaylistDelegatesClassification(t *testing.T) {
	cat, _ := newFixtureCatalog(t)
	classifier := extSet{".mp3": true, ".m4a": true}

	got := cat.FindExtensionsByPlaylist(mustPID(t, pidLibrary), classifier)
	want := []string{".mp3", ".m4a"}
	if len(got) != len(want) {
		t.Fatalf("extensions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("extensions[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFindPlaylistName(t *testing.T) {
	cat, _ := newFixtureCatalog(t)
	if got := cat.FindPlaylistName(mustPID(t, pidRock)); got != "Rock" {
		t.Fatalf("FindPlaylistName = %q", got)
	}
	if got := cat.FindPlaylistName(mustPID(t, "00000000000F00FF")); got != "" {
		t.Fatalf("unknown playlist name = %q, want empty", got)
	}
}

func TestGetPersistentIDByLocationNormalizesPaths(t *testing.T) {
	cat, _ := newFixtureCatalog(t)
	got := cat.GetPersistentIDByLocation("c:/music/beatles/something.M4A")
	if got != mustPID(t, pidTrackB) {
		t.Fatalf("GetPersistentIDByLocation = %v", got)
	}
}

func TestTrackTypedView(t *testing.T) {
	cat, _ := newFixtureCatalog(t)
	info, ok := cat.Track(mustPID(t, pidTrackB))
	if !ok {
		t.Fatal("Track not found")
	}
	if info.BitRate != 320 || info.TotalTime != 182000 || info.Name != "Something" {
		t.Fatalf("unexpected track info: %+v", info)
	}
}

func TestNotReadyCatalogAnswersEmpty(t *testing.T) {
	cat := catalog.New(filepath.Join(t.TempDir(), "missing.xml"), logging.NewNop())
	if err := cat.Initialize(context.Background()); err == nil {
		t.Fatal("expected Initialize failure for missing document")
	}
	if cat.Ready() {
		t.Fatal("catalog must not be ready after failed Initialize")
	}
	if got := cat.FindTracksByArtist("anyone"); got != nil {
		t.Fatalf("query on not-ready catalog = %v, want nil", got)
	}
	if got := cat.DeleteFile("/nowhere.mp3"); !got.IsZero() {
		t.Fatalf("mutation on not-ready catalog = %v, want zero", got)
	}
}

func TestInitializeRejectsMalformedDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Library.xml")
	if err := os.WriteFile(path, []byte("<plist><dict><integer>7</integer></dict></plist>"), 0o644); err != nil {
		t.Fatalf("write document: %v", err)
	}
	cat := catalog.New(path, logging.NewNop())
	if err := cat.Initialize(context.Background()); err == nil {
		t.Fatal("expected parse failure")
	}
	if cat.Ready() {
		t.Fatal("catalog exposed a partial tree after parse failure")
	}
}

func TestParseDeterministicShortCodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Library.xml")
	testsupport.WriteLibraryDocument(t, path, fixtureLibrary())

	first := catalog.New(path, logging.NewNop())
	second := catalog.New(path, logging.NewNop())
	if err := first.Initialize(context.Background()); err != nil {
		t.Fatalf("first Initialize: %v", err)
	}
	if err := second.Initialize(context.Background()); err != nil {
		t.Fatalf("second Initialize: %v", err)
	}

	pid := mustPID(t, pidTrackA)
	for _, attr := range []string{"Name", "Artist", "Album", "Bit Rate", "Total Time", "Loved"} {
		if first.TrackAttr(pid, attr) != second.TrackAttr(pid, attr) {
			t.Fatalf("attribute %q resolved differently across identical parses", attr)
		}
	}
}
