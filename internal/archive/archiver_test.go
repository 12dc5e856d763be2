package archive_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"orpheus/internal/archive"
	"orpheus/internal/catalog"
	"orpheus/internal/dedupe"
	"orpheus/internal/testsupport"
)

func demotedFor(id uint64, location string, disposition dedupe.Disposition) dedupe.Demoted {
	return dedupe.Demoted{
		Track:       &dedupe.Track{PersistentID: catalog.PersistentID(id), Location: location},
		Winner:      &dedupe.Track{PersistentID: catalog.PersistentID(id + 1)},
		Disposition: disposition,
	}
}

func TestArchiveMovesFileAndJournals(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.OpenJournal(t, cfg)
	ctx := context.Background()

	source := filepath.Join(t.TempDir(), "loser.mp3")
	if err := os.WriteFile(source, []byte("demoted audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	scan, err := store.BeginScan(ctx, "album", "Revolver", false)
	if err != nil {
		t.Fatal(err)
	}

	archiver := archive.NewArchiver(store, cfg.Paths.ArchiveDir, false, nil)
	dest, err := archiver.Archive(ctx, scan.ID, demotedFor(0xA01, source, dedupe.ArchiveAndRemove))
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}

	if _, err := os.Stat(source); !os.IsNotExist(err) {
		t.Fatalf("source still present: %v", err)
	}
	if got, err := os.ReadFile(dest); err != nil || string(got) != "demoted audio" {
		t.Fatalf("dest read: %q, %v", got, err)
	}

	removals, err := store.ListRemovals(ctx, scan.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(removals) != 1 || removals[0].ArchivePath != dest || removals[0].Simulated {
		t.Fatalf("removals = %+v", removals)
	}
}

func TestArchiveSimulateLeavesFileAlone(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithSimulate())
	store := testsupport.OpenJournal(t, cfg)
	ctx := context.Background()

	source := filepath.Join(t.TempDir(), "loser.mp3")
	if err := os.WriteFile(source, []byte("keep me"), 0o644); err != nil {
		t.Fatal(err)
	}

	scan, err := store.BeginScan(ctx, "album", "Revolver", true)
	if err != nil {
		t.Fatal(err)
	}

	archiver := archive.NewArchiver(store, cfg.Paths.ArchiveDir, true, nil)
	if _, err := archiver.Archive(ctx, scan.ID, demotedFor(0xA01, source, dedupe.ArchiveAndRemove)); err != nil {
		t.Fatalf("Archive: %v", err)
	}

	if _, err := os.Stat(source); err != nil {
		t.Fatalf("simulate moved the file: %v", err)
	}

	removals, err := store.ListRemovals(ctx, scan.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(removals) != 1 || !removals[0].Simulated || removals[0].ArchivePath == "" {
		t.Fatalf("removals = %+v", removals)
	}
}

func TestArchiveCatalogOnlySkipsMove(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.OpenJournal(t, cfg)
	ctx := context.Background()

	source := filepath.Join(t.TempDir(), "shared.mp3")
	if err := os.WriteFile(source, []byte("still referenced"), 0o644); err != nil {
		t.Fatal(err)
	}

	scan, err := store.BeginScan(ctx, "album", "Revolver", false)
	if err != nil {
		t.Fatal(err)
	}

	archiver := archive.NewArchiver(store, cfg.Paths.ArchiveDir, false, nil)
	dest, err := archiver.Archive(ctx, scan.ID, demotedFor(0xB02, source, dedupe.CatalogOnlyRemove))
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if dest != "" {
		t.Fatalf("dest = %q, want empty for catalog-only", dest)
	}
	if _, err := os.Stat(source); err != nil {
		t.Fatalf("catalog-only removal touched the file: %v", err)
	}
}

func TestArchiveAllSkipsFailures(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.OpenJournal(t, cfg)
	ctx := context.Background()

	good := filepath.Join(t.TempDir(), "good.mp3")
	if err := os.WriteFile(good, []byte("fine"), 0o644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(t.TempDir(), "gone.mp3")

	scan, err := store.BeginScan(ctx, "artist", "The Beatles", false)
	if err != nil {
		t.Fatal(err)
	}

	archiver := archive.NewArchiver(store, cfg.Paths.ArchiveDir, false, nil)
	archived := archiver.ArchiveAll(ctx, scan.ID, []dedupe.Demoted{
		demotedFor(0xA01, missing, dedupe.ArchiveAndRemove),
		demotedFor(0xB02, good, dedupe.ArchiveAndRemove),
	})
	if archived != 1 {
		t.Fatalf("archived = %d, want 1", archived)
	}

	removals, err := store.ListRemovals(ctx, scan.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(removals) != 1 || removals[0].PersistentID != "0000000000000B02" {
		t.Fatalf("removals = %+v", removals)
	}
}
