package archive_test

import (
	"context"
	"errors"
	"testing"

	"orpheus/internal/archive"
	"orpheus/internal/testsupport"
)

func TestScanLifecycle(t *testing.T) {
	store := testsupport.OpenJournal(t, testsupport.NewConfig(t))
	ctx := context.Background()

	scan, err := store.BeginScan(ctx, "album", "Abbey Road", false)
	if err != nil {
		t.Fatalf("BeginScan: %v", err)
	}
	if scan.ID == "" {
		t.Fatal("scan ID is empty")
	}
	if scan.Finished() {
		t.Fatal("fresh scan reported finished")
	}

	if err := store.FinishScan(ctx, scan.ID, 5, 2); err != nil {
		t.Fatalf("FinishScan: %v", err)
	}

	got, err := store.GetScan(ctx, scan.ID)
	if err != nil {
		t.Fatalf("GetScan: %v", err)
	}
	if !got.Finished() || got.Candidates != 5 || got.Duplicates != 2 {
		t.Fatalf("scan = %+v", got)
	}
	if got.Scope != "album" || got.Subject != "Abbey Road" {
		t.Fatalf("scan = %+v", got)
	}
}

func TestFinishUnknownScan(t *testing.T) {
	store := testsupport.OpenJournal(t, testsupport.NewConfig(t))

	err := store.FinishScan(context.Background(), "no-such-scan", 0, 0)
	if !errors.Is(err, archive.ErrUnknownScan) {
		t.Fatalf("err = %v, want ErrUnknownScan", err)
	}
}

func TestRemovalJournal(t *testing.T) {
	store := testsupport.OpenJournal(t, testsupport.NewConfig(t))
	ctx := context.Background()

	scan, err := store.BeginScan(ctx, "playlist", "Rock", true)
	if err != nil {
		t.Fatalf("BeginScan: %v", err)
	}

	records := []archive.RemovalRecord{
		{ScanID: scan.ID, PersistentID: "0000000000000A01", SourcePath: "/music/a.mp3", ArchivePath: "/archive/a.mp3", Disposition: "archive", Simulated: true},
		{ScanID: scan.ID, PersistentID: "0000000000000B02", SourcePath: "/music/b.mp3", Disposition: "catalog-only", Simulated: true},
	}
	for _, rec := range records {
		if err := store.RecordRemoval(ctx, rec); err != nil {
			t.Fatalf("RecordRemoval: %v", err)
		}
	}

	got, err := store.ListRemovals(ctx, scan.ID)
	if err != nil {
		t.Fatalf("ListRemovals: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("removals = %+v", got)
	}
	if got[0].PersistentID != "0000000000000A01" || got[0].ArchivePath != "/archive/a.mp3" {
		t.Fatalf("first removal = %+v", got[0])
	}
	if got[1].Disposition != "catalog-only" || got[1].ArchivePath != "" {
		t.Fatalf("second removal = %+v", got[1])
	}
	if !got[0].Simulated {
		t.Fatal("simulated flag lost")
	}
}

func TestReopenKeepsSchemaAndData(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx := context.Background()

	first, err := archive.Open(cfg)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	scan, err := first.BeginScan(ctx, "artist", "Low", false)
	if err != nil {
		t.Fatalf("BeginScan: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close journal: %v", err)
	}

	// Opening an already-migrated journal must not re-run migrations
	// or disturb existing rows.
	second := testsupport.OpenJournal(t, cfg)
	got, err := second.GetScan(ctx, scan.ID)
	if err != nil {
		t.Fatalf("GetScan after reopen: %v", err)
	}
	if got.Subject != "Low" {
		t.Fatalf("scan = %+v", got)
	}
}

func TestListScansNewestFirst(t *testing.T) {
	store := testsupport.OpenJournal(t, testsupport.NewConfig(t))
	ctx := context.Background()

	first, err := store.BeginScan(ctx, "album", "One", false)
	if err != nil {
		t.Fatal(err)
	}
	second, err := store.BeginScan(ctx, "album", "Two", false)
	if err != nil {
		t.Fatal(err)
	}

	scans, err := store.ListScans(ctx, 10)
	if err != nil {
		t.Fatalf("ListScans: %v", err)
	}
	if len(scans) != 2 {
		t.Fatalf("scans = %+v", scans)
	}
	if scans[0].ID != second.ID || scans[1].ID != first.ID {
		t.Fatalf("order = [%s %s], want newest first", scans[0].ID, scans[1].ID)
	}
}
