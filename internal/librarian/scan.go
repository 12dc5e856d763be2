package librarian

import (
	"context"
	"fmt"

	"orpheus/internal/archive"
	"orpheus/internal/bridge"
	"orpheus/internal/catalog"
	"orpheus/internal/dedupe"
)

// Report summarizes one reconciliation run.
type Report struct {
	ScanID     string
	Scope      string
	Subject    string
	Simulate   bool
	Candidates []*dedupe.Track
	Duplicates []dedupe.Demoted
	Archived   int
	Removed    int
}

// ScanAlbum reconciles the tracks of one album by one artist.
func (l *Librarian) ScanAlbum(ctx context.Context, album, artist string) (*Report, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ids := l.catalog.FindTracksByAlbum(album, artist)
	return l.scan(ctx, "album", album, ids)
}

// ScanArtist reconciles every track by one artist.
func (l *Librarian) ScanArtist(ctx context.Context, artist string) (*Report, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ids := l.catalog.FindTracksByArtist(artist)
	return l.scan(ctx, "artist", artist, ids)
}

// ScanPlaylist reconciles a playlist's tracks, refreshing the playlist from
// the document first when the document has been rewritten since load.
func (l *Librarian) ScanPlaylist(ctx context.Context, name string) (*Report, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	playlist, ok := l.catalog.FindPlaylistByName(name)
	if !ok {
		return nil, fmt.Errorf("scan playlist %q: %w", name, ErrUnknownPlaylist)
	}
	if _, err := l.catalog.RefreshPlaylist(ctx, playlist.PersistentID); err != nil {
		return nil, fmt.Errorf("refresh playlist %q: %w", name, err)
	}
	ids := l.catalog.FindTracksByPlaylist(playlist.PersistentID)
	return l.scan(ctx, "playlist", name, ids)
}

func (l *Librarian) scan(ctx context.Context, scope, subject string, ids []catalog.PersistentID) (*Report, error) {
	simulate := l.cfg.Scanner.Simulate
	scanRec, err := l.store.BeginScan(ctx, scope, subject, simulate)
	if err != nil {
		return nil, fmt.Errorf("begin scan: %w", err)
	}
	l.logger.Info("scan started",
		"scan_id", scanRec.ID, "scope", scope, "subject", subject,
		"tracks", len(ids), "simulate", simulate)

	mode := dedupe.ModeLive
	if simulate {
		mode = dedupe.ModeSimulate
	}
	engine, err := dedupe.New(dedupe.Options{
		Accessor: l.fetchTrack,
		Resolver: l.tags,
		Commit:   l.commitEdit,
		Mode:     mode,
		Logger:   l.logger,
	})
	if err != nil {
		return nil, err
	}

	result, runErr := engine.Run(ctx, ids)

	archiver := archive.NewArchiver(l.store, l.cfg.Paths.ArchiveDir, simulate, l.logger)
	report := &Report{
		ScanID:     scanRec.ID,
		Scope:      scope,
		Subject:    subject,
		Simulate:   simulate,
		Candidates: result.Candidates,
		Duplicates: result.Duplicates,
	}
	report.Archived = archiver.ArchiveAll(ctx, scanRec.ID, result.Duplicates)

	if !simulate {
		for _, demoted := range result.Duplicates {
			if l.catalog.RemoveTrack(demoted.Track.PersistentID) {
				report.Removed++
			}
		}
	}

	if err := l.store.FinishScan(ctx, scanRec.ID, len(result.Candidates), len(result.Duplicates)); err != nil {
		l.logger.Warn("scan not finalized", "scan_id", scanRec.ID, "error", err)
	}
	l.logger.Info("scan finished",
		"scan_id", scanRec.ID,
		"candidates", len(result.Candidates),
		"duplicates", len(result.Duplicates),
		"archived", report.Archived,
		"removed", report.Removed)
	return report, runErr
}

// fetchTrack prefers the live bridge for comparison data because lyric and
// artwork presence never reach the library document; the catalog record is
// the fallback.
func (l *Librarian) fetchTrack(ctx context.Context, id catalog.PersistentID) (*dedupe.Track, error) {
	if l.tracks != nil {
		live, err := l.tracks.Track(ctx, id)
		if err == nil && live != nil {
			return liveTrack(live), nil
		}
		if err != nil {
			l.logger.Debug("live track fetch failed, using catalog", "persistent_id", id.String(), "error", err)
		}
	}
	info, ok := l.catalog.Track(id)
	if !ok {
		return nil, fmt.Errorf("track %s not in catalog", id)
	}
	return &dedupe.Track{
		PersistentID: id,
		Artist:       info.Artist,
		Title:        info.Name,
		Album:        info.Album,
		DurationMS:   info.TotalTime,
		BitRate:      info.BitRate,
		Rating:       info.Rating,
		PlayCount:    info.PlayCount,
		Location:     info.Location,
	}, nil
}

func liveTrack(t *bridge.Track) *dedupe.Track {
	return &dedupe.Track{
		PersistentID: t.PersistentID,
		Artist:       t.Artist,
		Title:        t.Title,
		Album:        t.Album,
		DurationMS:   t.DurationMS,
		BitRate:      t.BitRate,
		HasLyrics:    t.HasLyrics,
		HasArtwork:   t.HasArtwork,
		Rating:       t.Rating,
		PlayCount:    t.PlayCount,
		Location:     t.Location,
	}
}

// commitEdit pushes a staged tag edit to the live player when a writer is
// wired, and always mirrors it into the catalog record.
func (l *Librarian) commitEdit(ctx context.Context, edit dedupe.StagedEdit) error {
	if l.writer != nil {
		pairs := []struct{ attr, value string }{
			{bridge.SetArtist, edit.Artist},
			{bridge.SetTitle, edit.Title},
			{bridge.SetAlbum, edit.Album},
		}
		for _, pair := range pairs {
			if pair.value == "" {
				continue
			}
			if err := l.writer.SetTrackAttr(ctx, edit.Track, pair.attr, pair.value); err != nil {
				return fmt.Errorf("set %s: %w", pair.attr, err)
			}
		}
	}

	info, ok := l.catalog.Track(edit.Track)
	if !ok {
		return nil
	}
	if edit.Artist != "" {
		info.Artist = edit.Artist
	}
	if edit.Title != "" {
		info.Name = edit.Title
	}
	if edit.Album != "" {
		info.Album = edit.Album
	}
	l.catalog.AddTrack(info)
	return nil
}
