package archive

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"orpheus/internal/dedupe"
	"orpheus/internal/fileutil"
	"orpheus/internal/logging"
	"orpheus/internal/textutil"
)

// Archiver moves demoted files into the archive directory and journals every
// decision. In simulate mode nothing on disk changes; the journal still
// records what would have happened, flagged as simulated.
type Archiver struct {
	store    *Store
	dir      string
	simulate bool
	logger   *slog.Logger
}

// NewArchiver builds an archiver writing files under dir and rows into store.
func NewArchiver(store *Store, dir string, simulate bool, logger *slog.Logger) *Archiver {
	return &Archiver{
		store:    store,
		dir:      dir,
		simulate: simulate,
		logger:   logging.WithComponent(logger, "archive"),
	}
}

// Archive handles one demoted track: catalog-only demotions are journaled
// without touching the file, archive demotions move it into the archive
// directory under a collision-free name. The archive path is returned for
// archive demotions, empty otherwise.
func (a *Archiver) Archive(ctx context.Context, scanID string, demoted dedupe.Demoted) (string, error) {
	source := textutil.LocalPath(demoted.Track.Location)
	rec := RemovalRecord{
		ScanID:       scanID,
		PersistentID: demoted.Track.PersistentID.String(),
		SourcePath:   source,
		Disposition:  demoted.Disposition.String(),
		Simulated:    a.simulate,
	}

	if demoted.Disposition == dedupe.ArchiveAndRemove && source != "" {
		dest := fileutil.UniquePath(filepath.Join(a.dir, filepath.Base(source)))
		rec.ArchivePath = dest
		if a.simulate {
			a.logger.Info("simulate: would archive file", "source", source, "dest", dest)
		} else {
			if err := fileutil.MoveFile(source, dest); err != nil {
				return "", fmt.Errorf("archive %s: %w", source, err)
			}
			a.logger.Info("file archived", "source", source, "dest", dest)
		}
	}

	if err := a.store.RecordRemoval(ctx, rec); err != nil {
		return "", err
	}
	return rec.ArchivePath, nil
}

// ArchiveAll processes a full partition's duplicates. A failure on one file
// is logged and skipped so the rest of the run still lands; the count of
// successfully journaled removals is returned.
func (a *Archiver) ArchiveAll(ctx context.Context, scanID string, duplicates []dedupe.Demoted) int {
	archived := 0
	for _, demoted := range duplicates {
		if _, err := a.Archive(ctx, scanID, demoted); err != nil {
			a.logger.Warn("archive failed",
				"persistent_id", demoted.Track.PersistentID.String(),
				"location", demoted.Track.Location,
				"error", err)
			continue
		}
		archived++
	}
	return archived
}
