package archive

import (
	"database/sql"
	"time"
)

// ScanRecord is one journaled reconciliation run.
type ScanRecord struct {
	ID         string
	Scope      string
	Subject    string
	Simulate   bool
	StartedAt  time.Time
	FinishedAt time.Time
	Candidates int
	Duplicates int
}

// Finished reports whether the run recorded a completion time.
func (r *ScanRecord) Finished() bool {
	return !r.FinishedAt.IsZero()
}

// RemovalRecord is one journaled demotion: where the loser's file was and
// where it went, if anywhere.
type RemovalRecord struct {
	ID           int64
	ScanID       string
	PersistentID string
	SourcePath   string
	ArchivePath  string
	Disposition  string
	Simulated    bool
	CreatedAt    time.Time
}

const scanColumns = `id, scope, subject, simulate, started_at, finished_at, candidates, duplicates`

const removalColumns = `id, scan_id, persistent_id, source_path, archive_path, disposition, simulated, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScan(row rowScanner) (*ScanRecord, error) {
	var (
		rec        ScanRecord
		simulate   int
		startedAt  string
		finishedAt sql.NullString
	)
	if err := row.Scan(&rec.ID, &rec.Scope, &rec.Subject, &simulate,
		&startedAt, &finishedAt, &rec.Candidates, &rec.Duplicates); err != nil {
		return nil, err
	}
	rec.Simulate = simulate != 0
	rec.StartedAt = parseTime(startedAt)
	if finishedAt.Valid {
		rec.FinishedAt = parseTime(finishedAt.String)
	}
	return &rec, nil
}

func scanRemoval(row rowScanner) (*RemovalRecord, error) {
	var (
		rec         RemovalRecord
		archivePath sql.NullString
		simulated   int
		createdAt   string
	)
	if err := row.Scan(&rec.ID, &rec.ScanID, &rec.PersistentID, &rec.SourcePath,
		&archivePath, &rec.Disposition, &simulated, &createdAt); err != nil {
		return nil, err
	}
	if archivePath.Valid {
		rec.ArchivePath = archivePath.String
	}
	rec.Simulated = simulated != 0
	rec.CreatedAt = parseTime(createdAt)
	return &rec, nil
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
