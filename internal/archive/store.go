package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"orpheus/internal/config"
)

// Store manages the archive journal backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database and applies
// migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.JournalPath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the journal database location.
func (s *Store) Path() string {
	return s.path
}

// BeginScan records the start of a reconciliation run and returns its record,
// keyed by a fresh correlation ID.
func (s *Store) BeginScan(ctx context.Context, scope, subject string, simulate bool) (*ScanRecord, error) {
	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339Nano)

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO scans (id, scope, subject, simulate, started_at) VALUES (?, ?, ?, ?, ?)`,
		id, scope, subject, boolInt(simulate), now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert scan: %w", err)
	}
	return s.GetScan(ctx, id)
}

// FinishScan closes a scan record with its partition counts.
func (s *Store) FinishScan(ctx context.Context, id string, candidates, duplicates int) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE scans SET finished_at = ?, candidates = ?, duplicates = ? WHERE id = ?`,
		now, candidates, duplicates, id,
	)
	if err != nil {
		return fmt.Errorf("finish scan: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish scan rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("finish scan: %w: %s", ErrUnknownScan, id)
	}
	return nil
}

// GetScan fetches one scan by correlation ID.
func (s *Store) GetScan(ctx context.Context, id string) (*ScanRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+scanColumns+` FROM scans WHERE id = ?`, id)
	rec, err := scanScan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get scan: %w: %s", ErrUnknownScan, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get scan: %w", err)
	}
	return rec, nil
}

// ListScans returns the most recent scans, newest first.
func (s *Store) ListScans(ctx context.Context, limit int) ([]*ScanRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+scanColumns+` FROM scans ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list scans: %w", err)
	}
	defer rows.Close()

	var out []*ScanRecord
	for rows.Next() {
		rec, err := scanScan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// RecordRemoval journals one demoted track within a scan.
func (s *Store) RecordRemoval(ctx context.Context, rec RemovalRecord) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO removals (scan_id, persistent_id, source_path, archive_path, disposition, simulated, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ScanID,
		rec.PersistentID,
		rec.SourcePath,
		nullableString(rec.ArchivePath),
		rec.Disposition,
		boolInt(rec.Simulated),
		now,
	)
	if err != nil {
		return fmt.Errorf("insert removal: %w", err)
	}
	return nil
}

// ListRemovals returns the removals journaled under one scan, oldest first.
func (s *Store) ListRemovals(ctx context.Context, scanID string) ([]*RemovalRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+removalColumns+` FROM removals WHERE scan_id = ? ORDER BY id`, scanID)
	if err != nil {
		return nil, fmt.Errorf("list removals: %w", err)
	}
	defer rows.Close()

	var out []*RemovalRecord
	for rows.Next() {
		rec, err := scanRemoval(rows)
		if err != nil {
			return nil, fmt.Errorf("removal row: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
