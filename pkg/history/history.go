// Package history keeps a SQLite ledger of install runs below the launcher root.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pablof036/liblauncher/pkg/fsutil"
)

// Run outcomes.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// DefaultLimit is the number of runs List returns when limit is not positive.
const DefaultLimit = 20

// ErrNotFound is returned when no run matches a query.
var ErrNotFound = errors.New("no install run found")

// Run is one install attempt of a version.
type Run struct {
	ID         string
	VersionID  string
	Platform   string
	StartedAt  time.Time
	FinishedAt time.Time
	Status     string
	Error      string
	Bytes      int64
	Files      int
}

// Duration returns the wall time of the run.
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Store persists runs in a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if err := fsutil.EnsureFileDir(path); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS install_runs (
			id TEXT PRIMARY KEY,
			version_id TEXT NOT NULL,
			platform TEXT NOT NULL,
			started_at INTEGER NOT NULL,
			finished_at INTEGER NOT NULL,
			status TEXT NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			bytes INTEGER NOT NULL DEFAULT 0,
			files INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_install_runs_version ON install_runs(version_id, finished_at)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// Record stores a finished run. Recording the same ID twice replaces the earlier row.
func (s *Store) Record(ctx context.Context, r Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO install_runs (
			id, version_id, platform, started_at, finished_at, status, error, bytes, files
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.VersionID, r.Platform,
		r.StartedAt.UnixMilli(), r.FinishedAt.UnixMilli(),
		r.Status, r.Error, r.Bytes, r.Files,
	)
	if err != nil {
		return fmt.Errorf("failed to record run %s: %w", r.ID, err)
	}
	return nil
}

const selectRuns = `SELECT id, version_id, platform, started_at, finished_at, status, error, bytes, files FROM install_runs`

// List returns the most recent runs first.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := s.db.QueryContext(ctx, selectRuns+` ORDER BY finished_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LastSuccess returns the newest successful run of versionID.
func (s *Store) LastSuccess(ctx context.Context, versionID string) (Run, error) {
	row := s.db.QueryRowContext(ctx,
		selectRuns+` WHERE version_id = ? AND status = ? ORDER BY finished_at DESC LIMIT 1`,
		versionID, StatusSucceeded)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, versionID)
	}
	return r, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		r                 Run
		started, finished int64
	)
	err := sc.Scan(&r.ID, &r.VersionID, &r.Platform, &started, &finished, &r.Status, &r.Error, &r.Bytes, &r.Files)
	if err != nil {
		return Run{}, err
	}
	r.StartedAt = time.UnixMilli(started)
	r.FinishedAt = time.UnixMilli(finished)
	return r, nil
}
