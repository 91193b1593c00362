package runlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one recorded job run.
type Entry struct {
	RunID          string
	Stem           string
	StartedAt      time.Time
	DurationMS     int64
	MatchedLines   int
	UnmatchedLines int
	RetakesDropped int
	Warnings       int
	Aggressiveness int
	Fingerprint    string
	OutputDir      string
	Status         string
}

// Run status values.
const (
	StatusCompleted = "completed"
	StatusWarnings  = "completed_with_warnings"
	StatusFailed    = "failed"
)

// Store wraps the SQLite run history.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    run_id          TEXT PRIMARY KEY,
    stem            TEXT NOT NULL,
    started_at      TEXT NOT NULL,
    duration_ms     INTEGER NOT NULL DEFAULT 0,
    matched_lines   INTEGER NOT NULL DEFAULT 0,
    unmatched_lines INTEGER NOT NULL DEFAULT 0,
    retakes_dropped INTEGER NOT NULL DEFAULT 0,
    warnings        INTEGER NOT NULL DEFAULT 0,
    aggressiveness  INTEGER NOT NULL DEFAULT 0,
    fingerprint     TEXT NOT NULL DEFAULT '',
    output_dir      TEXT NOT NULL DEFAULT '',
    status          TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at DESC);
CREATE INDEX IF NOT EXISTS idx_runs_stem ON runs(stem);
`

// Open creates or opens the run history at path and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("runlog path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create runlog directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open runlog: %w", err)
	}
	// Single writer at a time; concurrent batch workers record through one
	// store.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("configure runlog: %w", err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate runlog: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Record inserts one run. RunID must be unique.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	if strings.TrimSpace(entry.RunID) == "" {
		return errors.New("runlog entry needs a run id")
	}
	if entry.StartedAt.IsZero() {
		entry.StartedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO runs (run_id, stem, started_at, duration_ms, matched_lines, unmatched_lines,
                  retakes_dropped, warnings, aggressiveness, fingerprint, output_dir, status)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.RunID, entry.Stem, entry.StartedAt.UTC().Format(time.RFC3339Nano),
		entry.DurationMS, entry.MatchedLines, entry.UnmatchedLines,
		entry.RetakesDropped, entry.Warnings, entry.Aggressiveness,
		entry.Fingerprint, entry.OutputDir, entry.Status)
	if err != nil {
		return fmt.Errorf("record run %s: %w", entry.RunID, err)
	}
	return nil
}

// Recent returns the newest runs, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT run_id, stem, started_at, duration_ms, matched_lines, unmatched_lines,
       retakes_dropped, warnings, aggressiveness, fingerprint, output_dir, status
FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var startedAt string
		if err := rows.Scan(&entry.RunID, &entry.Stem, &startedAt, &entry.DurationMS,
			&entry.MatchedLines, &entry.UnmatchedLines, &entry.RetakesDropped,
			&entry.Warnings, &entry.Aggressiveness, &entry.Fingerprint,
			&entry.OutputDir, &entry.Status); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
			entry.StartedAt = parsed
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return entries, nil
}

// ForStem returns every recorded run for one stem, most recent first.
func (s *Store) ForStem(ctx context.Context, stem string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT run_id, stem, started_at, duration_ms, matched_lines, unmatched_lines,
       retakes_dropped, warnings, aggressiveness, fingerprint, output_dir, status
FROM runs WHERE stem = ? ORDER BY started_at DESC`, stem)
	if err != nil {
		return nil, fmt.Errorf("query runs for %s: %w", stem, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var startedAt string
		if err := rows.Scan(&entry.RunID, &entry.Stem, &startedAt, &entry.DurationMS,
			&entry.MatchedLines, &entry.UnmatchedLines, &entry.RetakesDropped,
			&entry.Warnings, &entry.Aggressiveness, &entry.Fingerprint,
			&entry.OutputDir, &entry.Status); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
			entry.StartedAt = parsed
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return entries, nil
}
