// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger persists batch run history in a SQLite database so
// past conversions can be inspected after the fact. The ledger is
// purely informational: resumability is decided by output-file
// presence, never by ledger contents.
package ledger

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/markbatch/pkg/types"
)

const (
	ledgerDir = ".markbatch"
	dbFile    = "history.db"
)

// Store manages the run-history SQLite database.
type Store struct {
	db *sql.DB
}

// Run is one recorded batch invocation.
type Run struct {
	ID         int64
	StartedAt  time.Time
	FinishedAt time.Time
	InputDir   string
	OutputDir  string
	Format     types.InputFormat
	Converted  int
	Skipped    int
	Failed     int
}

// Total returns the number of jobs the run processed.
func (r Run) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// DefaultPath returns the ledger location used when none is configured:
// a dot-directory inside the output directory.
func DefaultPath(outputDir string) string {
	return filepath.Join(outputDir, ledgerDir, dbFile)
}

// Open opens or creates the ledger database at path, creating the
// schema and parent directories as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening ledger database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			input_dir TEXT NOT NULL,
			output_dir TEXT NOT NULL,
			format TEXT NOT NULL,
			converted INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			failed INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS jobs (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			file TEXT NOT NULL,
			status TEXT NOT NULL,
			message TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_run_id ON jobs(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordRun stores a finished batch with its per-job outcomes and
// returns the new run ID.
func (s *Store) RecordRun(run Run, results []types.JobResult) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO runs (started_at, finished_at, input_dir, output_dir, format, converted, skipped, failed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.UTC().Format(time.RFC3339),
		run.FinishedAt.UTC().Format(time.RFC3339),
		run.InputDir, run.OutputDir, string(run.Format),
		run.Converted, run.Skipped, run.Failed,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	for _, jr := range results {
		if _, err := tx.Exec(
			`INSERT INTO jobs (run_id, file, status, message) VALUES (?, ?, ?, ?)`,
			id, jr.File, string(jr.Status), jr.Message,
		); err != nil {
			return 0, fmt.Errorf("inserting job record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return id, nil
}

// RecentRuns returns up to limit runs, most recent first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, started_at, finished_at, input_dir, output_dir, format, converted, skipped, failed
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished string
		if err := rows.Scan(&r.ID, &started, &finished, &r.InputDir, &r.OutputDir,
			(*string)(&r.Format), &r.Converted, &r.Skipped, &r.Failed); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339, started)
		r.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunJobs returns the per-job outcomes recorded for a run.
func (s *Store) RunJobs(runID int64) ([]types.JobResult, error) {
	rows, err := s.db.Query(
		`SELECT file, status, message FROM jobs WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying jobs: %w", err)
	}
	defer rows.Close()

	var results []types.JobResult
	for rows.Next() {
		var jr types.JobResult
		if err := rows.Scan(&jr.File, (*string)(&jr.Status), &jr.Message); err != nil {
			return nil, fmt.Errorf("scanning job record: %w", err)
		}
		results = append(results, jr)
	}
	return results, rows.Err()
}
