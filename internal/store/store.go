// Package store persists transcription run history in SQLite. The history is
// an audit trail: which sources were processed, which variant won, and what
// every failed attempt said.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"cuecraft/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; old databases must be deleted after a bump.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// ErrRunNotFound indicates no run exists with the requested id.
var ErrRunNotFound = errors.New("run not found")

// Store manages run persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Open initializes or connects to the run database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.DatabasePath()
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
	if err := store.initSchema(context.Background()); err != nil {
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

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}

const timeFormat = time.RFC3339Nano

// CreateRun records a new pending run and returns it.
func (s *Store) CreateRun(ctx context.Context, sourcePath string) (*Run, error) {
	now := time.Now().UTC()
	run := &Run{
		ID:         uuid.NewString(),
		SourcePath: sourcePath,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err := s.execWithRetry(ctx,
		`INSERT INTO runs (id, source_path, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.SourcePath, string(run.Status), now.Format(timeFormat), now.Format(timeFormat))
	if err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}
	return run, nil
}

// UpdateRun writes the mutable fields of a run back to the database.
func (s *Store) UpdateRun(ctx context.Context, run *Run) error {
	run.UpdatedAt = time.Now().UTC()
	err := s.execWithRetry(ctx,
		`UPDATE runs SET status = ?, variant = ?, segment_count = ?, duration_seconds = ?,
		        duration_estimated = ?, error_message = ?, updated_at = ?
		 WHERE id = ?`,
		string(run.Status), run.Variant, run.SegmentCount, run.DurationSeconds,
		boolToInt(run.DurationEstimated), run.ErrorMessage, run.UpdatedAt.Format(timeFormat), run.ID)
	if err != nil {
		return fmt.Errorf("update run %s: %w", run.ID, err)
	}
	return nil
}

// RecordAttempt appends one source attempt to a run's audit trail.
func (s *Store) RecordAttempt(ctx context.Context, runID, variant string, attempt int, outcome, detail string) error {
	err := s.execWithRetry(ctx,
		`INSERT INTO run_attempts (run_id, variant, attempt, outcome, detail, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, variant, attempt, outcome, detail, time.Now().UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("record attempt for run %s: %w", runID, err)
	}
	return nil
}

const runColumns = `id, source_path, status, variant, segment_count, duration_seconds,
       duration_estimated, error_message, created_at, updated_at`

// GetRun loads a single run by id.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns runs newest first, up to limit. A limit <= 0 returns all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	ctx = ensureContext(ctx)
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// ListAttempts returns a run's attempts in the order they happened.
func (s *Store) ListAttempts(ctx context.Context, runID string) ([]*Attempt, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, variant, attempt, outcome, detail, created_at
		 FROM run_attempts WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list attempts for run %s: %w", runID, err)
	}
	defer rows.Close()

	var attempts []*Attempt
	for rows.Next() {
		var (
			a         Attempt
			createdAt string
		)
		if err := rows.Scan(&a.ID, &a.RunID, &a.Variant, &a.Attempt, &a.Outcome, &a.Detail, &createdAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		a.CreatedAt, _ = time.Parse(timeFormat, createdAt)
		attempts = append(attempts, &a)
	}
	return attempts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run                  Run
		status               string
		estimated            int
		createdAt, updatedAt string
	)
	if err := row.Scan(&run.ID, &run.SourcePath, &status, &run.Variant, &run.SegmentCount,
		&run.DurationSeconds, &estimated, &run.ErrorMessage, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	run.Status = RunStatus(status)
	run.DurationEstimated = estimated != 0
	run.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	run.UpdatedAt, _ = time.Parse(timeFormat, updatedAt)
	return &run, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
