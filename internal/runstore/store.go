package runstore

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

// ErrRunNotFound is returned when a run id does not exist.
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

const runColumns = "id, title, transcript_path, video_path, audio_path, image_path, output_path, status, chunk_count, subcaption_count, overlay_count, error_message, created_at, updated_at, completed_at"

// Open initializes or connects to the run database at path and applies migrations.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("open run store: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure run store directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Create inserts a pending run. The caller owns id generation.
func (s *Store) Create(ctx context.Context, run Run) (*Run, error) {
	if strings.TrimSpace(run.ID) == "" {
		return nil, errors.New("create run: id required")
	}
	timestamp := nowString()
	status := run.Status
	if status == "" {
		status = StatusPending
	}

	if _, err := s.execWithRetry(ctx,
		`INSERT INTO runs (
            id, title, transcript_path, video_path, audio_path, image_path,
            output_path, status, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Title,
		run.TranscriptPath,
		run.VideoPath,
		nullableString(run.AudioPath),
		nullableString(run.ImagePath),
		run.OutputPath,
		status,
		timestamp,
		timestamp,
	); err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return s.Get(ctx, run.ID)
}

// UpdateStatus moves a run to a non-terminal status.
func (s *Store) UpdateStatus(ctx context.Context, id string, status Status) error {
	if status.Terminal() {
		return fmt.Errorf("update run %s: status %s is terminal, use Complete or Fail", id, status)
	}
	return s.update(ctx, id,
		"UPDATE runs SET status = ?, updated_at = ? WHERE id = ?",
		status, nowString(), id)
}

// RecordCounts stores the engine output counts for a run.
func (s *Store) RecordCounts(ctx context.Context, id string, counts Counts) error {
	return s.update(ctx, id,
		"UPDATE runs SET chunk_count = ?, subcaption_count = ?, overlay_count = ?, updated_at = ? WHERE id = ?",
		counts.Chunks, counts.SubCaptions, counts.Overlays, nowString(), id)
}

// Complete marks a run as completed.
func (s *Store) Complete(ctx context.Context, id string) error {
	now := nowString()
	return s.update(ctx, id,
		"UPDATE runs SET status = ?, error_message = NULL, updated_at = ?, completed_at = ? WHERE id = ?",
		StatusCompleted, now, now, id)
}

// Fail marks a run with a terminal failure status and message.
func (s *Store) Fail(ctx context.Context, id string, status Status, message string) error {
	if !status.Terminal() || status == StatusCompleted {
		status = StatusFailed
	}
	now := nowString()
	return s.update(ctx, id,
		"UPDATE runs SET status = ?, error_message = ?, updated_at = ?, completed_at = ? WHERE id = ?",
		status, nullableString(strings.TrimSpace(message)), now, now, id)
}

// Get fetches a run by id.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// List returns the most recent runs, newest first, optionally filtered by status.
func (s *Store) List(ctx context.Context, limit int, statuses ...Status) ([]*Run, error) {
	ctx = ensureContext(ctx)
	if limit <= 0 {
		limit = 50
	}
	query := "SELECT " + runColumns + " FROM runs"
	args := make([]any, 0, len(statuses)+1)
	if len(statuses) > 0 {
		query += " WHERE status IN (" + makePlaceholders(len(statuses)) + ")"
		for _, status := range statuses {
			args = append(args, status)
		}
	}
	query += " ORDER BY created_at DESC, rowid DESC LIMIT ?"
	args = append(args, limit)

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

func (s *Store) update(ctx context.Context, id, query string, args ...any) error {
	res, err := s.execWithRetry(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update run %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update run %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
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
