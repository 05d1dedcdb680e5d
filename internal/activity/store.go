// Package activity records finished workout sessions and derives the
// streak and weekly progress shown on the home screen.
package activity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/claude/fitfeed/internal/models"
	_ "modernc.org/sqlite"
)

// ErrInvalidCompletion is returned when a completion has no workout or no minutes.
var ErrInvalidCompletion = errors.New("invalid completion")

// Log stores completions. Implemented by Store (SQLite) and storage.DB (Postgres).
type Log interface {
	Record(ctx context.Context, c models.Completion) (models.Completion, error)
	CompletionsSince(ctx context.Context, since time.Time) ([]models.Completion, error)
}

var _ Log = (*Store)(nil)

// Store is a Log backed by a local SQLite file.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the activity database at dir/activity.db.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating activity dir %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "activity.db"))
	if err != nil {
		return nil, fmt.Errorf("opening activity db: %w", err)
	}
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS completions (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		workout_id   INTEGER NOT NULL,
		title        TEXT NOT NULL DEFAULT '',
		minutes      INTEGER NOT NULL CHECK (minutes > 0),
		completed_at INTEGER NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating completions table: %w", err)
	}
	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS completions_completed_at ON completions (completed_at)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating completions index: %w", err)
	}

	return &Store{db: db}, nil
}

// Prepare validates c and fills in defaults. Log implementations call it
// before writing.
func Prepare(c models.Completion) (models.Completion, error) {
	if c.WorkoutID <= 0 {
		return c, fmt.Errorf("%w: workout_id must be positive", ErrInvalidCompletion)
	}
	if c.Minutes <= 0 {
		return c, fmt.Errorf("%w: minutes must be positive", ErrInvalidCompletion)
	}
	if c.CompletedAt.IsZero() {
		c.CompletedAt = time.Now().UTC()
	}
	return c, nil
}

// Record stores a completion and returns it with its id assigned.
func (s *Store) Record(ctx context.Context, c models.Completion) (models.Completion, error) {
	c, err := Prepare(c)
	if err != nil {
		return c, err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO completions (workout_id, title, minutes, completed_at) VALUES (?, ?, ?, ?)`,
		c.WorkoutID, c.Title, c.Minutes, c.CompletedAt.UnixMilli(),
	)
	if err != nil {
		return c, fmt.Errorf("inserting completion: %w", err)
	}
	if c.ID, err = res.LastInsertId(); err != nil {
		return c, fmt.Errorf("reading completion id: %w", err)
	}
	return c, nil
}

// CompletionsSince returns completions at or after since, newest first.
func (s *Store) CompletionsSince(ctx context.Context, since time.Time) ([]models.Completion, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, workout_id, title, minutes, completed_at FROM completions
		 WHERE completed_at >= ? ORDER BY completed_at DESC, id DESC`,
		since.UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("querying completions: %w", err)
	}
	defer rows.Close()

	var out []models.Completion
	for rows.Next() {
		var c models.Completion
		var ms int64
		if err := rows.Scan(&c.ID, &c.WorkoutID, &c.Title, &c.Minutes, &ms); err != nil {
			return nil, fmt.Errorf("scanning completion: %w", err)
		}
		c.CompletedAt = time.UnixMilli(ms).UTC()
		out = append(out, c)
	}
	return out, rows.Err()
}

// Close closes the activity database.
func (s *Store) Close() error {
	return s.db.Close()
}
