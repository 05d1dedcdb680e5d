package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/fitfeed/internal/activity"
	"github.com/claude/fitfeed/internal/models"
)

var _ activity.Log = (*DB)(nil)

// Record stores a completion and returns it with its id assigned.
func (db *DB) Record(ctx context.Context, c models.Completion) (models.Completion, error) {
	c, err := activity.Prepare(c)
	if err != nil {
		return c, err
	}

	err = db.Pool.QueryRow(ctx,
		`INSERT INTO completions (workout_id, title, minutes, completed_at)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		c.WorkoutID, c.Title, c.Minutes, c.CompletedAt).Scan(&c.ID)
	if err != nil {
		return c, fmt.Errorf("inserting completion: %w", err)
	}
	return c, nil
}

// CompletionsSince returns completions at or after since, newest first.
func (db *DB) CompletionsSince(ctx context.Context, since time.Time) ([]models.Completion, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, workout_id, title, minutes, completed_at
		 FROM completions
		 WHERE completed_at >= $1
		 ORDER BY completed_at DESC, id DESC`, since)
	if err != nil {
		return nil, fmt.Errorf("querying completions: %w", err)
	}
	defer rows.Close()

	var result []models.Completion
	for rows.Next() {
		var c models.Completion
		if err := rows.Scan(&c.ID, &c.WorkoutID, &c.Title, &c.Minutes, &c.CompletedAt); err != nil {
			return nil, fmt.Errorf("scanning completion: %w", err)
		}
		c.CompletedAt = c.CompletedAt.UTC()
		result = append(result, c)
	}
	return result, rows.Err()
}
