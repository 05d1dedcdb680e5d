package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/claude/fitfeed/internal/models"
	"github.com/claude/fitfeed/internal/workouts"
	"github.com/jackc/pgx/v5"
)

var _ workouts.Provider = (*DB)(nil)

// GetWorkouts returns the catalog in display order.
func (db *DB) GetWorkouts(ctx context.Context) ([]models.Workout, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, title, duration, type, difficulty, completed, image
		 FROM workouts
		 ORDER BY position ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	var result []models.Workout
	for rows.Next() {
		var w models.Workout
		if err := rows.Scan(&w.ID, &w.Title, &w.Duration, &w.Type, &w.Difficulty, &w.Completed, &w.Image); err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		result = append(result, w)
	}
	return result, rows.Err()
}

// GetWorkoutDetail returns one workout with its exercises, or
// workouts.ErrNotFound.
func (db *DB) GetWorkoutDetail(ctx context.Context, id int) (*models.WorkoutDetail, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, title, duration, type, difficulty, completed, image,
		 calories, description, equipment, instructor, rating, completions
		 FROM workouts
		 WHERE id = $1`, id)

	var d models.WorkoutDetail
	err := row.Scan(&d.ID, &d.Title, &d.Duration, &d.Type, &d.Difficulty, &d.Completed, &d.Image,
		&d.Calories, &d.Description, &d.Equipment, &d.Instructor, &d.Rating, &d.Completions)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, workouts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying workout %d: %w", id, err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT name, sets, reps, rest
		 FROM workout_exercises
		 WHERE workout_id = $1
		 ORDER BY position ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	d.Exercises, err = scanExercises(rows)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// scanExercises collects exercise rows. A workout without exercises gets an
// empty slice, matching the embedded catalog.
func scanExercises(rows pgx.Rows) ([]models.Exercise, error) {
	defer rows.Close()

	exercises := []models.Exercise{}
	for rows.Next() {
		var e models.Exercise
		if err := rows.Scan(&e.Name, &e.Sets, &e.Reps, &e.Rest); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		exercises = append(exercises, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading exercises: %w", err)
	}
	return exercises, nil
}

// UpsertWorkouts writes the given workouts in one transaction. Position
// follows slice order and each workout's exercises are replaced. Returns the
// number of workouts written.
func (db *DB) UpsertWorkouts(ctx context.Context, details []models.WorkoutDetail) (int64, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var n int64
	for i, d := range details {
		equipment := d.Equipment
		if equipment == nil {
			equipment = []string{}
		}
		tag, err := tx.Exec(ctx,
			`INSERT INTO workouts (id, position, title, duration, type, difficulty, completed, image,
			 calories, description, equipment, instructor, rating, completions, updated_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,NOW())
			 ON CONFLICT (id) DO UPDATE SET
			 position = EXCLUDED.position, title = EXCLUDED.title, duration = EXCLUDED.duration,
			 type = EXCLUDED.type, difficulty = EXCLUDED.difficulty, completed = EXCLUDED.completed,
			 image = EXCLUDED.image, calories = EXCLUDED.calories, description = EXCLUDED.description,
			 equipment = EXCLUDED.equipment, instructor = EXCLUDED.instructor, rating = EXCLUDED.rating,
			 completions = EXCLUDED.completions, updated_at = NOW()`,
			d.ID, i, d.Title, d.Duration, d.Type, d.Difficulty, d.Completed, d.Image,
			d.Calories, d.Description, equipment, d.Instructor, d.Rating, d.Completions)
		if err != nil {
			return 0, fmt.Errorf("upserting workout %d: %w", d.ID, err)
		}
		n += tag.RowsAffected()

		if _, err := tx.Exec(ctx, `DELETE FROM workout_exercises WHERE workout_id = $1`, d.ID); err != nil {
			return 0, fmt.Errorf("clearing exercises for workout %d: %w", d.ID, err)
		}
		if len(d.Exercises) == 0 {
			continue
		}
		query, args := exerciseInsert(d.ID, d.Exercises)
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("inserting exercises for workout %d: %w", d.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing workouts: %w", err)
	}
	return n, nil
}

// exerciseInsert builds one multi-row INSERT for a workout's exercises.
func exerciseInsert(workoutID int, exercises []models.Exercise) (string, []any) {
	query := `INSERT INTO workout_exercises (workout_id, position, name, sets, reps, rest) VALUES `
	args := make([]any, 0, len(exercises)*6)
	valueStrings := make([]string, 0, len(exercises))

	for i, e := range exercises {
		base := i * 6
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6,
		))
		args = append(args, workoutID, i, e.Name, e.Sets, e.Reps, e.Rest)
	}

	return query + strings.Join(valueStrings, ","), args
}
