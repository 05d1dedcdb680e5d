// Package home assembles the home screen dashboard from the workout catalog
// and the activity log.
package home

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/fitfeed/internal/activity"
	"github.com/claude/fitfeed/internal/models"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultGoal        = 150
	DefaultUnit        = "mins"
	DefaultRecentLimit = 5

	// history is how far back completions are loaded for the streak.
	history = 60 * 24 * time.Hour
)

// WorkoutSource is the part of a provider the dashboard needs.
type WorkoutSource interface {
	GetWorkouts(ctx context.Context) ([]models.Workout, error)
}

// Builder builds Dashboards. Activity may be nil, which means nothing has
// been completed yet. Now defaults to time.Now.
type Builder struct {
	Workouts    WorkoutSource
	Activity    activity.Log
	Goal        int
	Unit        string
	RecentLimit int
	Now         func() time.Time
}

// Build loads the catalog and recent completions concurrently and assembles
// the dashboard.
func (b *Builder) Build(ctx context.Context) (*models.Dashboard, error) {
	now := time.Now()
	if b.Now != nil {
		now = b.Now()
	}

	var catalog []models.Workout
	var completions []models.Completion

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ws, err := b.Workouts.GetWorkouts(gctx)
		if err != nil {
			return fmt.Errorf("loading workouts: %w", err)
		}
		catalog = ws
		return nil
	})
	if b.Activity != nil {
		g.Go(func() error {
			cs, err := b.Activity.CompletionsSince(gctx, now.Add(-history))
			if err != nil {
				return fmt.Errorf("loading completions: %w", err)
			}
			completions = cs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Assemble(catalog, completions, b.goal(), b.unit(), b.recentLimit(), now), nil
}

// Assemble derives a dashboard from already loaded data. completions must be
// ordered newest first.
func Assemble(catalog []models.Workout, completions []models.Completion, goal int, unit string, limit int, now time.Time) *models.Dashboard {
	days := activity.Streak(activity.CompletionDays(completions), now)
	current := activity.WeeklyMinutes(completions, now)

	return &models.Dashboard{
		Streak: models.Streak{Days: days, Message: activity.StreakMessage(days)},
		Weekly: models.WeeklyTraining{
			Current: current,
			Goal:    goal,
			Unit:    unit,
			Percent: Percent(current, goal),
		},
		Recent: recent(catalog, completions, limit, now),
		Next:   next(catalog, completions, now),
	}
}

// Percent is current/goal as a percentage clamped to [0, 100].
func Percent(current, goal int) float64 {
	if goal <= 0 || current <= 0 {
		return 0
	}
	p := float64(current) / float64(goal) * 100
	return min(p, 100)
}

func recent(catalog []models.Workout, completions []models.Completion, limit int, now time.Time) []models.Workout {
	if len(completions) == 0 {
		n := min(limit, len(catalog))
		out := make([]models.Workout, n)
		copy(out, catalog[:n])
		return out
	}

	byID := make(map[int]models.Workout, len(catalog))
	for _, w := range catalog {
		byID[w.ID] = w
	}

	out := make([]models.Workout, 0, limit)
	seen := make(map[int]bool)
	for _, c := range completions {
		if len(out) == limit {
			break
		}
		w, ok := byID[c.WorkoutID]
		if !ok || seen[c.WorkoutID] {
			continue
		}
		seen[c.WorkoutID] = true
		w.Completed = activity.RelativeLabel(c.CompletedAt, now)
		out = append(out, w)
	}
	return out
}

func next(catalog []models.Workout, completions []models.Completion, now time.Time) *models.Workout {
	if len(catalog) == 0 {
		return nil
	}
	start := activity.WeekStart(now)
	done := make(map[int]bool)
	for _, c := range completions {
		if !c.CompletedAt.Before(start) {
			done[c.WorkoutID] = true
		}
	}
	for _, w := range catalog {
		if !done[w.ID] {
			return &w
		}
	}
	w := catalog[0]
	return &w
}

func (b *Builder) goal() int {
	if b.Goal == 0 {
		return DefaultGoal
	}
	return b.Goal
}

func (b *Builder) unit() string {
	if b.Unit == "" {
		return DefaultUnit
	}
	return b.Unit
}

func (b *Builder) recentLimit() int {
	if b.RecentLimit <= 0 {
		return DefaultRecentLimit
	}
	return b.RecentLimit
}
