package workouts

import (
	"context"
	"time"

	"github.com/claude/fitfeed/internal/models"
)

// LocalSource serves the bundled dataset after a simulated delay.
type LocalSource struct {
	ds    *Dataset
	delay time.Duration
}

// Compile-time check: LocalSource satisfies Provider.
var _ Provider = (*LocalSource)(nil)

// NewLocalSource creates a LocalSource. A zero delay returns immediately.
func NewLocalSource(ds *Dataset, delay time.Duration) *LocalSource {
	if ds == nil {
		ds = NewDataset(nil, nil)
	}
	return &LocalSource{ds: ds, delay: delay}
}

// GetWorkouts waits the configured delay and returns the full dataset. It
// never fails. The delay is not cut short by ctx.
func (s *LocalSource) GetWorkouts(_ context.Context) ([]models.Workout, error) {
	s.wait()
	return s.ds.Workouts(), nil
}

// GetWorkoutDetail waits the configured delay and returns the detail with the
// given id, or ErrNotFound.
func (s *LocalSource) GetWorkoutDetail(_ context.Context, id int) (*models.WorkoutDetail, error) {
	s.wait()
	d, ok := s.ds.Detail(id)
	if !ok {
		return nil, ErrNotFound
	}
	return d, nil
}

func (s *LocalSource) wait() {
	if s.delay <= 0 {
		return
	}
	time.Sleep(s.delay)
}
