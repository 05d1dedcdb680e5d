// Package workouts resolves workout records from either the bundled dataset
// or a remote HTTP endpoint.
package workouts

import (
	"context"
	"net/http"
	"time"

	"github.com/claude/fitfeed/internal/models"
)

// DefaultDelay is the simulated latency of the local source. It exists so a
// loading state is observable; it is not a timeout.
const DefaultDelay = 400 * time.Millisecond

// Provider returns workout records. LocalSource, RemoteSource and
// *storage.DB satisfy it.
type Provider interface {
	GetWorkouts(ctx context.Context) ([]models.Workout, error)
	GetWorkoutDetail(ctx context.Context, id int) (*models.WorkoutDetail, error)
}

// Config selects and parameterizes the source. It is read once by New.
type Config struct {
	Remote  bool
	BaseURL string
	Delay   time.Duration
}

// New returns the remote source when cfg.Remote is set, otherwise the local
// source over ds. A nil client means a plain http.Client with no timeout.
func New(cfg Config, ds *Dataset, client *http.Client) Provider {
	if cfg.Remote {
		return NewRemoteSource(cfg.BaseURL, client)
	}
	return NewLocalSource(ds, cfg.Delay)
}
