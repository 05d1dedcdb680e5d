package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/claude/fitfeed/internal/activity"
	"github.com/claude/fitfeed/internal/home"
	"github.com/claude/fitfeed/internal/metrics"
	"github.com/claude/fitfeed/internal/models"
	"github.com/claude/fitfeed/internal/workouts"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Catalog accepts uploaded workouts. Implemented by storage.DB.
type Catalog interface {
	UpsertWorkouts(ctx context.Context, details []models.WorkoutDetail) (int64, error)
}

// Options are the Server's dependencies. Workouts and Home are required;
// a nil Activity, Catalog or Gatherer leaves the matching routes unmounted.
type Options struct {
	Workouts workouts.Provider
	Home     *home.Builder
	Activity activity.Log
	Catalog  Catalog
	Metrics  *metrics.Manager
	Gatherer prometheus.Gatherer
	Identity WhoIser
	APIKey   string
	Log      *slog.Logger
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	workouts workouts.Provider
	home     *home.Builder
	activity activity.Log
	catalog  Catalog
	metrics  *metrics.Manager
	gatherer prometheus.Gatherer
	identity WhoIser
	log      *slog.Logger
	apiKey   string
	router   chi.Router
}

// New creates a new Server with all routes configured.
func New(opts Options) *Server {
	log := opts.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		workouts: opts.Workouts,
		home:     opts.Home,
		activity: opts.Activity,
		catalog:  opts.Catalog,
		metrics:  opts.Metrics,
		gatherer: opts.Gatherer,
		identity: opts.Identity,
		log:      log,
		apiKey:   opts.APIKey,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	if s.metrics != nil {
		s.router.Use(Metrics(s.metrics))
	}
	s.router.Use(CORS)
	if s.identity != nil {
		s.router.Use(TailscaleIdentity(s.identity, s.log))
	} else {
		s.router.Use(DevIdentity)
	}

	// Remote source contract
	s.router.Get("/workouts", s.handleListWorkouts)
	s.router.Get("/workouts/{id}", s.handleGetWorkout)

	s.router.Get("/api/v1/home", s.handleHome)
	s.router.Get("/api/v1/me", s.handleMe)

	if s.activity != nil {
		s.router.Get("/api/v1/activity", s.handleListActivity)
		s.router.Post("/api/v1/activity", s.handleRecordActivity)
	}

	// Catalog uploads (API key required)
	if s.catalog != nil {
		s.router.Route("/api/v1/ingest", func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))
			r.Post("/", s.handleIngest)
		})
	}

	if s.gatherer != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
}
