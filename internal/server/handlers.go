package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/claude/fitfeed/internal/activity"
	"github.com/claude/fitfeed/internal/models"
	"github.com/claude/fitfeed/internal/workouts"
	"github.com/go-chi/chi/v5"
)

// maxIngestBytes caps an uploaded catalog.
const maxIngestBytes = 8 << 20

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	ws, err := s.workouts.GetWorkouts(r.Context())
	if err != nil {
		s.providerError(w, "list workouts", err)
		return
	}
	if ws == nil {
		ws = []models.Workout{}
	}
	writeJSON(w, http.StatusOK, ws)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid workout ID"})
		return
	}

	detail, err := s.workouts.GetWorkoutDetail(r.Context(), id)
	if err != nil {
		s.providerError(w, "get workout", err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	d, err := s.home.Build(r.Context())
	if err != nil {
		s.providerError(w, "build home", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}

func (s *Server) handleListActivity(w http.ResponseWriter, r *http.Request) {
	since, err := parseSince(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	cs, err := s.activity.CompletionsSince(r.Context(), since)
	if err != nil {
		s.log.Error("list activity error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if cs == nil {
		cs = []models.Completion{}
	}
	writeJSON(w, http.StatusOK, cs)
}

func (s *Server) handleRecordActivity(w http.ResponseWriter, r *http.Request) {
	var c models.Completion
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	c, err := s.activity.Record(r.Context(), c)
	if errors.Is(err, activity.ErrInvalidCompletion) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err != nil {
		s.log.Error("record activity error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	s.metrics.Completion()
	s.log.Info("completion recorded",
		"workout_id", c.WorkoutID,
		"minutes", c.Minutes,
		"user", userInfoFromContext(r).Login,
	)
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var details []models.WorkoutDetail
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxIngestBytes)).Decode(&details); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := models.ValidateDetails(details); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	n, err := s.catalog.UpsertWorkouts(r.Context(), details)
	if err != nil {
		s.log.Error("ingest error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if inv, ok := s.workouts.(interface{ Invalidate() }); ok {
		inv.Invalidate()
	}

	s.log.Info("catalog ingested", "workouts", n)
	writeJSON(w, http.StatusOK, map[string]int64{"workouts": n})
}

// providerError maps a provider failure to a status: 404 for a missing
// workout, 502 for an upstream failure, 500 otherwise.
func (s *Server) providerError(w http.ResponseWriter, op string, err error) {
	var se *workouts.ServerError
	switch {
	case errors.Is(err, workouts.ErrNotFound),
		errors.As(err, &se) && se.StatusCode == http.StatusNotFound:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
	case workouts.IsUpstream(err):
		s.log.Warn(op+" upstream error", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
	default:
		s.log.Error(op+" error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// parseSince reads the optional since query parameter, RFC 3339 or a
// plain date. It defaults to seven days ago.
func parseSince(r *http.Request) (time.Time, error) {
	v := r.URL.Query().Get("since")
	if v == "" {
		return time.Now().AddDate(0, 0, -7), nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		t, err = time.Parse(time.DateOnly, v)
		if err != nil {
			return time.Time{}, errors.New("since must be RFC 3339 or YYYY-MM-DD")
		}
	}
	return t, nil
}
