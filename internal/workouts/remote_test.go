package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/claude/fitfeed/internal/models"
	"github.com/google/go-cmp/cmp"
)

// newTestServer routes requests to handlers keyed by path and fails the test
// on anything unexpected.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		h, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(ts.Close)
	return ts
}

// TestRemoteGetWorkouts verifies a 200 response resolves deep-equal to the body.
func TestRemoteGetWorkouts(t *testing.T) {
	want := []models.Workout{
		{ID: 1, Title: "HIIT 30", Duration: "30 mins", Type: "High", Completed: "Yesterday", Image: "https://img.example.com/1.jpg"},
		{ID: 2, Title: "Strength 45", Duration: "45 mins", Difficulty: "Intermediate", Image: "https://img.example.com/2.jpg"},
	}
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/workouts": func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "" {
				t.Error("remote source must not add auth headers")
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(want)
		},
	})

	got, err := NewRemoteSource(ts.URL+"/", nil).GetWorkouts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("workouts mismatch (-want +got):\n%s", diff)
	}
}

// TestRemoteServerError verifies a 500 fails with a ServerError mentioning the
// status and that the body is not parsed.
func TestRemoteServerError(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/workouts": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`not json at all`))
		},
	})

	got, err := NewRemoteSource(ts.URL, nil).GetWorkouts(context.Background())
	if got != nil {
		t.Errorf("got %v, want nil result", got)
	}
	var se *ServerError
	if !errors.As(err, &se) {
		t.Fatalf("err = %T %v, want *ServerError", err, err)
	}
	if se.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", se.StatusCode)
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("message %q does not contain 500", err.Error())
	}
}

// TestRemoteNon2xx verifies non-success statuses other than 5xx are ServerErrors too.
func TestRemoteNon2xx(t *testing.T) {
	for _, code := range []int{http.StatusNotFound, http.StatusUnauthorized, http.StatusMovedPermanently} {
		ts := newTestServer(t, map[string]http.HandlerFunc{
			// A 301 without Location is returned to the caller as-is.
			"/workouts": func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(code)
			},
		})
		_, err := NewRemoteSource(ts.URL, nil).GetWorkouts(context.Background())
		var se *ServerError
		if !errors.As(err, &se) || se.StatusCode != code {
			t.Errorf("status %d: err = %v, want ServerError", code, err)
		}
	}
}

// TestRemoteMalformedJSON verifies an invalid body on 200 fails with a ParseError.
func TestRemoteMalformedJSON(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/workouts": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`[{"id": 1, "title": "HIIT`))
		},
	})

	got, err := NewRemoteSource(ts.URL, nil).GetWorkouts(context.Background())
	if got != nil {
		t.Errorf("got %v, want nil result", got)
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %T %v, want *ParseError", err, err)
	}
	var syntax *json.SyntaxError
	if !errors.As(err, &syntax) {
		t.Errorf("ParseError should wrap the decoder error, got %v", pe.Err)
	}
}

// TestRemoteWrongShape verifies a JSON object where an array is expected is a ParseError.
func TestRemoteWrongShape(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/workouts": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"workouts": []}`))
		},
	})

	_, err := NewRemoteSource(ts.URL, nil).GetWorkouts(context.Background())
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *ParseError", err)
	}
}

// TestRemoteConnectionRefused verifies a transport failure is a NetworkError with
// no partial result.
func TestRemoteConnectionRefused(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	got, err := NewRemoteSource(url, nil).GetWorkouts(context.Background())
	if got != nil {
		t.Errorf("got %v, want nil result", got)
	}
	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("err = %T %v, want *NetworkError", err, err)
	}
	if ne.Err == nil {
		t.Error("NetworkError should carry the transport error")
	}
}

// TestRemoteTruncatedBody verifies a body cut short mid-read is a NetworkError.
func TestRemoteTruncatedBody(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/workouts": func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Length", "100")
			_, _ = w.Write([]byte(`[{"id":1}`))
		},
	})

	_, err := NewRemoteSource(ts.URL, nil).GetWorkouts(context.Background())
	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("err = %T %v, want *NetworkError", err, err)
	}
}

// TestRemoteCallerDeadline verifies a deadline imposed by the caller surfaces as
// a NetworkError wrapping context.DeadlineExceeded.
func TestRemoteCallerDeadline(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/workouts": func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewRemoteSource(ts.URL, nil).GetWorkouts(ctx)
	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("err = %T %v, want *NetworkError", err, err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want wrapped DeadlineExceeded", err)
	}
}

// TestRemoteGetWorkoutDetail verifies the detail path and that a 404 is a ServerError.
func TestRemoteGetWorkoutDetail(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/workouts/1": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"id":1,"title":"HIIT 30","duration":"30 mins","image":"https://img.example.com/1.jpg",
				"calories":350,"exercises":[{"name":"Plank","sets":"3 sets","reps":"45 seconds","rest":"30 seconds"}]}`))
		},
		"/workouts/9": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		},
	})
	src := NewRemoteSource(ts.URL, nil)

	d, err := src.GetWorkoutDetail(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.ID != 1 || d.Calories != 350 || len(d.Exercises) != 1 || d.Exercises[0].Name != "Plank" {
		t.Errorf("detail = %+v", d)
	}

	_, err = src.GetWorkoutDetail(context.Background(), 9)
	var se *ServerError
	if !errors.As(err, &se) || se.StatusCode != http.StatusNotFound {
		t.Errorf("err = %v, want ServerError 404", err)
	}
}

// TestIsUpstream verifies the taxonomy helper.
func TestIsUpstream(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{&ServerError{StatusCode: 502}, true},
		{&ParseError{Err: errors.New("bad")}, true},
		{&NetworkError{Err: errors.New("refused")}, true},
		{ErrNotFound, false},
		{errors.New("other"), false},
	}
	for _, tc := range cases {
		if got := IsUpstream(tc.err); got != tc.want {
			t.Errorf("IsUpstream(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
