package workouts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/claude/fitfeed/internal/models"
)

// RemoteSource fetches workouts from <baseURL>/workouts. It applies no
// timeout, retry, headers or auth of its own; those belong to the injected
// http.Client or to the caller.
type RemoteSource struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: RemoteSource satisfies Provider.
var _ Provider = (*RemoteSource)(nil)

// NewRemoteSource creates a RemoteSource targeting baseURL.
func NewRemoteSource(baseURL string, client *http.Client) *RemoteSource {
	if client == nil {
		client = &http.Client{}
	}
	return &RemoteSource{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

// GetWorkouts issues a single GET <baseURL>/workouts.
func (c *RemoteSource) GetWorkouts(ctx context.Context) ([]models.Workout, error) {
	body, err := c.get(ctx, "/workouts")
	if err != nil {
		return nil, err
	}

	var workouts []models.Workout
	if err := json.Unmarshal(body, &workouts); err != nil {
		return nil, &ParseError{Err: err}
	}
	return workouts, nil
}

// GetWorkoutDetail issues a single GET <baseURL>/workouts/{id}.
func (c *RemoteSource) GetWorkoutDetail(ctx context.Context, id int) (*models.WorkoutDetail, error) {
	body, err := c.get(ctx, "/workouts/"+strconv.Itoa(id))
	if err != nil {
		return nil, err
	}

	var detail models.WorkoutDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, &ParseError{Err: err}
	}
	return &detail, nil
}

// get returns the body of a 2xx response. Non-2xx bodies are never read.
func (c *RemoteSource) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("remote source: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ServerError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	return body, nil
}
