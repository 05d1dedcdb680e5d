// Package upload pushes a workout catalog to a running FitFeed server.
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/claude/fitfeed/internal/models"
)

const attempts = 3

// Client sends catalogs to the FitFeed ingest endpoint over HTTP.
type Client struct {
	serverURL  string
	apiKey     string
	httpClient *http.Client
	backoff    time.Duration
}

// NewClient creates a new HTTP client for the FitFeed server.
func NewClient(serverURL, apiKey string) *Client {
	return &Client{
		serverURL: strings.TrimRight(serverURL, "/"),
		apiKey:    apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		backoff: time.Second,
	}
}

// SendCatalog POSTs details to the server's ingest endpoint and returns the
// number of workouts the server wrote. Transport failures and 5xx responses
// are retried with exponential backoff; 4xx responses are returned at once.
func (c *Client) SendCatalog(ctx context.Context, details []models.WorkoutDetail) (int64, error) {
	data, err := json.Marshal(details)
	if err != nil {
		return 0, fmt.Errorf("marshaling catalog: %w", err)
	}

	var lastErr error
	for attempt := range attempts {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return 0, fmt.Errorf("after %d attempts: %w", attempt, lastErr)
			case <-time.After(c.backoff << (attempt - 1)):
			}
		}

		n, retry, err := c.post(ctx, data)
		if err == nil {
			return n, nil
		}
		if !retry {
			return 0, err
		}
		lastErr = err
	}

	return 0, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}

func (c *Client) post(ctx context.Context, data []byte) (n int64, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL+"/api/v1/ingest/", bytes.NewReader(data))
	if err != nil {
		return 0, false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, ctx.Err() == nil, fmt.Errorf("posting catalog: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return 0, resp.StatusCode >= 500, fmt.Errorf("ingest failed (status %d): %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	var result struct {
		Workouts int64 `json:"workouts"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return 0, false, fmt.Errorf("decoding ingest response: %w", err)
	}
	return result.Workouts, false, nil
}
