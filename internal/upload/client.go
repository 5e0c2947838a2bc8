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

	"github.com/meltforce/fittrack/internal/ingest"
	"github.com/meltforce/fittrack/internal/workout"
)

// Client sends package files to the fittrack server over HTTP.
type Client struct {
	serverURL  string
	apiKey     string
	httpClient *http.Client
	backoff    time.Duration
}

// NewClient creates a new HTTP client for the fittrack server.
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

// FetchWorkoutTypes retrieves the type codes the server accepts.
func (c *Client) FetchWorkoutTypes(ctx context.Context) (map[string]bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.serverURL+"/api/v1/workout-types", nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching workout types: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("workout types request failed (status %d): %s", resp.StatusCode, body)
	}

	var types []workout.Type
	if err := json.NewDecoder(resp.Body).Decode(&types); err != nil {
		return nil, fmt.Errorf("decoding workout types: %w", err)
	}

	codes := make(map[string]bool, len(types))
	for _, t := range types {
		codes[t.Code] = true
	}
	return codes, nil
}

// SendFile POSTs a package file to the server's import endpoint.
// Transport errors and 5xx responses are retried up to 3 times with
// exponential backoff. A 400 that carries per-package results is returned
// as a result, since the file was delivered.
func (c *Client) SendFile(ctx context.Context, data []byte, format ingest.Format) (*ingest.Result, error) {
	contentType := "text/plain"
	if format == ingest.FormatYAML {
		contentType = "application/yaml"
	}

	var lastErr error
	for attempt := range 3 {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff << uint(attempt-1)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL+"/api/v1/workouts/import", bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Content-Type", contentType)
		if c.apiKey != "" {
			req.Header.Set("X-API-Key", c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK, resp.StatusCode == http.StatusBadRequest:
			var res ingest.Result
			if err := json.Unmarshal(body, &res); err == nil && res.PackagesReceived > 0 {
				return &res, nil
			}
			return nil, fmt.Errorf("import rejected (status %d): %s", resp.StatusCode, body)
		case resp.StatusCode >= 500:
			lastErr = fmt.Errorf("import failed (status %d): %s", resp.StatusCode, body)
		default:
			return nil, fmt.Errorf("import failed (status %d): %s", resp.StatusCode, body)
		}
	}

	return nil, fmt.Errorf("after 3 attempts: %w", lastErr)
}
