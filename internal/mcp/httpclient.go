package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/fittrack/internal/history"
	"github.com/meltforce/fittrack/internal/ingest"
	"github.com/meltforce/fittrack/internal/models"
	"github.com/meltforce/fittrack/internal/workout"
)

// HTTPClient implements DataSource and Calculator by calling the fittrack
// REST API. Used for remote MCP mode where the binary runs locally (stdio)
// but history lives on the server.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource and Calculator.
var (
	_ DataSource = (*HTTPClient)(nil)
	_ Calculator = (*HTTPClient)(nil)
)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, body io.Reader) (int, []byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return 0, nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("httpclient: read body: %w", err)
	}
	return resp.StatusCode, data, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	status, body, err := c.do(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, history.ErrNotFound
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, status, body)
	}
	return body, nil
}

func timeParams(start, end time.Time) url.Values {
	v := url.Values{}
	v.Set("start", start.Format(time.RFC3339))
	v.Set("end", end.Format(time.RFC3339))
	return v
}

func (c *HTTPClient) QueryResults(ctx context.Context, start, end time.Time, kindFilter string) ([]models.ResultRow, error) {
	params := timeParams(start, end)
	if kindFilter != "" {
		params.Set("type", kindFilter)
	}

	body, err := c.get(ctx, "/api/v1/workouts", params)
	if err != nil {
		return nil, err
	}

	var rows []models.ResultRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("httpclient: decode results: %w", err)
	}
	return rows, nil
}

func (c *HTTPClient) GetResult(ctx context.Context, id uuid.UUID) (*models.ResultRow, error) {
	body, err := c.get(ctx, "/api/v1/workouts/"+id.String(), nil)
	if err != nil {
		return nil, err
	}

	var row models.ResultRow
	if err := json.Unmarshal(body, &row); err != nil {
		return nil, fmt.Errorf("httpclient: decode result: %w", err)
	}
	return &row, nil
}

func (c *HTTPClient) KindTotals(ctx context.Context, start, end time.Time) ([]models.KindTotal, error) {
	body, err := c.get(ctx, "/api/v1/workouts/totals", timeParams(start, end))
	if err != nil {
		return nil, err
	}

	var totals []models.KindTotal
	if err := json.Unmarshal(body, &totals); err != nil {
		return nil, fmt.Errorf("httpclient: decode totals: %w", err)
	}
	return totals, nil
}

// Ingest posts packages to the calculation endpoint. The server answers 400
// with a full result when no package computed; that is not a transport error.
func (c *HTTPClient) Ingest(ctx context.Context, pkgs []workout.Package, source string) (*ingest.Result, error) {
	payload, err := json.Marshal(map[string]any{"packages": pkgs})
	if err != nil {
		return nil, fmt.Errorf("httpclient: encode packages: %w", err)
	}

	status, body, err := c.do(ctx, http.MethodPost, "/api/v1/workouts/calculate", nil, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK && status != http.StatusBadRequest {
		return nil, fmt.Errorf("httpclient: calculate returned %d: %s", status, body)
	}

	var res ingest.Result
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("httpclient: decode calculate result: %w", err)
	}
	if status == http.StatusBadRequest && len(res.Items) == 0 {
		return nil, fmt.Errorf("httpclient: calculate rejected: %s", body)
	}
	return &res, nil
}
