package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"optiondeck/internal/domain"
)

// DefaultFetchTimeout bounds a single fetch so a hung request degrades to a
// fetch failure instead of leaving stale data displayed indefinitely.
const DefaultFetchTimeout = 12 * time.Second

// Compile-time interface check.
var _ Source = (*Client)(nil)

// payload matches the endpoint's response body:
// GET /api/data/{instrument} -> { analysis, signals, timestamp }.
type payload struct {
	Analysis  *domain.Snapshot  `json:"analysis"`
	Signals   *domain.SignalSet `json:"signals"`
	Timestamp string            `json:"timestamp"`
}

// Client fetches analytics from the dashboard data API over HTTP.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// NewClient creates a Client for the given base URL (e.g.
// "http://localhost:5000"). A non-positive timeout falls back to
// DefaultFetchTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Client{
		baseURL:    baseURL,
		timeout:    timeout,
		httpClient: &http.Client{},
	}
}

// Name returns "http".
func (c *Client) Name() string { return "http" }

// Fetch performs GET {base}/api/data/{instrument}. Transport failures and
// non-2xx statuses surface as *NetworkError; undecodable or incomplete
// bodies as *MalformedResponseError.
func (c *Client) Fetch(ctx context.Context, instrument string) (*domain.Snapshot, *domain.SignalSet, string, error) {
	u := fmt.Sprintf("%s/api/data/%s", c.baseURL, url.PathEscape(instrument))

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, nil, "", &NetworkError{URL: u, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, "", &NetworkError{URL: u, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, "", &NetworkError{URL: u, Status: resp.StatusCode}
	}

	var p payload
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, nil, "", &MalformedResponseError{URL: u, Reason: "invalid JSON", Err: err}
	}
	if p.Analysis == nil {
		return nil, nil, "", &MalformedResponseError{URL: u, Reason: "missing analysis"}
	}
	if p.Timestamp == "" {
		return nil, nil, "", &MalformedResponseError{URL: u, Reason: "missing timestamp"}
	}

	return p.Analysis, p.Signals, p.Timestamp, nil
}
