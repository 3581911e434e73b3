// Package optiondeck provides a small Go client for the optiondeck data
// API. Analysis payloads are returned as raw JSON so callers can decode
// into their own types.
package optiondeck

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client talks to an optiondeck-server instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// InstrumentHealth is one instrument's freshness entry from /api/health.
type InstrumentHealth struct {
	LastUpdate       string `json:"last_update"`
	DataAvailable    bool   `json:"data_available"`
	SignalsAvailable bool   `json:"signals_available"`
}

// DataResponse is the body of /api/data/{instrument}.
type DataResponse struct {
	Analysis  json.RawMessage `json:"analysis"`
	Signals   json.RawMessage `json:"signals"`
	Timestamp string          `json:"timestamp"`
}

// Instruments retrieves the list of served instruments.
func (c *Client) Instruments(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.get(ctx, "/api/instruments", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Health retrieves per-instrument freshness information.
func (c *Client) Health(ctx context.Context) (map[string]InstrumentHealth, error) {
	var out map[string]InstrumentHealth
	if err := c.get(ctx, "/api/health", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Data retrieves the latest analytics for an instrument.
func (c *Client) Data(ctx context.Context, instrument string) (*DataResponse, error) {
	var out DataResponse
	if err := c.get(ctx, "/api/data/"+url.PathEscape(instrument), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("GET %s: decoding response: %w", path, err)
	}
	return nil
}
