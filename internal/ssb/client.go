// Package ssb is a client for the Statistics Norway (SSB) PxWeb API.
// It posts table queries and decodes json-stat2 responses.
package ssb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rewired-gh/boligpris/internal/query"
)

// Client provides access to one SSB table
type Client struct {
	apiBaseURL string
	table      string
	httpClient *http.Client
}

// NewClient creates a new SSB client for the given table id (e.g. "07241")
func NewClient(apiBaseURL, table string, timeout time.Duration) *Client {
	return &Client{
		apiBaseURL: strings.TrimRight(apiBaseURL, "/"),
		table:      table,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// TableURL returns the endpoint queries are posted to
func (c *Client) TableURL() string {
	return fmt.Sprintf("%s/table/%s", c.apiBaseURL, c.table)
}

// Query posts payload to the table endpoint and decodes the dataset.
// A response without a "value" field yields a dataset with no values.
func (c *Client) Query(ctx context.Context, payload query.Payload) (*Dataset, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.TableURL(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query table %s: %w", c.table, err)
	}
	defer resp.Body.Close()

	var ds Dataset
	if err := json.NewDecoder(resp.Body).Decode(&ds); err != nil {
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}
	return &ds, nil
}

// TableMeta retrieves the table's variables and their allowed values
func (c *Client) TableMeta(ctx context.Context) (*TableMeta, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.TableURL(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch metadata for table %s: %w", c.table, err)
	}
	defer resp.Body.Close()

	var meta TableMeta
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("failed to decode table metadata: %w", err)
	}
	return &meta, nil
}

// do performs a single attempt; non-2xx responses are errors.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	return resp, nil
}

// StatusError is returned for non-2xx responses
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}
