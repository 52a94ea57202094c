package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jfoltran/colorserve/internal/appconfig"
	"github.com/jfoltran/colorserve/internal/colors"
	"github.com/jfoltran/colorserve/internal/metrics"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Client talks to a running colorserve HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates an API client pointing at the given base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// BaseURL returns the server address the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Colors fetches the colors document.
func (c *Client) Colors(ctx context.Context) (colors.Document, error) {
	body, err := c.get(ctx, "/api/colors")
	if err != nil {
		return nil, err
	}
	return colors.Document(body), nil
}

// Status fetches the current metrics snapshot.
func (c *Client) Status(ctx context.Context) (*metrics.Snapshot, error) {
	var snap metrics.Snapshot
	if err := c.getJSON(ctx, "/api/status", &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Logs fetches recent log entries.
func (c *Client) Logs(ctx context.Context) ([]metrics.LogEntry, error) {
	var entries []metrics.LogEntry
	if err := c.getJSON(ctx, "/api/logs", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Config fetches the public app settings.
func (c *Client) Config(ctx context.Context) (*appconfig.PublicApp, error) {
	var pub appconfig.PublicApp
	if err := c.getJSON(ctx, "/api/config", &pub); err != nil {
		return nil, err
	}
	return &pub, nil
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	body, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot reach server at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
		var envelope struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &envelope) == nil && envelope.Message != "" {
			apiErr.Message = envelope.Message
		}
		return nil, apiErr
	}
	return body, nil
}
