// Package client talks to the task API. It offers exactly the two
// operations the service exposes: read the whole collection and replace it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/SAMeh-ZAGhloul/task-mgr/internal/models"
)

// DefaultClientTimeout bounds every API request.
const DefaultClientTimeout = 5 * time.Second

// ErrBackendUnreachable wraps transport failures and timeouts.
var ErrBackendUnreachable = errors.New("backend unreachable")

// StatusError is returned when the API answers with a 4xx or 5xx status.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.Code, e.Message)
}

// Client wraps HTTP calls to the task API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for baseURL. A non-positive timeout uses DefaultClientTimeout.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultClientTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the API address the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ReadAll fetches the full collection with GET /tasks.
func (c *Client) ReadAll(ctx context.Context) (models.Collection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/tasks", nil)
	if err != nil {
		return nil, err
	}

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var tasks models.Collection
	if err := json.Unmarshal(body, &tasks); err != nil {
		return nil, fmt.Errorf("decoding tasks: %w", err)
	}
	if tasks == nil {
		tasks = models.Collection{}
	}
	return tasks, nil
}

// WriteAll replaces the full collection with POST /tasks.
func (c *Client) WriteAll(ctx context.Context, tasks models.Collection) error {
	if tasks == nil {
		tasks = models.Collection{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tasks", bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req)
	if err != nil {
		return err
	}

	var result struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if result.Status != "success" {
		return fmt.Errorf("unexpected response status %q", result.Status)
	}
	return nil
}

// Health reports whether GET /health answers 200.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	_, err = c.do(req)
	return err
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBackendUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", ErrBackendUnreachable, err)
	}

	if resp.StatusCode >= 400 {
		return nil, &StatusError{Code: resp.StatusCode, Message: errorMessage(body)}
	}
	return body, nil
}

// errorMessage extracts {"error": "..."} when present.
func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(body))
}
