// Package store wraps the remote budget store HTTP API. The store is the
// system of record; this client only shuttles JSON and classifies failures.
package store

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

	"github.com/tesoro-admin/tesoro/internal/platform/httpx"
)

// Client issues JSON requests against the budget store.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	failureHook func(class string)
}

// Option customises the client.
type Option func(*Client)

// WithFailureHook installs a callback invoked with a failure class
// ("unavailable", "rejected", "not_found") whenever a call fails.
func WithFailureHook(hook func(class string)) Option {
	return func(c *Client) {
		c.failureHook = hook
	}
}

// NewClient constructs a client with a fixed request timeout. In-flight
// requests are not abortable beyond that timeout.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs a GET request and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post performs a POST request with a JSON body and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// Patch performs a PATCH request with a JSON body and decodes the response into out.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("store: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("store: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.fail("unavailable")
		return fmt.Errorf("store: %s %s: %w: %v", method, path, httpx.ErrRemoteUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		c.fail("not_found")
		return fmt.Errorf("store: %s %s: %w", method, path, httpx.ErrNotFound)
	case resp.StatusCode >= 500:
		c.fail("unavailable")
		return fmt.Errorf("store: %s %s: status %d: %w", method, path, resp.StatusCode, httpx.ErrRemoteUnavailable)
	case resp.StatusCode >= 400:
		c.fail("rejected")
		return fmt.Errorf("store: %s %s: %w: %s", method, path, httpx.ErrRemoteRejected, rejectionMessage(resp.Body))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("store: decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) fail(class string) {
	if c.failureHook != nil {
		c.failureHook(class)
	}
}

// rejectionMessage pulls a human-readable explanation out of a 4xx body.
// The store answers either {"message": "..."} or {"error": "..."}.
func rejectionMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return "the request could not be processed"
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return "the request could not be processed"
}
