// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the HTTP client for the helpdesk backend.
//
// The backend is a fixed collaborator: every operation is a single JSON
// request/response round trip with no retry. The client attaches the bearer
// token when one is present and normalizes transport, parse, and
// application failures into *APIError carrying a human-readable message.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/jeranaias/helpdesk-tui/internal/model"
)

const (
	// DefaultTimeout bounds a single request round trip.
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize caps response bodies; the backend serves small JSON
	// records, anything larger is a misbehaving server.
	MaxResponseSize = 4 * 1024 * 1024

	userAgent = "helpdesk-tui/1.0"
)

// sharedTransport pools connections across all clients.
var sharedTransport = &http.Transport{
	MaxIdleConns:        100,
	MaxIdleConnsPerHost: 10,
	IdleConnTimeout:     90 * time.Second,
	TLSHandshakeTimeout: 10 * time.Second,
}

// TokenSource supplies the current bearer token, or "" when logged out.
// *session.Store satisfies this.
type TokenSource interface {
	Token() string
}

// APIError is a failed request: a non-2xx response or a transport failure.
// Message is the backend's `error` field when the body carried one, else a
// generic "HTTP <status>" string. The message is surfaced to the end user
// verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Credentials is the login/registration response.
type Credentials struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// Client issues authenticated JSON requests to the helpdesk backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource

	// limiter keeps hot refresh keys from hammering the backend. It never
	// rejects, only delays; the burst covers a full page worth of fetches.
	limiter *rate.Limiter
}

// NewClient creates a client for the backend at baseURL. tokens may be nil
// for a client that only performs unauthenticated calls.
func NewClient(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Transport: sharedTransport,
			Timeout:   DefaultTimeout,
		},
		tokens:  tokens,
		limiter: rate.NewLimiter(rate.Limit(10), 20),
	}
}

// WithTimeout sets the per-request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.httpClient.Timeout = timeout
	return c
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request performs one round trip and returns the raw response body.
// body is serialized to JSON when non-nil. Non-2xx responses and transport
// failures return *APIError; there is no retry.
func (c *Client) Request(ctx context.Context, method, path string, body any) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Message: err.Error()}
	}
	defer resp.Body.Close()

	data, err := readBody(resp)
	if err != nil {
		return nil, &APIError{Status: resp.StatusCode, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, normalizeError(resp.StatusCode, data)
	}
	return data, nil
}

// readBody reads a response with the size cap applied.
func readBody(resp *http.Response) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(data) > MaxResponseSize {
		return nil, fmt.Errorf("response exceeded %d bytes", MaxResponseSize)
	}
	return data, nil
}

// normalizeError maps a non-2xx response to an *APIError. The backend's
// own message wins when the body parses as {"error": "..."}; otherwise the
// status code is all we can tell the user.
func normalizeError(status int, body []byte) *APIError {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return &APIError{Status: status, Message: payload.Error}
	}
	return &APIError{Status: status, Message: fmt.Sprintf("HTTP %d", status)}
}

// get performs a GET and unmarshals the response into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	data, err := c.Request(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
