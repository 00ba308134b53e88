// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/helpdesk-tui/internal/model"
)

// staticTokens is a TokenSource with a fixed token.
type staticTokens string

func (s staticTokens) Token() string { return string(s) }

func TestRequestAttachesBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, staticTokens("abc123"))
	_, err := client.Request(context.Background(), http.MethodGet, "/api/tickets", nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc123", gotAuth)
}

func TestRequestNoTokenNoHeader(t *testing.T) {
	var hasAuth bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, staticTokens(""))
	_, err := client.Request(context.Background(), http.MethodPost, "/api/auth/login", map[string]any{"email": "a@b.c"})
	require.NoError(t, err)
	assert.False(t, hasAuth, "no Authorization header when logged out")
}

func TestRequestSetsRequestID(t *testing.T) {
	var gotID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	_, err := client.Request(context.Background(), http.MethodGet, "/", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, gotID)
}

func TestErrorUsesBackendMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"email already registered"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	_, err := client.Request(context.Background(), http.MethodPost, "/api/auth/register", nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "email already registered", apiErr.Error())
}

func TestErrorFallsBackToHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"non-json body", "<html>Bad Gateway</html>"},
		{"json without error field", `{"detail":"nope"}`},
		{"empty body", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL, nil)
			_, err := client.Request(context.Background(), http.MethodGet, "/", nil)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, "HTTP 502", apiErr.Error())
		})
	}
}

func TestConnectionFailureIsAPIError(t *testing.T) {
	// Reserve then close a port so nothing is listening.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(url, nil)
	_, err := client.Request(context.Background(), http.MethodGet, "/", nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Zero(t, apiErr.Status)
	assert.NotEmpty(t, apiErr.Error())
}

func TestRequestReturnsRawTextBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pong"))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	data, err := client.Request(context.Background(), http.MethodGet, "/ping", nil)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(data))
}

func TestLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ivan@example.org", body["email"])
		assert.Equal(t, "secret", body["password"])

		w.Write([]byte(`{"token":"tok-1","user":{"id":1,"username":"ivan","email":"ivan@example.org","role":"user"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	creds, err := client.Login(context.Background(), "ivan@example.org", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", creds.Token)
	assert.Equal(t, model.RoleUser, creds.User.Role)
}

func TestTicketEndpointsHitExpectedPaths(t *testing.T) {
	type call struct{ method, path string }
	var calls []call
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, call{r.Method, r.URL.Path})
		switch {
		case r.URL.Path == "/api/tickets" && r.Method == http.MethodGet:
			w.Write([]byte(`[]`))
		case r.URL.Path == "/api/tickets/5/comments" && r.Method == http.MethodGet:
			w.Write([]byte(`[]`))
		default:
			w.Write([]byte(`{}`))
		}
	}))
	defer server.Close()

	ctx := context.Background()
	client := NewClient(server.URL, staticTokens("t"))

	_, err := client.ListTickets(ctx)
	require.NoError(t, err)
	_, err = client.GetTicket(ctx, 5)
	require.NoError(t, err)
	pr := model.PriorityHigh
	require.NoError(t, client.UpdateTicket(ctx, 5, model.TicketUpdate{Priority: &pr}))
	require.NoError(t, client.DeleteTicket(ctx, 5))
	_, err = client.ListComments(ctx, 5)
	require.NoError(t, err)
	_, err = client.AddComment(ctx, 5, "готово")
	require.NoError(t, err)
	require.NoError(t, client.DeleteComment(ctx, 9))
	require.NoError(t, client.UpdateRole(ctx, 2, model.RoleOperator))
	require.NoError(t, client.DeleteUser(ctx, 2))

	want := []call{
		{http.MethodGet, "/api/tickets"},
		{http.MethodGet, "/api/tickets/5"},
		{http.MethodPut, "/api/tickets/5"},
		{http.MethodDelete, "/api/tickets/5"},
		{http.MethodGet, "/api/tickets/5/comments"},
		{http.MethodPost, "/api/tickets/5/comments"},
		{http.MethodDelete, "/api/comments/9"},
		{http.MethodPut, "/api/users/2/role"},
		{http.MethodDelete, "/api/users/2"},
	}
	assert.Equal(t, want, calls)
}

func TestUpdateTicketOmitsUnsetFields(t *testing.T) {
	var body []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error
		body, err = json.Marshal(decodeJSON(t, r))
		require.NoError(t, err)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	st := model.StatusResolved
	client := NewClient(server.URL, nil)
	require.NoError(t, client.UpdateTicket(context.Background(), 1, model.TicketUpdate{Status: &st}))
	assert.JSONEq(t, `{"status":"resolved"}`, string(body))
}

func decodeJSON(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.NewDecoder(r.Body).Decode(&m))
	return m
}

func TestContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient("http://localhost:1", nil)
	_, err := client.Request(ctx, http.MethodGet, "/", nil)
	require.Error(t, err)
	// Either the limiter or the transport reports cancellation; both are fine
	// as long as no request survives a dead context.
	if !errors.Is(err, context.Canceled) {
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
	}
}
