// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/helpdesk-tui/internal/api"
	"github.com/jeranaias/helpdesk-tui/internal/ui/styles"
)

func keyEnter() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEnter} }
func keyTab() tea.KeyMsg   { return tea.KeyMsg{Type: tea.KeyTab} }

func TestLoginEmptyFieldsRejectedLocally(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	m := New(styles.New(), api.NewClient(srv.URL, nil))
	m, _ = m.Update(keyTab()) // focus password, still empty
	m, cmd := m.Update(keyEnter())

	assert.Nil(t, cmd)
	assert.Equal(t, "Заполните все поля", m.Error())
	assert.False(t, called, "validation failure must not hit the backend")
}

func TestLoginSubmitsAndReportsCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ivan@example.com", body["email"])

		json.NewEncoder(w).Encode(map[string]any{
			"token": "tok-123",
			"user":  map[string]any{"id": 7, "username": "ivan", "email": "ivan@example.com", "role": "user"},
		})
	}))
	defer srv.Close()

	m := New(styles.New(), api.NewClient(srv.URL, nil))
	m.email.SetValue("ivan@example.com")
	m.password.SetValue("secret")
	m, _ = m.Update(keyTab())
	m, cmd := m.Update(keyEnter())
	require.NotNil(t, cmd)

	msg := cmd()
	done, ok := msg.(DoneMsg)
	require.True(t, ok)
	require.NoError(t, done.Err)
	assert.Equal(t, "tok-123", done.Creds.Token)
	assert.Equal(t, "ivan", done.Creds.User.Username)
}

func TestLoginBackendErrorShownVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "Неверный email или пароль"})
	}))
	defer srv.Close()

	m := New(styles.New(), api.NewClient(srv.URL, nil))
	m.email.SetValue("ivan@example.com")
	m.password.SetValue("wrong")
	m, _ = m.Update(keyTab())
	m, cmd := m.Update(keyEnter())
	require.NotNil(t, cmd)

	m, _ = m.Update(cmd())
	assert.Equal(t, "Неверный email или пароль", m.Error())
}

func TestRegisterTabValidation(t *testing.T) {
	m := New(styles.New(), api.NewClient("http://localhost:1", nil))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, TabRegister, m.tab)

	m.email.SetValue("new@example.com")
	m.password.SetValue("secret")
	// Username left empty; move to the last field and submit.
	m, _ = m.Update(keyTab())
	m, _ = m.Update(keyTab())
	m, _ = m.Update(keyTab())
	m, cmd := m.Update(keyEnter())

	assert.Nil(t, cmd)
	assert.Equal(t, "Заполните все поля", m.Error())
}

func TestSwitchingTabClearsError(t *testing.T) {
	m := New(styles.New(), api.NewClient("http://localhost:1", nil))
	m, _ = m.Update(keyTab())
	m, _ = m.Update(keyEnter())
	require.NotEmpty(t, m.Error())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Empty(t, m.Error())
}
