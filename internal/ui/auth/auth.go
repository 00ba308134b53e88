// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth implements the login and registration screen. It is the
// only page reachable without a session; success hands the credentials to
// the router, which persists them and switches to the ticket list.
package auth

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/helpdesk-tui/internal/api"
	"github.com/jeranaias/helpdesk-tui/internal/model"
	"github.com/jeranaias/helpdesk-tui/internal/ui/styles"
)

const (
	emptyFieldsError = "Заполните все поля"
	requestTimeout   = 30 * time.Second
)

// Tab selects the active form.
type Tab int

const (
	TabLogin Tab = iota
	TabRegister
)

// DoneMsg reports the outcome of a login or registration attempt.
type DoneMsg struct {
	Creds *api.Credentials
	Err   error
}

// Model is the auth screen.
type Model struct {
	theme  *styles.Theme
	client *api.Client

	tab Tab

	username textinput.Model
	email    textinput.Model
	password textinput.Model
	role     int // index into model.Roles, register tab only

	focus      int
	errMsg     string
	submitting bool
	width      int
}

// New creates the auth screen with the login tab active.
func New(theme *styles.Theme, client *api.Client) Model {
	username := textinput.New()
	username.Placeholder = "Имя пользователя"
	username.CharLimit = 100

	email := textinput.New()
	email.Placeholder = "Email"
	email.CharLimit = 200
	email.Focus()

	password := textinput.New()
	password.Placeholder = "Пароль"
	password.CharLimit = 200
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return Model{
		theme:    theme,
		client:   client,
		username: username,
		email:    email,
		password: password,
	}
}

// SetSize updates the layout dimensions.
func (m *Model) SetSize(width, _ int) {
	m.width = width
	inner := width - 10
	if inner > 20 && inner < 60 {
		m.username.Width = inner
		m.email.Width = inner
		m.password.Width = inner
	}
}

// Error returns the current error line, "" when none.
func (m Model) Error() string {
	return m.errMsg
}

// fields returns the focusable inputs of the active tab, in tab order.
// The register tab's trailing slot is the role selector, not an input.
func (m *Model) fieldCount() int {
	if m.tab == TabRegister {
		return 4
	}
	return 2
}

func (m *Model) syncFocus() {
	m.username.Blur()
	m.email.Blur()
	m.password.Blur()
	if m.tab == TabLogin {
		switch m.focus {
		case 0:
			m.email.Focus()
		case 1:
			m.password.Focus()
		}
		return
	}
	switch m.focus {
	case 0:
		m.username.Focus()
	case 1:
		m.email.Focus()
	case 2:
		m.password.Focus()
	}
}

func (m *Model) switchTab() {
	if m.tab == TabLogin {
		m.tab = TabRegister
	} else {
		m.tab = TabLogin
	}
	m.focus = 0
	m.errMsg = ""
	m.syncFocus()
}

// submit validates locally and issues the backend call. Empty required
// fields never reach the network.
func (m *Model) submit() tea.Cmd {
	email := strings.TrimSpace(m.email.Value())
	password := m.password.Value()

	if m.tab == TabLogin {
		if email == "" || password == "" {
			m.errMsg = emptyFieldsError
			return nil
		}
		m.errMsg = ""
		m.submitting = true
		client := m.client
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()
			creds, err := client.Login(ctx, email, password)
			return DoneMsg{Creds: creds, Err: err}
		}
	}

	username := strings.TrimSpace(m.username.Value())
	if username == "" || email == "" || password == "" {
		m.errMsg = emptyFieldsError
		return nil
	}
	m.errMsg = ""
	m.submitting = true
	client := m.client
	role := model.Roles[m.role]
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		creds, err := client.Register(ctx, username, email, password, role)
		return DoneMsg{Creds: creds, Err: err}
	}
}

// Update handles messages for the auth screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DoneMsg:
		m.submitting = false
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
			return m, nil
		}
		// The router consumes the same message to persist the session;
		// nothing to do here.
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "ctrl+t":
			m.switchTab()
			return m, nil
		case "tab", "down":
			m.focus = (m.focus + 1) % m.fieldCount()
			m.syncFocus()
			return m, nil
		case "shift+tab", "up":
			m.focus = (m.focus + m.fieldCount() - 1) % m.fieldCount()
			m.syncFocus()
			return m, nil
		case "enter":
			// Enter on the last field submits, otherwise advances.
			if m.focus == m.fieldCount()-1 {
				if cmd := m.submit(); cmd != nil {
					return m, cmd
				}
				return m, nil
			}
			m.focus++
			m.syncFocus()
			return m, nil
		}

		if m.tab == TabRegister && m.focus == 3 {
			switch msg.String() {
			case "left", "h":
				m.role = (m.role + len(model.Roles) - 1) % len(model.Roles)
			case "right", "l", " ":
				m.role = (m.role + 1) % len(model.Roles)
			}
			return m, nil
		}

		var cmd tea.Cmd
		switch {
		case m.tab == TabRegister && m.focus == 0:
			m.username, cmd = m.username.Update(msg)
		case (m.tab == TabLogin && m.focus == 0) || (m.tab == TabRegister && m.focus == 1):
			m.email, cmd = m.email.Update(msg)
		default:
			m.password, cmd = m.password.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// View renders the auth screen.
func (m Model) View() string {
	var b strings.Builder

	login := m.theme.NavItem.Render("Вход")
	register := m.theme.NavItem.Render("Регистрация")
	if m.tab == TabLogin {
		login = m.theme.NavActive.Render("Вход")
	} else {
		register = m.theme.NavActive.Render("Регистрация")
	}
	b.WriteString(login + register + m.theme.Muted.Render("  Ctrl+T — переключить"))
	b.WriteString("\n\n")

	if m.tab == TabRegister {
		b.WriteString(m.theme.FormLabel.Render("Имя пользователя"))
		b.WriteString("\n" + m.username.View() + "\n\n")
	}
	b.WriteString(m.theme.FormLabel.Render("Email"))
	b.WriteString("\n" + m.email.View() + "\n\n")
	b.WriteString(m.theme.FormLabel.Render("Пароль"))
	b.WriteString("\n" + m.password.View() + "\n")

	if m.tab == TabRegister {
		label := m.theme.FormLabel.Render("Роль: ")
		value := roleLabel(model.Roles[m.role])
		if m.focus == 3 {
			b.WriteString("\n" + label + m.theme.FormFocused.Render("◂ "+value+" ▸") + "\n")
		} else {
			b.WriteString("\n" + label + m.theme.FormValue.Render(value) + "\n")
		}
	}

	if m.errMsg != "" {
		b.WriteString("\n" + m.theme.ErrorText.Render(m.errMsg) + "\n")
	}
	if m.submitting {
		b.WriteString("\n" + m.theme.Muted.Render("Подождите..."))
	} else {
		b.WriteString("\n" + m.theme.Muted.Render("Enter — отправить"))
	}
	return b.String()
}

func roleLabel(r model.Role) string {
	switch r {
	case model.RoleAdmin:
		return "Администратор"
	case model.RoleOperator:
		return "Оператор"
	default:
		return "Пользователь"
	}
}
