// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package admin implements the user management page. Only admins are
// routed here; the backend enforces the same rule on every call.
package admin

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/helpdesk-tui/internal/access"
	"github.com/jeranaias/helpdesk-tui/internal/api"
	"github.com/jeranaias/helpdesk-tui/internal/model"
	"github.com/jeranaias/helpdesk-tui/internal/ui/components"
	"github.com/jeranaias/helpdesk-tui/internal/ui/styles"
	"github.com/jeranaias/helpdesk-tui/internal/util"
)

const requestTimeout = 30 * time.Second

// UsersLoadedMsg carries the user list, tied to the refresh that asked.
type UsersLoadedMsg struct {
	Seq   int
	Users []model.User
	Err   error
}

// RoleSavedMsg reports a role change attempt.
type RoleSavedMsg struct {
	UserID int
	Err    error
}

// UserDeletedMsg reports a deletion attempt.
type UserDeletedMsg struct {
	UserID int
	Err    error
}

type deleteUserAction struct{ id int }

// Model is the user management page.
type Model struct {
	theme  *styles.Theme
	client *api.Client
	viewer *model.User

	users  []model.User
	cursor int

	// Role a pending edit would assign to the selected user, or nil.
	pendingRole *model.Role

	loading bool
	spin    spinner.Model
	errMsg  string
	seq     int

	confirm components.Confirm
	width   int
}

// New creates the user management model.
func New(theme *styles.Theme, client *api.Client) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner
	return Model{theme: theme, client: client, spin: sp}
}

// SetSize updates the layout dimensions.
func (m *Model) SetSize(width, _ int) {
	m.width = width
}

// Refresh starts a fetch of the user list.
func (m *Model) Refresh(viewer *model.User) tea.Cmd {
	m.viewer = viewer
	m.seq++
	m.loading = true
	m.errMsg = ""
	m.pendingRole = nil

	seq := m.seq
	client := m.client
	return tea.Batch(func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		users, err := client.ListUsers(ctx)
		return UsersLoadedMsg{Seq: seq, Users: users, Err: err}
	}, m.spin.Tick)
}

func (m *Model) selected() *model.User {
	if m.cursor < 0 || m.cursor >= len(m.users) {
		return nil
	}
	return &m.users[m.cursor]
}

// Update handles messages for the user management page.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case UsersLoadedMsg:
		if msg.Seq != m.seq {
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
			m.users = nil
			return m, nil
		}
		m.errMsg = ""
		m.users = msg.Users
		if m.cursor >= len(m.users) {
			m.cursor = len(m.users) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, nil

	case RoleSavedMsg, UserDeletedMsg:
		var err error
		switch msg := msg.(type) {
		case RoleSavedMsg:
			err = msg.Err
		case UserDeletedMsg:
			err = msg.Err
		}
		if err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		return m, m.Refresh(m.viewer)

	case components.ConfirmedMsg:
		if action, ok := msg.Action.(deleteUserAction); ok {
			client := m.client
			return m, func() tea.Msg {
				ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
				defer cancel()
				return UserDeletedMsg{UserID: action.id, Err: client.DeleteUser(ctx, action.id)}
			}
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if handled, cmd := m.confirm.Update(msg); handled {
		return m, cmd
	}

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.pendingRole = nil
		}
	case "down", "j":
		if m.cursor < len(m.users)-1 {
			m.cursor++
			m.pendingRole = nil
		}
	case "r":
		return m, m.Refresh(m.viewer)

	case "s", "right", "l":
		target := m.selected()
		if target == nil || !access.CanManageUser(m.viewer, target) {
			return m, nil
		}
		current := target.Role
		if m.pendingRole != nil {
			current = *m.pendingRole
		}
		next := nextRole(current)
		m.pendingRole = &next

	case "enter", "ctrl+s":
		target := m.selected()
		if target == nil || m.pendingRole == nil {
			return m, nil
		}
		if !access.CanManageUser(m.viewer, target) {
			return m, nil
		}
		id := target.ID
		role := *m.pendingRole
		client := m.client
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()
			return RoleSavedMsg{UserID: id, Err: client.UpdateRole(ctx, id, role)}
		}

	case "esc":
		m.pendingRole = nil

	case "d":
		target := m.selected()
		if target == nil || !access.CanManageUser(m.viewer, target) {
			return m, nil
		}
		m.confirm.Ask(fmt.Sprintf("Удалить пользователя %s?", target.Username), deleteUserAction{id: target.ID})
	}
	return m, nil
}

func nextRole(r model.Role) model.Role {
	for i, candidate := range model.Roles {
		if candidate == r {
			return model.Roles[(i+1)%len(model.Roles)]
		}
	}
	return model.RoleUser
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

// View renders the user management page.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.theme.Title.Render("Пользователи"))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(m.spin.View() + " " + m.theme.Muted.Render("Загрузка..."))
		return b.String()
	case m.errMsg != "":
		b.WriteString(m.theme.ErrorBox.Render(m.errMsg))
		b.WriteString("\n")
	case len(m.users) == 0:
		b.WriteString(m.theme.EmptyState.Render("Нет пользователей"))
		return b.String()
	}

	for i, u := range m.users {
		manageable := access.CanManageUser(m.viewer, &u)

		role := roleLabel(u.Role)
		if i == m.cursor && m.pendingRole != nil {
			role = roleLabel(*m.pendingRole) + " *"
		}
		// Display-width padding keeps Cyrillic names from breaking the
		// column alignment.
		line := util.PadRight(u.Username, 20) + " " + util.PadRight(u.Email, 30) + " " + role

		switch {
		case i == m.cursor:
			b.WriteString(m.theme.RowSelected.Render(line))
		case !manageable:
			// The viewer's own row; shown but never editable.
			b.WriteString(m.theme.RowMeta.Render(line))
		default:
			b.WriteString(m.theme.Row.Render(line))
		}
		b.WriteString("\n")
	}

	if v := m.confirm.View(m.theme); v != "" {
		b.WriteString("\n" + v + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.Muted.Render("s — сменить роль, Enter — сохранить, d — удалить, r — обновить"))
	return b.String()
}
