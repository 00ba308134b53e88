// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the root Bubble Tea model: it owns the session, decides
// which page is visible, and routes messages so that a response can only
// ever land on the page that asked for it.
package app

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/helpdesk-tui/internal/api"
	"github.com/jeranaias/helpdesk-tui/internal/config"
	"github.com/jeranaias/helpdesk-tui/internal/model"
	"github.com/jeranaias/helpdesk-tui/internal/session"
	"github.com/jeranaias/helpdesk-tui/internal/storage"
	"github.com/jeranaias/helpdesk-tui/internal/ui/admin"
	"github.com/jeranaias/helpdesk-tui/internal/ui/auth"
	"github.com/jeranaias/helpdesk-tui/internal/ui/components"
	"github.com/jeranaias/helpdesk-tui/internal/ui/styles"
	"github.com/jeranaias/helpdesk-tui/internal/ui/tickets"
)

// Page identifies the visible screen.
type Page int

const (
	PageAuth Page = iota
	PageTickets
	PageCreate
	PageDetail
	PageAdmin
)

// SessionChangedMsg reports that the on-disk session flipped state behind
// our back, usually a logout performed by another process.
type SessionChangedMsg struct {
	LoggedIn bool
}

// App is the root model.
type App struct {
	cfg    *config.Config
	theme  *styles.Theme
	client *api.Client
	store  *session.Store
	drafts *storage.DraftStore

	page   Page
	auth   auth.Model
	list   tickets.ListModel
	create tickets.CreateModel
	detail tickets.DetailModel
	admin  admin.Model

	// Fed by the session watcher running outside the program loop.
	sessionEvents <-chan SessionChangedMsg

	// Startup fetch prepared in New so the seq bump lands on the model
	// bubbletea keeps, not on the copy Init is called on.
	initCmd tea.Cmd

	width  int
	height int
	status string
}

// New builds the root model. events may be nil when no watcher runs.
func New(cfg *config.Config, theme *styles.Theme, client *api.Client, store *session.Store, drafts *storage.DraftStore, events <-chan SessionChangedMsg) App {
	a := App{
		cfg:           cfg,
		theme:         theme,
		client:        client,
		store:         store,
		drafts:        drafts,
		sessionEvents: events,
		auth:          auth.New(theme, client),
		list:          tickets.NewList(theme, client, cfg.UI.CompactRows),
		detail:        tickets.NewDetail(theme, client, drafts, cfg.UI.MarkdownDescriptions),
		admin:         admin.New(theme, client),
	}
	if store.LoggedIn() {
		a.page = PageTickets
		a.initCmd = a.list.Refresh()
	} else {
		a.page = PageAuth
	}
	return a
}

// Init starts the initial fetch and the session watch.
func (a App) Init() tea.Cmd {
	return tea.Batch(a.waitForSessionChange(), a.initCmd)
}

func (a App) waitForSessionChange() tea.Cmd {
	if a.sessionEvents == nil {
		return nil
	}
	events := a.sessionEvents
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}

func (a *App) viewer() *model.User {
	return a.store.User()
}

// logout clears the session and drops back to the auth screen.
func (a *App) logout() {
	_ = a.store.Clear()
	a.page = PageAuth
	a.auth = auth.New(a.theme, a.client)
	a.status = "Вы вышли из системы"
}

// Update routes messages. Result messages go only to the page that owns
// their type; key presses go only to the visible page.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.auth.SetSize(msg.Width, msg.Height)
		a.list.SetSize(msg.Width, msg.Height)
		a.create.SetSize(msg.Width, msg.Height)
		a.detail.SetSize(msg.Width, msg.Height)
		a.admin.SetSize(msg.Width, msg.Height)
		return a, nil

	case SessionChangedMsg:
		rearm := a.waitForSessionChange()
		if !msg.LoggedIn && a.page != PageAuth {
			a.page = PageAuth
			a.auth = auth.New(a.theme, a.client)
			a.status = "Сессия завершена"
		}
		return a, rearm

	case auth.DoneMsg:
		if msg.Err == nil && msg.Creds != nil {
			if err := a.store.Set(msg.Creds.Token, &msg.Creds.User); err != nil {
				a.status = err.Error()
				return a, nil
			}
			a.page = PageTickets
			a.status = ""
			return a, a.list.Refresh()
		}
		var cmd tea.Cmd
		a.auth, cmd = a.auth.Update(msg)
		return a, cmd

	case tickets.OpenTicketMsg:
		a.page = PageDetail
		return a, a.detail.Open(msg.ID, a.viewer())

	case tickets.OpenCreateMsg:
		// Rebuilt each time so a saved draft is restored.
		a.create = tickets.NewCreate(a.theme, a.client, a.drafts)
		a.create.SetSize(a.width, a.height)
		a.page = PageCreate
		return a, nil

	case tickets.CloseCreateMsg:
		a.page = PageTickets
		if msg.Created {
			a.status = "Обращение создано"
			return a, a.list.Refresh()
		}
		return a, nil

	case tickets.BackToListMsg:
		a.page = PageTickets
		return a, a.list.Refresh()

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a.route(msg)
}

// route delivers a non-key message to the models that own its type. Pages
// keep their own staleness guards; delivery here is about ownership, not
// freshness.
func (a App) route(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg.(type) {
	case tickets.ListLoadedMsg:
		a.list, cmd = a.list.Update(msg)
		return a, cmd
	case tickets.DetailLoadedMsg, tickets.TicketSavedMsg, tickets.TicketDeletedMsg,
		tickets.CommentAddedMsg, tickets.CommentDeletedMsg:
		a.detail, cmd = a.detail.Update(msg)
		return a, cmd
	case tickets.TicketCreatedMsg:
		a.create, cmd = a.create.Update(msg)
		return a, cmd
	case admin.UsersLoadedMsg, admin.RoleSavedMsg, admin.UserDeletedMsg:
		a.admin, cmd = a.admin.Update(msg)
		return a, cmd
	case components.ConfirmedMsg:
		// Both the detail page and the admin page arm confirms; only the
		// visible one can have an active prompt.
		switch a.page {
		case PageDetail:
			a.detail, cmd = a.detail.Update(msg)
		case PageAdmin:
			a.admin, cmd = a.admin.Update(msg)
		}
		return a, cmd
	}

	// Spinner ticks and the like fan out to every page that animates.
	a.list, cmd = a.list.Update(msg)
	cmds = append(cmds, cmd)
	a.detail, cmd = a.detail.Update(msg)
	cmds = append(cmds, cmd)
	a.admin, cmd = a.admin.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		if a.page == PageCreate {
			a.create.SaveDraft()
		}
		if a.page == PageDetail {
			a.detail.SaveDraft()
		}
		return a, tea.Quit
	}

	// Global keys apply when no text input owns the keyboard.
	if a.page != PageAuth && a.page != PageCreate && !a.detail.Editing() {
		switch msg.String() {
		case "ctrl+l":
			a.logout()
			return a, nil
		case "u":
			if a.page == PageTickets && isAdmin(a.viewer()) {
				a.page = PageAdmin
				return a, a.admin.Refresh(a.viewer())
			}
		case "t":
			if a.page == PageAdmin {
				a.page = PageTickets
				return a, a.list.Refresh()
			}
		case "q":
			if a.page == PageTickets {
				return a, tea.Quit
			}
		case "esc":
			if a.page == PageAdmin {
				a.page = PageTickets
				return a, a.list.Refresh()
			}
		}
	}

	a.status = ""
	var cmd tea.Cmd
	switch a.page {
	case PageAuth:
		a.auth, cmd = a.auth.Update(msg)
	case PageTickets:
		a.list, cmd = a.list.Update(msg)
	case PageCreate:
		a.create, cmd = a.create.Update(msg)
	case PageDetail:
		a.detail, cmd = a.detail.Update(msg)
	case PageAdmin:
		a.admin, cmd = a.admin.Update(msg)
	}
	return a, cmd
}

// isAdmin reports whether the viewer may open the user management page.
func isAdmin(u *model.User) bool {
	return u != nil && u.Role == model.RoleAdmin
}

// View assembles the chrome and the visible page.
func (a App) View() string {
	if a.page == PageAuth {
		return a.theme.App.Render(a.theme.Title.Render("Helpdesk") + "\n\n" + a.auth.View())
	}

	var b strings.Builder
	b.WriteString(a.navBar())
	b.WriteString("\n\n")

	switch a.page {
	case PageTickets:
		b.WriteString(a.list.View())
	case PageCreate:
		b.WriteString(a.create.View())
	case PageDetail:
		b.WriteString(a.detail.View())
	case PageAdmin:
		b.WriteString(a.admin.View())
	}

	b.WriteString("\n")
	b.WriteString(a.statusLine())
	return a.theme.App.Render(b.String())
}

func (a App) navBar() string {
	items := []string{}
	if a.page == PageTickets || a.page == PageCreate || a.page == PageDetail {
		items = append(items, a.theme.NavActive.Render("Обращения"))
	} else {
		items = append(items, a.theme.NavItem.Render("Обращения"))
	}
	if u := a.viewer(); u != nil && u.Role == model.RoleAdmin {
		if a.page == PageAdmin {
			items = append(items, a.theme.NavActive.Render("Пользователи"))
		} else {
			items = append(items, a.theme.NavItem.Render("Пользователи"))
		}
	}

	left := strings.Join(items, "")
	right := ""
	if u := a.viewer(); u != nil {
		right = a.theme.NavUser.Render(u.Username + " (" + string(u.Role) + ")")
	}
	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}
	return a.theme.Nav.Width(max(a.width-2, 0)).Render(left + strings.Repeat(" ", gap) + right)
}

func (a App) statusLine() string {
	hints := []components.KeyHint{}
	switch a.page {
	case PageTickets:
		hints = append(hints,
			components.KeyHint{Key: "enter", Desc: "открыть"},
			components.KeyHint{Key: "n", Desc: "новое"},
			components.KeyHint{Key: "s/p", Desc: "фильтры"},
		)
		if isAdmin(a.viewer()) {
			hints = append(hints, components.KeyHint{Key: "u", Desc: "пользователи"})
		}
		hints = append(hints, components.KeyHint{Key: "q", Desc: "выход"})
	case PageAdmin:
		hints = append(hints, components.KeyHint{Key: "t", Desc: "обращения"})
	}
	if a.page != PageAuth {
		hints = append(hints, components.KeyHint{Key: "ctrl+l", Desc: "выйти"})
	}
	return components.StatusBar(a.theme, max(a.width-2, 10), a.status, hints)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
