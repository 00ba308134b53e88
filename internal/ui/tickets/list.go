// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tickets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/helpdesk-tui/internal/api"
	"github.com/jeranaias/helpdesk-tui/internal/model"
	"github.com/jeranaias/helpdesk-tui/internal/ui/styles"
	"github.com/jeranaias/helpdesk-tui/internal/util"
)

// Filter cycle orders. The empty first entry means "no filter".
var (
	statusFilters   = []model.Status{"", model.StatusOpen, model.StatusInProgress, model.StatusResolved, model.StatusClosed}
	priorityFilters = []model.Priority{"", model.PriorityLow, model.PriorityMedium, model.PriorityHigh, model.PriorityCritical}
)

// ListModel is the ticket list page: fetch, filter, pick.
type ListModel struct {
	theme  *styles.Theme
	client *api.Client

	width  int
	height int

	tickets []model.Ticket // backend order, unfiltered
	visible []int          // indexes into tickets after filters
	cursor  int

	filterStatus   int // index into statusFilters
	filterPriority int // index into priorityFilters

	loading bool
	spin    spinner.Model
	errMsg  string
	seq     int // ties responses to the refresh that requested them

	compact bool
}

// NewList creates the ticket list model.
func NewList(theme *styles.Theme, client *api.Client, compact bool) ListModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner
	return ListModel{
		theme:   theme,
		client:  client,
		spin:    sp,
		compact: compact,
	}
}

// Refresh starts a fetch. Previous in-flight responses are invalidated by
// the sequence bump, not cancelled.
func (m *ListModel) Refresh() tea.Cmd {
	m.seq++
	m.loading = true
	m.errMsg = ""
	return tea.Batch(LoadListCmd(m.client, m.seq), m.spin.Tick)
}

// SetSize updates the layout dimensions.
func (m *ListModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Selected returns the ticket under the cursor, or nil.
func (m *ListModel) Selected() *model.Ticket {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return nil
	}
	return &m.tickets[m.visible[m.cursor]]
}

// Visible returns the tickets after filtering, in backend order.
func (m *ListModel) Visible() []model.Ticket {
	out := make([]model.Ticket, 0, len(m.visible))
	for _, i := range m.visible {
		out = append(out, m.tickets[i])
	}
	return out
}

// applyFilters recomputes the visible set. Equality filters only; order
// stays exactly as the backend returned it.
func (m *ListModel) applyFilters() {
	m.visible = m.visible[:0]
	st := statusFilters[m.filterStatus]
	pr := priorityFilters[m.filterPriority]
	for i, t := range m.tickets {
		if st != "" && t.Status != st {
			continue
		}
		if pr != "" && t.Priority != pr {
			continue
		}
		m.visible = append(m.visible, i)
	}
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Update handles messages for the list page.
func (m ListModel) Update(msg tea.Msg) (ListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case ListLoadedMsg:
		if msg.Seq != m.seq {
			// A response for an older refresh; a newer one is in flight.
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
			m.tickets = nil
			m.visible = nil
			return m, nil
		}
		m.errMsg = ""
		m.tickets = msg.Tickets
		m.applyFilters()
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

func (m ListModel) handleKey(msg tea.KeyMsg) (ListModel, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = len(m.visible) - 1
		if m.cursor < 0 {
			m.cursor = 0
		}
	case "enter":
		if t := m.Selected(); t != nil {
			id := t.ID
			return m, func() tea.Msg { return OpenTicketMsg{ID: id} }
		}
	case "s":
		m.filterStatus = (m.filterStatus + 1) % len(statusFilters)
		m.applyFilters()
	case "p":
		m.filterPriority = (m.filterPriority + 1) % len(priorityFilters)
		m.applyFilters()
	case "r":
		cmd := m.Refresh()
		return m, cmd
	case "n":
		return m, func() tea.Msg { return OpenCreateMsg{} }
	}
	return m, nil
}

// View renders the list page.
func (m ListModel) View() string {
	var b strings.Builder

	b.WriteString(m.filterLine())
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(m.spin.View() + " " + m.theme.Muted.Render("Загрузка..."))
	case m.errMsg != "":
		b.WriteString(m.theme.ErrorBox.Render(m.errMsg))
	case len(m.visible) == 0:
		b.WriteString(m.theme.EmptyState.Render("Нет обращений"))
	default:
		m.renderRows(&b)
	}
	return b.String()
}

func (m ListModel) filterLine() string {
	st := "Все"
	if s := statusFilters[m.filterStatus]; s != "" {
		st = s.Label()
	}
	pr := "Все"
	if p := priorityFilters[m.filterPriority]; p != "" {
		pr = p.Label()
	}
	return m.theme.Muted.Render(fmt.Sprintf("Статус: %s  •  Приоритет: %s  (s/p — фильтры)", st, pr))
}

func (m ListModel) renderRows(b *strings.Builder) {
	for row, idx := range m.visible {
		t := m.tickets[idx]

		badges := m.theme.StatusBadge(t.Status) + " " + m.theme.PriorityBadge(t.Priority)
		titleWidth := m.width - lipgloss.Width(badges) - 12
		title := fmt.Sprintf("#%d %s", t.ID, util.TruncateWidth(t.Title, max(titleWidth, 10)))

		line := title + "  " + badges
		if row == m.cursor {
			b.WriteString(m.theme.RowSelected.Render(line))
		} else {
			b.WriteString(m.theme.Row.Render(line))
		}
		b.WriteString("\n")

		if !m.compact {
			meta := "Автор: " + t.AuthorName + "  •  " + model.FormatTime(t.CreatedAt)
			if t.AssigneeName != nil {
				meta += "  •  Исполнитель: " + *t.AssigneeName
			}
			b.WriteString(m.theme.RowMeta.Render("  " + meta))
			b.WriteString("\n")
		}
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
