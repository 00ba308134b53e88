// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tickets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/helpdesk-tui/internal/access"
	"github.com/jeranaias/helpdesk-tui/internal/api"
	"github.com/jeranaias/helpdesk-tui/internal/model"
	"github.com/jeranaias/helpdesk-tui/internal/storage"
	"github.com/jeranaias/helpdesk-tui/internal/ui/components"
	"github.com/jeranaias/helpdesk-tui/internal/ui/styles"
)

const emptyCommentError = "Введите текст комментария"

// detailMode tracks whether the comment editor owns the keyboard.
type detailMode int

const (
	modeView detailMode = iota
	modeComment
)

// Internal confirm actions.
type deleteTicketAction struct{ id int }
type deleteCommentAction struct{ ticketID, commentID int }

// DetailModel is the ticket detail page: the ticket, its comments, and the
// role-gated mutation actions. The ticket and comment list are fetched
// together; neither renders without the other.
type DetailModel struct {
	theme  *styles.Theme
	client *api.Client
	drafts *storage.DraftStore
	viewer *model.User

	ticketID int
	ticket   *model.Ticket
	comments []model.Comment

	loading   bool
	spin      spinner.Model
	loadErr   string // fetch failure, replaces the whole render
	actionErr string // mutation failure, shown as an alert line

	// Pending selector state for the edit form.
	statusIdx   int
	priorityIdx int
	takeSelf    bool
	dirty       bool

	mode          detailMode
	commentInput  textarea.Model
	commentErr    string
	commentCursor int

	confirm components.Confirm

	markdown bool
	width    int
	height   int
}

// NewDetail creates the detail model. drafts may be nil.
func NewDetail(theme *styles.Theme, client *api.Client, drafts *storage.DraftStore, markdown bool) DetailModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	input := textarea.New()
	input.Placeholder = "Добавить комментарий..."
	input.CharLimit = 4000
	input.SetHeight(4)

	return DetailModel{
		theme:        theme,
		client:       client,
		drafts:       drafts,
		spin:         sp,
		commentInput: input,
		markdown:     markdown,
	}
}

// Open targets a ticket and starts the joined fetch.
func (m *DetailModel) Open(id int, viewer *model.User) tea.Cmd {
	m.ticketID = id
	m.viewer = viewer
	m.ticket = nil
	m.comments = nil
	m.loading = true
	m.loadErr = ""
	m.actionErr = ""
	m.commentErr = ""
	m.dirty = false
	m.mode = modeView
	m.commentCursor = 0
	m.restoreCommentDraft()
	return tea.Batch(LoadDetailCmd(m.client, id), m.spin.Tick)
}

// TicketID returns the ticket this view targets.
func (m *DetailModel) TicketID() int {
	return m.ticketID
}

// Editing reports whether a text input owns the keyboard.
func (m *DetailModel) Editing() bool {
	return m.mode == modeComment
}

func (m *DetailModel) restoreCommentDraft() {
	m.commentInput.Reset()
	if m.drafts == nil {
		return
	}
	if content, err := m.drafts.CommentDraft(m.ticketID); err == nil {
		m.commentInput.SetValue(content)
	} else if !errors.Is(err, storage.ErrNotFound) {
		// Draft store trouble is never worth blocking the ticket view.
		return
	}
}

// SaveDraft persists the comment editor. Called on navigation away.
func (m *DetailModel) SaveDraft() {
	if m.drafts == nil || m.ticketID == 0 {
		return
	}
	_ = m.drafts.SaveCommentDraft(m.ticketID, m.commentInput.Value())
}

// SetSize updates the layout dimensions.
func (m *DetailModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	inner := width - 6
	if inner > 20 {
		m.commentInput.SetWidth(inner)
	}
}

// reload re-fetches the ticket and comments after a mutation so the view
// reflects backend-authoritative state. No optimistic patching.
func (m *DetailModel) reload() tea.Cmd {
	m.loading = true
	m.actionErr = ""
	return tea.Batch(LoadDetailCmd(m.client, m.ticketID), m.spin.Tick)
}

// Update handles messages for the detail page.
func (m DetailModel) Update(msg tea.Msg) (DetailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case DetailLoadedMsg:
		if msg.TicketID != m.ticketID {
			// Response for a ticket we already navigated away from.
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			m.loadErr = msg.Err.Error()
			return m, nil
		}
		m.loadErr = ""
		m.ticket = msg.Ticket
		m.comments = msg.Comments
		m.syncSelectors()
		if m.commentCursor >= len(m.comments) {
			m.commentCursor = len(m.comments) - 1
		}
		if m.commentCursor < 0 {
			m.commentCursor = 0
		}
		return m, nil

	case TicketSavedMsg:
		if msg.TicketID != m.ticketID {
			return m, nil
		}
		if msg.Err != nil {
			m.actionErr = msg.Err.Error()
			return m, nil
		}
		m.dirty = false
		return m, m.reload()

	case TicketDeletedMsg:
		if msg.TicketID != m.ticketID {
			return m, nil
		}
		if msg.Err != nil {
			m.actionErr = msg.Err.Error()
			return m, nil
		}
		return m, func() tea.Msg { return BackToListMsg{} }

	case CommentAddedMsg:
		if msg.TicketID != m.ticketID {
			return m, nil
		}
		if msg.Err != nil {
			m.commentErr = msg.Err.Error()
			return m, nil
		}
		m.commentErr = ""
		m.commentInput.Reset()
		if m.drafts != nil {
			_ = m.drafts.DeleteCommentDraft(m.ticketID)
		}
		m.mode = modeView
		return m, m.reload()

	case CommentDeletedMsg:
		if msg.TicketID != m.ticketID {
			return m, nil
		}
		if msg.Err != nil {
			m.actionErr = msg.Err.Error()
			return m, nil
		}
		return m, m.reload()

	case components.ConfirmedMsg:
		switch action := msg.Action.(type) {
		case deleteTicketAction:
			return m, DeleteTicketCmd(m.client, action.id)
		case deleteCommentAction:
			return m, DeleteCommentCmd(m.client, action.ticketID, action.commentID)
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

// syncSelectors resets the pending edit selection to the fetched ticket.
func (m *DetailModel) syncSelectors() {
	for i, s := range model.Statuses {
		if s == m.ticket.Status {
			m.statusIdx = i
		}
	}
	for i, p := range model.Priorities {
		if p == m.ticket.Priority {
			m.priorityIdx = i
		}
	}
	m.takeSelf = false
}

// assignedToViewer reports whether the ticket is already on the viewer.
func (m *DetailModel) assignedToViewer() bool {
	return m.viewer != nil && m.ticket != nil &&
		m.ticket.AssignedTo != nil && *m.ticket.AssignedTo == m.viewer.ID
}

func (m DetailModel) handleKey(msg tea.KeyMsg) (DetailModel, tea.Cmd) {
	if handled, cmd := m.confirm.Update(msg); handled {
		return m, cmd
	}

	if m.mode == modeComment {
		switch msg.String() {
		case "esc":
			m.SaveDraft()
			m.mode = modeView
			m.commentInput.Blur()
			return m, nil
		case "ctrl+d":
			return m.submitComment()
		}
		var cmd tea.Cmd
		m.commentInput, cmd = m.commentInput.Update(msg)
		return m, cmd
	}

	if m.ticket == nil {
		// Still loading or failed; only navigation works.
		switch msg.String() {
		case "esc", "backspace":
			return m, func() tea.Msg { return BackToListMsg{} }
		case "r":
			return m, m.reload()
		}
		return m, nil
	}

	switch msg.String() {
	case "esc", "backspace":
		m.SaveDraft()
		return m, func() tea.Msg { return BackToListMsg{} }
	case "r":
		return m, m.reload()

	case "s":
		if access.CanChangeStatus(m.viewer) {
			m.statusIdx = (m.statusIdx + 1) % len(model.Statuses)
			m.dirty = true
		}
	case "p":
		if access.CanEditTicket(m.viewer, m.ticket) {
			m.priorityIdx = (m.priorityIdx + 1) % len(model.Priorities)
			m.dirty = true
		}
	case "a":
		if access.CanAssignTicket(m.viewer) && !m.assignedToViewer() {
			m.takeSelf = true
			m.dirty = true
		}
	case "ctrl+s":
		if m.dirty && (access.CanEditTicket(m.viewer, m.ticket) || m.takeSelf) {
			return m, m.save()
		}

	case "d":
		if access.CanDeleteTicket(m.viewer) {
			m.confirm.Ask("Удалить тикет?", deleteTicketAction{id: m.ticketID})
		}

	case "c":
		m.mode = modeComment
		m.commentErr = ""
		return m, m.commentInput.Focus()

	case "j", "down":
		if m.commentCursor < len(m.comments)-1 {
			m.commentCursor++
		}
	case "k", "up":
		if m.commentCursor > 0 {
			m.commentCursor--
		}
	case "x":
		if access.CanDeleteComment(m.viewer) && m.commentCursor < len(m.comments) {
			c := m.comments[m.commentCursor]
			m.confirm.Ask("Удалить комментарий?", deleteCommentAction{ticketID: m.ticketID, commentID: c.ID})
		}
	}
	return m, nil
}

// save sends the selector state as a partial update. Priority is always
// included for an editor; status only when the viewer may change it.
func (m *DetailModel) save() tea.Cmd {
	var update model.TicketUpdate
	if access.CanEditTicket(m.viewer, m.ticket) {
		priority := model.Priorities[m.priorityIdx]
		update.Priority = &priority
	}
	if access.CanChangeStatus(m.viewer) {
		status := model.Statuses[m.statusIdx]
		update.Status = &status
	}
	if m.takeSelf && access.CanAssignTicket(m.viewer) {
		id := m.viewer.ID
		update.Assignee = &id
	}
	return SaveTicketCmd(m.client, m.ticketID, update)
}

func (m DetailModel) submitComment() (DetailModel, tea.Cmd) {
	content := strings.TrimSpace(m.commentInput.Value())
	if content == "" {
		m.commentErr = emptyCommentError
		return m, nil
	}
	m.commentErr = ""
	return m, AddCommentCmd(m.client, m.ticketID, content)
}

// View renders the detail page.
func (m DetailModel) View() string {
	if m.loading {
		return m.spin.View() + " " + m.theme.Muted.Render("Загрузка...")
	}
	if m.loadErr != "" {
		return m.theme.ErrorBox.Render(m.loadErr) + "\n\n" +
			m.theme.Muted.Render("Esc — назад, r — повторить")
	}
	if m.ticket == nil {
		return ""
	}

	t := m.ticket
	var b strings.Builder

	b.WriteString(m.theme.DetailTitle.Render(fmt.Sprintf("#%d %s", t.ID, t.Title)))
	b.WriteString("\n")
	b.WriteString(m.theme.StatusBadge(t.Status) + " " + m.theme.PriorityBadge(t.Priority))
	b.WriteString("\n")

	meta := "Автор: " + t.AuthorName
	if t.AssigneeName != nil {
		meta += "  •  Исполнитель: " + *t.AssigneeName
	}
	meta += "  •  " + model.FormatTime(t.CreatedAt)
	b.WriteString(m.theme.DetailMeta.Render(meta))
	b.WriteString("\n\n")

	b.WriteString(m.renderDescription(t.Description))
	b.WriteString("\n")

	if access.CanEditTicket(m.viewer, t) {
		b.WriteString(m.renderEditLine())
		b.WriteString("\n")
	}
	if m.actionErr != "" {
		b.WriteString(m.theme.ErrorBox.Render(m.actionErr))
		b.WriteString("\n")
	}
	if v := m.confirm.View(m.theme); v != "" {
		b.WriteString(v)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderComments())
	b.WriteString("\n")
	b.WriteString(m.renderHints())
	return b.String()
}

func (m DetailModel) renderDescription(desc string) string {
	if m.markdown {
		width := m.width - 4
		if width < 20 {
			width = 80
		}
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(width))
		if err == nil {
			if out, err := r.Render(desc); err == nil {
				return strings.TrimRight(out, "\n") + "\n"
			}
		}
	}
	return m.theme.DetailBody.Render(desc) + "\n"
}

func (m DetailModel) renderEditLine() string {
	var parts []string
	if access.CanChangeStatus(m.viewer) {
		parts = append(parts, m.theme.FormLabel.Render("Статус: ")+
			m.theme.FormFocused.Render(model.Statuses[m.statusIdx].Label())+
			m.theme.Muted.Render(" (s)"))
	}
	parts = append(parts, m.theme.FormLabel.Render("Приоритет: ")+
		m.theme.FormFocused.Render(model.Priorities[m.priorityIdx].Label())+
		m.theme.Muted.Render(" (p)"))
	if access.CanAssignTicket(m.viewer) {
		switch {
		case m.takeSelf:
			parts = append(parts, m.theme.FormFocused.Render("Исполнитель: вы *"))
		case !m.assignedToViewer():
			parts = append(parts, m.theme.Muted.Render("a — взять в работу"))
		}
	}
	line := strings.Join(parts, "   ")
	if m.dirty {
		line += m.theme.Muted.Render("   Ctrl+S — сохранить")
	}
	return line
}

func (m DetailModel) renderComments() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render(fmt.Sprintf("Комментарии (%d)", len(m.comments))))
	b.WriteString("\n")

	if len(m.comments) == 0 {
		b.WriteString(m.theme.Muted.Render("Комментариев пока нет"))
		b.WriteString("\n")
	}
	for i, c := range m.comments {
		marker := "  "
		if i == m.commentCursor && access.CanDeleteComment(m.viewer) {
			marker = m.theme.FormFocused.Render("▸ ")
		}
		b.WriteString(marker + m.theme.CommentMeta.Render(c.Username+"  •  "+model.FormatTime(c.CreatedAt)))
		b.WriteString("\n")
		b.WriteString(m.theme.Comment.Render(c.Content))
		b.WriteString("\n")
	}

	if m.mode == modeComment {
		b.WriteString("\n")
		b.WriteString(m.commentInput.View())
		b.WriteString("\n")
		b.WriteString(m.theme.Muted.Render("Ctrl+D — отправить, Esc — отмена"))
		b.WriteString("\n")
	}
	if m.commentErr != "" {
		b.WriteString(m.theme.ErrorText.Render(m.commentErr))
		b.WriteString("\n")
	}
	return b.String()
}

func (m DetailModel) renderHints() string {
	hints := []string{"Esc — назад", "c — комментарий", "r — обновить"}
	if access.CanDeleteTicket(m.viewer) {
		hints = append(hints, "d — удалить")
	}
	if access.CanDeleteComment(m.viewer) && len(m.comments) > 0 {
		hints = append(hints, "x — удалить комментарий")
	}
	return m.theme.Muted.Render(strings.Join(hints, "  •  "))
}
