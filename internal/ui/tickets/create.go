// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tickets

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/helpdesk-tui/internal/api"
	"github.com/jeranaias/helpdesk-tui/internal/model"
	"github.com/jeranaias/helpdesk-tui/internal/storage"
	"github.com/jeranaias/helpdesk-tui/internal/ui/styles"
)

// emptyFormError matches the web client's validation message verbatim.
const emptyFormError = "Заполните заголовок и описание"

// createField identifies the focused control in the create form.
type createField int

const (
	fieldTitle createField = iota
	fieldDescription
	fieldPriority
)

// CreateModel is the create-ticket form. The unsubmitted form is persisted
// as a draft so an interrupted session does not lose typed text.
type CreateModel struct {
	theme  *styles.Theme
	client *api.Client
	drafts *storage.DraftStore

	title       textinput.Model
	description textarea.Model
	priority    int // index into model.Priorities

	focus      createField
	errMsg     string
	submitting bool
}

// NewCreate builds the form, restoring any saved draft. drafts may be nil
// when the draft store could not be opened; the form then simply does not
// persist.
func NewCreate(theme *styles.Theme, client *api.Client, drafts *storage.DraftStore) CreateModel {
	title := textinput.New()
	title.Placeholder = "Заголовок"
	title.CharLimit = 200
	title.Focus()

	desc := textarea.New()
	desc.Placeholder = "Описание проблемы"
	desc.CharLimit = 4000
	desc.SetHeight(6)

	m := CreateModel{
		theme:       theme,
		client:      client,
		drafts:      drafts,
		title:       title,
		description: desc,
		priority:    1, // medium, the web client's default selection
	}
	m.restoreDraft()
	return m
}

func (m *CreateModel) restoreDraft() {
	if m.drafts == nil {
		return
	}
	draft, err := m.drafts.TicketDraft()
	if err != nil {
		return
	}
	m.title.SetValue(draft.Title)
	m.description.SetValue(draft.Description)
	for i, p := range model.Priorities {
		if string(p) == draft.Priority {
			m.priority = i
		}
	}
}

// SaveDraft persists the current form state. Called when the form closes
// without submitting.
func (m *CreateModel) SaveDraft() {
	if m.drafts == nil {
		return
	}
	_ = m.drafts.SaveTicketDraft(storage.TicketDraft{
		Title:       m.title.Value(),
		Description: m.description.Value(),
		Priority:    string(model.Priorities[m.priority]),
	})
}

func (m *CreateModel) clearDraft() {
	if m.drafts == nil {
		return
	}
	_ = m.drafts.ClearTicketDraft()
}

// SetSize updates the layout dimensions.
func (m *CreateModel) SetSize(width, _ int) {
	inner := width - 6
	if inner > 20 {
		m.title.Width = inner
		m.description.SetWidth(inner)
	}
}

// Submit validates and files the ticket. An empty title or description is
// rejected locally without any network call.
func (m *CreateModel) Submit() tea.Cmd {
	title := strings.TrimSpace(m.title.Value())
	description := strings.TrimSpace(m.description.Value())
	if title == "" || description == "" {
		m.errMsg = emptyFormError
		return nil
	}
	m.errMsg = ""
	m.submitting = true
	return CreateTicketCmd(m.client, title, description, model.Priorities[m.priority])
}

// Update handles messages for the create form.
func (m CreateModel) Update(msg tea.Msg) (CreateModel, tea.Cmd) {
	switch msg := msg.(type) {
	case TicketCreatedMsg:
		m.submitting = false
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
			return m, nil
		}
		m.clearDraft()
		return m, func() tea.Msg { return CloseCreateMsg{Created: true} }

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.SaveDraft()
			return m, func() tea.Msg { return CloseCreateMsg{} }
		case "tab", "shift+tab":
			m.cycleFocus(msg.String() == "shift+tab")
			return m, nil
		case "ctrl+s":
			if cmd := m.Submit(); cmd != nil {
				return m, cmd
			}
			return m, nil
		}

		switch m.focus {
		case fieldTitle:
			if msg.String() == "enter" {
				m.cycleFocus(false)
				return m, nil
			}
			var cmd tea.Cmd
			m.title, cmd = m.title.Update(msg)
			return m, cmd
		case fieldDescription:
			var cmd tea.Cmd
			m.description, cmd = m.description.Update(msg)
			return m, cmd
		case fieldPriority:
			switch msg.String() {
			case "left", "h":
				m.priority = (m.priority + len(model.Priorities) - 1) % len(model.Priorities)
			case "right", "l", " ":
				m.priority = (m.priority + 1) % len(model.Priorities)
			case "enter":
				if cmd := m.Submit(); cmd != nil {
					return m, cmd
				}
			}
			return m, nil
		}
	}
	return m, nil
}

func (m *CreateModel) cycleFocus(backwards bool) {
	m.title.Blur()
	m.description.Blur()

	delta := 1
	if backwards {
		delta = 2 // three fields, +2 mod 3 is -1
	}
	m.focus = createField((int(m.focus) + delta) % 3)

	switch m.focus {
	case fieldTitle:
		m.title.Focus()
	case fieldDescription:
		m.description.Focus()
	}
}

// Error returns the current validation or backend error, "" when none.
// Exposed for the router's status line and for tests.
func (m CreateModel) Error() string {
	return m.errMsg
}

// View renders the form.
func (m CreateModel) View() string {
	var b strings.Builder

	b.WriteString(m.theme.Title.Render("Новое обращение"))
	b.WriteString("\n\n")

	b.WriteString(m.theme.FormLabel.Render("Заголовок"))
	b.WriteString("\n")
	b.WriteString(m.title.View())
	b.WriteString("\n\n")

	b.WriteString(m.theme.FormLabel.Render("Описание"))
	b.WriteString("\n")
	b.WriteString(m.description.View())
	b.WriteString("\n\n")

	label := m.theme.FormLabel.Render("Приоритет: ")
	value := model.Priorities[m.priority].Label()
	if m.focus == fieldPriority {
		value = m.theme.FormFocused.Render("◂ " + value + " ▸")
	} else {
		value = m.theme.FormValue.Render(value)
	}
	b.WriteString(label + value)
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString("\n" + m.theme.ErrorText.Render(m.errMsg) + "\n")
	}
	if m.submitting {
		b.WriteString("\n" + m.theme.Muted.Render("Отправка..."))
	} else {
		b.WriteString("\n" + m.theme.Muted.Render("Tab — между полями, Ctrl+S — создать, Esc — отмена"))
	}
	return b.String()
}
