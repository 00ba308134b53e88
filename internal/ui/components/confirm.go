// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/helpdesk-tui/internal/ui/styles"
)

// Confirm is a modal yes/no prompt guarding destructive actions. While
// active it swallows all key input; y confirms, n or esc declines.
type Confirm struct {
	Active   bool
	Question string

	// Action is delivered via ConfirmedMsg when the user confirms, so the
	// owning model knows which pending operation was approved.
	Action tea.Msg
}

// ConfirmedMsg reports an approved confirmation carrying its action.
type ConfirmedMsg struct {
	Action tea.Msg
}

// Ask arms the prompt.
func (c *Confirm) Ask(question string, action tea.Msg) {
	c.Active = true
	c.Question = question
	c.Action = action
}

// Update consumes a key press while the prompt is active. It reports
// whether the key was handled and an optional command.
func (c *Confirm) Update(msg tea.KeyMsg) (bool, tea.Cmd) {
	if !c.Active {
		return false, nil
	}
	switch msg.String() {
	case "y", "Y":
		action := c.Action
		c.Active = false
		c.Action = nil
		return true, func() tea.Msg { return ConfirmedMsg{Action: action} }
	case "n", "N", "esc":
		c.Active = false
		c.Action = nil
		return true, nil
	}
	return true, nil
}

// View renders the prompt line, or "" when inactive.
func (c *Confirm) View(theme *styles.Theme) string {
	if !c.Active {
		return ""
	}
	return theme.ErrorBox.Render(c.Question + "  [y/n]")
}
