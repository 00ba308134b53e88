// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable view fragments for the TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/helpdesk-tui/internal/ui/styles"
	"github.com/jeranaias/helpdesk-tui/internal/util"
)

// KeyHint is one shortcut entry for the status bar.
type KeyHint struct {
	Key  string
	Desc string
}

// StatusBar renders the bottom bar: a transient message on the left,
// shortcut hints on the right. The message wins space when both do not fit.
func StatusBar(theme *styles.Theme, width int, message string, hints []KeyHint) string {
	var parts []string
	for _, h := range hints {
		parts = append(parts, theme.KeyHint.Render(h.Key+" "+h.Desc))
	}
	right := strings.Join(parts, "  ")

	avail := width - lipgloss.Width(right) - 3
	left := util.TruncateWidth(message, max(avail, 0))

	// The message is plain text; the hints carry styling, so they are
	// measured through lipgloss.
	gap := width - util.StringWidth(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		return theme.StatusBar.Width(width).Render(left)
	}
	return theme.StatusBar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
