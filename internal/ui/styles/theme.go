// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/helpdesk-tui/internal/model"
)

// Theme holds the styled components for the application.
type Theme struct {
	ColorProfile termenv.Profile

	// Application chrome
	App       lipgloss.Style
	Title     lipgloss.Style
	Nav       lipgloss.Style
	NavItem   lipgloss.Style
	NavActive lipgloss.Style
	NavUser   lipgloss.Style
	StatusBar lipgloss.Style
	KeyHint   lipgloss.Style

	// Lists and tables
	TableHeader lipgloss.Style
	Row         lipgloss.Style
	RowSelected lipgloss.Style
	RowMeta     lipgloss.Style
	EmptyState  lipgloss.Style

	// Forms
	FormLabel   lipgloss.Style
	FormValue   lipgloss.Style
	FormFocused lipgloss.Style
	ErrorText   lipgloss.Style
	ErrorBox    lipgloss.Style
	Muted       lipgloss.Style
	Spinner     lipgloss.Style

	// Detail view
	DetailTitle lipgloss.Style
	DetailMeta  lipgloss.Style
	DetailBody  lipgloss.Style
	Comment     lipgloss.Style
	CommentMeta lipgloss.Style

	badge lipgloss.Style
}

// New builds the theme, detecting the terminal's color capability.
func New() *Theme {
	t := &Theme{ColorProfile: termenv.ColorProfile()}

	t.App = lipgloss.NewStyle().Padding(0, 1)
	t.Title = lipgloss.NewStyle().Bold(true).Foreground(Cyan)

	t.Nav = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay)
	t.NavItem = lipgloss.NewStyle().Padding(0, 2).Foreground(TextSecondary)
	t.NavActive = lipgloss.NewStyle().Padding(0, 2).Bold(true).Foreground(Cyan)
	t.NavUser = lipgloss.NewStyle().Foreground(TextMuted)

	t.StatusBar = lipgloss.NewStyle().Foreground(TextSecondary).Background(SurfaceBright).Padding(0, 1)
	t.KeyHint = lipgloss.NewStyle().Foreground(TextMuted)

	t.TableHeader = lipgloss.NewStyle().Bold(true).Foreground(TextSecondary)
	t.Row = lipgloss.NewStyle().Foreground(TextPrimary)
	t.RowSelected = lipgloss.NewStyle().Bold(true).Foreground(TextInverse).Background(Purple)
	t.RowMeta = lipgloss.NewStyle().Foreground(TextMuted)
	t.EmptyState = lipgloss.NewStyle().Foreground(TextMuted).Padding(1, 2)

	t.FormLabel = lipgloss.NewStyle().Foreground(TextSecondary)
	t.FormValue = lipgloss.NewStyle().Foreground(TextPrimary)
	t.FormFocused = lipgloss.NewStyle().Foreground(Cyan)
	t.ErrorText = lipgloss.NewStyle().Foreground(Rose)
	t.ErrorBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Rose).
		Foreground(Rose).
		Padding(0, 1)
	t.Muted = lipgloss.NewStyle().Foreground(TextMuted)
	t.Spinner = lipgloss.NewStyle().Foreground(Cyan)

	t.DetailTitle = lipgloss.NewStyle().Bold(true).Foreground(TextPrimary)
	t.DetailMeta = lipgloss.NewStyle().Foreground(TextMuted)
	t.DetailBody = lipgloss.NewStyle().Foreground(TextPrimary).PaddingLeft(1)
	t.Comment = lipgloss.NewStyle().Foreground(TextPrimary).PaddingLeft(2)
	t.CommentMeta = lipgloss.NewStyle().Foreground(TextMuted).PaddingLeft(2)

	t.badge = lipgloss.NewStyle().Padding(0, 1).Foreground(TextInverse)
	return t
}

// renderBadge applies the badge background, or falls back to a bracketed
// label when the terminal reports no color support.
func (t *Theme) renderBadge(label string, c lipgloss.AdaptiveColor) string {
	if t.ColorProfile == termenv.Ascii {
		return "[" + label + "]"
	}
	return t.badge.Background(c).Render(label)
}

// StatusBadge renders a status label in its badge color.
func (t *Theme) StatusBadge(s model.Status) string {
	var c lipgloss.AdaptiveColor
	switch s {
	case model.StatusOpen:
		c = Emerald
	case model.StatusInProgress:
		c = Amber
	case model.StatusResolved:
		c = Blue
	case model.StatusClosed:
		c = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6C7086"}
	default:
		c = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6C7086"}
	}
	return t.renderBadge(s.Label(), c)
}

// PriorityBadge renders a priority label in its badge color.
func (t *Theme) PriorityBadge(p model.Priority) string {
	var c lipgloss.AdaptiveColor
	switch p {
	case model.PriorityLow:
		c = Emerald
	case model.PriorityMedium:
		c = Blue
	case model.PriorityHigh:
		c = Amber
	case model.PriorityCritical:
		c = Rose
	default:
		c = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6C7086"}
	}
	return t.renderBadge(p.Label(), c)
}
