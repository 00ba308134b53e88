// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Status command implementation.
//
// Command: status
// Short:   Show server reachability and session state
// Aliases: s
//
// Examples:
//   helpdesk status           Human-readable status
//   helpdesk status --json    Structured output
package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/helpdesk-tui/internal/api"
	"github.com/jeranaias/helpdesk-tui/internal/config"
	"github.com/jeranaias/helpdesk-tui/internal/session"
)

var (
	statusTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	statusOKStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	statusBadStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusKeyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
)

// apiStatus returns the HTTP status carried by an API error, 0 for
// transport failures.
func apiStatus(err error) int {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// HandleStatus reports the server URL, reachability and session state.
func HandleStatus(cfg *config.Config, store *session.Store, args *ArgParser) error {
	loggedIn := store.Load()

	client := newClient(cfg, args, store)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Any HTTP answer proves reachability; a 401 counts just as well
	// as a 200 when no session is stored.
	_, pingErr := client.Request(ctx, http.MethodGet, "/api/tickets", nil)
	if pingErr != nil && apiStatus(pingErr) != 0 {
		pingErr = nil
	}
	reachable := pingErr == nil

	if args.BoolFlag("json") {
		user := ""
		if u := store.User(); u != nil {
			user = u.Username
		}
		fmt.Printf("{\"server\":%q,\"reachable\":%t,\"logged_in\":%t,\"user\":%q}\n",
			cfg.Server.URL, reachable, loggedIn, user)
		return nil
	}

	fmt.Println(statusTitleStyle.Render("Helpdesk"))
	fmt.Println(statusKeyStyle.Render("Сервер") + cfg.Server.URL)
	if reachable {
		fmt.Println(statusKeyStyle.Render("Доступен") + statusOKStyle.Render("да"))
	} else {
		fmt.Println(statusKeyStyle.Render("Доступен") + statusBadStyle.Render("нет: "+pingErr.Error()))
	}
	if loggedIn {
		u := store.User()
		fmt.Println(statusKeyStyle.Render("Сессия") + statusOKStyle.Render(fmt.Sprintf("%s (%s)", u.Username, u.Role)))
	} else {
		fmt.Println(statusKeyStyle.Render("Сессия") + statusBadStyle.Render("нет"))
	}
	return nil
}
