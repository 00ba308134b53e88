// helpdesk - terminal client for the helpdesk ticketing system.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/helpdesk-tui/internal/api"
	"github.com/jeranaias/helpdesk-tui/internal/cli"
	"github.com/jeranaias/helpdesk-tui/internal/config"
	"github.com/jeranaias/helpdesk-tui/internal/session"
	"github.com/jeranaias/helpdesk-tui/internal/storage"
	"github.com/jeranaias/helpdesk-tui/internal/ui/app"
	"github.com/jeranaias/helpdesk-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	stateDir, err := cfg.ResolveStateDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	store := session.NewStore(stateDir)

	switch cmd {
	case cli.CmdTUI:
		runTUI(cfg, store, stateDir)
	case cli.CmdLogin:
		exitOnError(cli.HandleLogin(cfg, store, args))
	case cli.CmdRegister:
		exitOnError(cli.HandleRegister(cfg, store, args))
	case cli.CmdLogout:
		exitOnError(cli.HandleLogout(store))
	case cli.CmdWhoami:
		exitOnError(cli.HandleWhoami(store, args))
	case cli.CmdStatus:
		exitOnError(cli.HandleStatus(cfg, store, args))
	case cli.CmdConfig:
		exitOnError(cli.HandleConfig(cfg, args))
	case cli.CmdVersion:
		cli.HandleVersion(args)
	case cli.CmdHelp:
		cli.HandleHelp()
	}
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(cfg *config.Config, store *session.Store, stateDir string) {
	store.Load()

	client := api.NewClient(cfg.Server.URL, store).
		WithTimeout(time.Duration(cfg.Server.TimeoutSecs) * time.Second)

	// Draft storage is best effort; the TUI runs without it.
	drafts, err := storage.Open(filepath.Join(stateDir, "drafts.db"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: draft store unavailable: %v\n", err)
		drafts = nil
	} else {
		defer drafts.Close()
	}

	// Watch the session directory so a logout from another process drops
	// this instance back to the login screen.
	events := make(chan app.SessionChangedMsg, 1)
	watcher, err := session.NewWatcher(store, func(loggedIn bool) {
		select {
		case events <- app.SessionChangedMsg{LoggedIn: loggedIn}:
		default:
		}
	})
	if err == nil {
		if watchErr := watcher.Watch(); watchErr == nil {
			defer watcher.Close()
		}
	}

	root := app.New(cfg, styles.New(), client, store, drafts, events)

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	if _, err := tea.NewProgram(root, opts...).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
