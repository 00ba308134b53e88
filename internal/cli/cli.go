// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Command parsing for the helpdesk client.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdLogin
	CmdRegister
	CmdLogout
	CmdWhoami
	CmdStatus
	CmdConfig
	CmdVersion
	CmdHelp
)

const usageText = `helpdesk - terminal client for the helpdesk ticketing system

Usage:
  helpdesk                    Start the TUI (default)
  helpdesk login              Log in and store the session
  helpdesk register           Create an account
  helpdesk logout             Clear the stored session
  helpdesk whoami             Show the logged-in user
  helpdesk status             Show server and session status
  helpdesk config [show|set|path]  Configuration
  helpdesk version            Show version information
  helpdesk help               Show this help

Flags:
  --server URL       Override the server URL for this invocation
  --email EMAIL      Email for login/register (prompted when omitted)
  --username NAME    Username for register (prompted when omitted)
  --json             Machine-readable output where supported

Environment:
  HELPDESK_SERVER_URL    Server URL override
  HELPDESK_STATE_DIR     Session and config directory override
`

// Parse reads os.Args and selects the command to run.
func Parse() (Command, *ArgParser) {
	raw := os.Args[1:]
	if len(raw) == 0 {
		return CmdTUI, NewArgParser(nil)
	}

	cmd := strings.ToLower(raw[0])
	args := NewArgParser(raw[1:])

	switch cmd {
	case "tui":
		return CmdTUI, args
	case "login":
		return CmdLogin, args
	case "register":
		return CmdRegister, args
	case "logout":
		return CmdLogout, args
	case "whoami", "me":
		return CmdWhoami, args
	case "status", "s":
		return CmdStatus, args
	case "config":
		return CmdConfig, args
	case "version", "-v", "--version":
		return CmdVersion, args
	case "help", "-h", "--help":
		return CmdHelp, args
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		return CmdHelp, args
	}
}

// HandleHelp prints usage.
func HandleHelp() {
	fmt.Print(usageText)
}

// HandleVersion prints build information.
func HandleVersion(args *ArgParser) {
	if args.BoolFlag("json") {
		fmt.Printf("{\"version\":%q,\"commit\":%q,\"built\":%q}\n", Version, GitCommit, BuildDate)
		return
	}
	fmt.Printf("helpdesk %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
}
