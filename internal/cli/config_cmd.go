// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration command implementation.
//
// Command: config
// Short:   Show or change client configuration
//
// Examples:
//   helpdesk config                     Show current configuration
//   helpdesk config show                Same
//   helpdesk config path                Print the config file location
//   helpdesk config set server.url http://helpdesk.corp:8080
//   helpdesk config set ui.mouse false
package cli

import (
	"fmt"
	"strconv"

	"github.com/jeranaias/helpdesk-tui/internal/config"
)

// HandleConfig dispatches the config subcommands.
func HandleConfig(cfg *config.Config, args *ArgParser) error {
	switch args.Subcommand() {
	case "", "show":
		return configShow(cfg)
	case "path":
		path, err := config.PathTOML()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	case "set":
		return configSet(cfg, args.Positional(1), args.Positional(2))
	default:
		return fmt.Errorf("unknown config subcommand %q (expected show, set or path)", args.Subcommand())
	}
}

func configShow(cfg *config.Config) error {
	fmt.Println(statusTitleStyle.Render("Конфигурация"))
	fmt.Println(statusKeyStyle.Render("server.url") + cfg.Server.URL)
	fmt.Println(statusKeyStyle.Render("server.timeout_secs") + strconv.Itoa(cfg.Server.TimeoutSecs))
	fmt.Println(statusKeyStyle.Render("ui.mouse") + strconv.FormatBool(cfg.UI.Mouse))
	fmt.Println(statusKeyStyle.Render("ui.compact_rows") + strconv.FormatBool(cfg.UI.CompactRows))
	fmt.Println(statusKeyStyle.Render("ui.markdown") + strconv.FormatBool(cfg.UI.MarkdownDescriptions))
	return nil
}

func configSet(cfg *config.Config, key, value string) error {
	if key == "" || value == "" {
		return fmt.Errorf("usage: helpdesk config set <key> <value>")
	}

	switch key {
	case "server.url":
		cfg.Server.URL = value
	case "server.timeout_secs":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be a number: %w", key, err)
		}
		cfg.Server.TimeoutSecs = n
	case "ui.mouse", "ui.compact_rows", "ui.markdown":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false: %w", key, err)
		}
		switch key {
		case "ui.mouse":
			cfg.UI.Mouse = b
		case "ui.compact_rows":
			cfg.UI.CompactRows = b
		case "ui.markdown":
			cfg.UI.MarkdownDescriptions = b
		}
	default:
		return fmt.Errorf("unknown config key %q", key)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return err
	}
	fmt.Printf("%s = %s\n", key, value)
	return nil
}
