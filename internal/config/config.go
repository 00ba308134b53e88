// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading for helpdesk-tui.
//
// Supports both TOML and JSON configuration formats, with sensible
// defaults, `.env` loading, and HELPDESK_* environment variable overrides.
//
// Configuration file locations (in order of precedence):
//   - ~/.helpdesk-tui/config.toml
//   - ~/.helpdesk-tui/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/jeranaias/helpdesk-tui/internal/util"
)

// Timeout bounds for a single request round trip. The client performs no
// retries, so a generous upper bound is acceptable.
const (
	MinTimeoutSecs     = 1
	MaxTimeoutSecs     = 120
	DefaultTimeoutSecs = 30
)

// DefaultServerURL is the backend the web client shipped against.
const DefaultServerURL = "http://localhost:8080"

// Config represents the complete helpdesk-tui configuration.
type Config struct {
	// Server is the base URL of the helpdesk backend.
	Server ServerConfig `toml:"server" json:"server"`

	// UI tweaks presentation only.
	UI UIConfig `toml:"ui" json:"ui"`

	// StateDir overrides where session and draft state live.
	// Empty means ~/.helpdesk-tui.
	StateDir string `toml:"state_dir" json:"state_dir"`
}

// ServerConfig contains backend connection settings.
type ServerConfig struct {
	// URL is the backend base URL, e.g. "http://localhost:8080".
	URL string `toml:"url" json:"url"`
	// TimeoutSecs bounds a single request round trip.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
}

// UIConfig contains presentation settings.
type UIConfig struct {
	// Mouse enables mouse support in the TUI.
	Mouse bool `toml:"mouse" json:"mouse"`
	// CompactRows drops the meta line under each ticket row.
	CompactRows bool `toml:"compact_rows" json:"compact_rows"`
	// MarkdownDescriptions renders ticket descriptions through glamour.
	MarkdownDescriptions bool `toml:"markdown_descriptions" json:"markdown_descriptions"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL:         DefaultServerURL,
			TimeoutSecs: DefaultTimeoutSecs,
		},
		UI: UIConfig{
			Mouse:                true,
			CompactRows:          false,
			MarkdownDescriptions: true,
		},
	}
}

// Dir returns the configuration directory (~/.helpdesk-tui).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".helpdesk-tui"), nil
}

// PathTOML returns the TOML config file path.
func PathTOML() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// PathJSON returns the JSON config file path.
func PathJSON() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the configuration: defaults, then config.toml or config.json,
// then `.env` from the working directory, then HELPDESK_* environment
// overrides. A missing config file is not an error.
func Load() (*Config, error) {
	cfg := Default()

	tomlPath, err := PathTOML()
	if err != nil {
		return nil, err
	}
	if err := loadTOML(cfg, tomlPath); err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(tomlPath); os.IsNotExist(statErr) {
		// No TOML config, fall back to JSON.
		jsonPath, err := PathJSON()
		if err != nil {
			return nil, err
		}
		if err := loadJSON(cfg, jsonPath); err != nil {
			return nil, err
		}
	}

	// .env is optional; ignore absence.
	_ = godotenv.Load()
	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath reads a specific config file, inferring the format from the
// extension. Used by tests and --config.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	var err error
	if strings.HasSuffix(path, ".json") {
		err = loadJSON(cfg, path)
	} else {
		err = loadTOML(cfg, path)
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadTOML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func loadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// Save writes the configuration as TOML atomically.
func Save(cfg *Config) error {
	path, err := PathTOML()
	if err != nil {
		return err
	}
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return util.AtomicWriteFile(path, []byte(sb.String()), 0o600)
}

// ApplyEnvOverrides applies HELPDESK_* environment variables on top of the
// loaded configuration. Invalid values are ignored in favor of the loaded
// ones; startup must not fail on a stray variable.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("HELPDESK_SERVER_URL"); v != "" {
		c.Server.URL = v
	}
	if v := os.Getenv("HELPDESK_TIMEOUT_SECS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.Server.TimeoutSecs = secs
		}
	}
	if v := os.Getenv("HELPDESK_STATE_DIR"); v != "" {
		c.StateDir = v
	}
	if v := os.Getenv("HELPDESK_MOUSE"); v != "" {
		c.UI.Mouse = v == "1" || strings.EqualFold(v, "true")
	}
}

// Validate checks the configuration, clamping the timeout into its valid
// range rather than rejecting it.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid server url %q", c.Server.URL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server url must be http or https, got %q", u.Scheme)
	}

	if c.Server.TimeoutSecs < MinTimeoutSecs {
		c.Server.TimeoutSecs = MinTimeoutSecs
	}
	if c.Server.TimeoutSecs > MaxTimeoutSecs {
		c.Server.TimeoutSecs = MaxTimeoutSecs
	}
	return nil
}

// ResolveStateDir returns the directory for session and draft state,
// honoring the StateDir override.
func (c *Config) ResolveStateDir() (string, error) {
	if c.StateDir != "" {
		return c.StateDir, nil
	}
	return Dir()
}
