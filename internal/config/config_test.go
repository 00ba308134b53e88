// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Server.URL != DefaultServerURL {
		t.Errorf("default server url = %q", cfg.Server.URL)
	}
	if cfg.Server.TimeoutSecs != DefaultTimeoutSecs {
		t.Errorf("default timeout = %d", cfg.Server.TimeoutSecs)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestLoadFromPathTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
state_dir = "/tmp/hd-state"

[server]
url = "https://desk.example.org"
timeout_secs = 10

[ui]
mouse = false
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Server.URL != "https://desk.example.org" {
		t.Errorf("server url = %q", cfg.Server.URL)
	}
	if cfg.Server.TimeoutSecs != 10 {
		t.Errorf("timeout = %d", cfg.Server.TimeoutSecs)
	}
	if cfg.UI.Mouse {
		t.Error("mouse should be off")
	}
	if cfg.StateDir != "/tmp/hd-state" {
		t.Errorf("state dir = %q", cfg.StateDir)
	}
}

func TestLoadFromPathJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{"server":{"url":"http://10.0.0.5:8080","timeout_secs":5}}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Server.URL != "http://10.0.0.5:8080" {
		t.Errorf("server url = %q", cfg.Server.URL)
	}
}

func TestValidateRejectsBadURL(t *testing.T) {
	cfg := Default()
	cfg.Server.URL = "not a url"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for malformed url")
	}

	cfg = Default()
	cfg.Server.URL = "ftp://desk.example.org"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for non-http scheme")
	}
}

func TestValidateClampsTimeout(t *testing.T) {
	cfg := Default()
	cfg.Server.TimeoutSecs = 0
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.Server.TimeoutSecs != MinTimeoutSecs {
		t.Errorf("timeout not clamped up: %d", cfg.Server.TimeoutSecs)
	}

	cfg.Server.TimeoutSecs = 9999
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.Server.TimeoutSecs != MaxTimeoutSecs {
		t.Errorf("timeout not clamped down: %d", cfg.Server.TimeoutSecs)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("HELPDESK_SERVER_URL", "http://env.example.org")
	t.Setenv("HELPDESK_TIMEOUT_SECS", "15")
	t.Setenv("HELPDESK_MOUSE", "false")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Server.URL != "http://env.example.org" {
		t.Errorf("env server url not applied: %q", cfg.Server.URL)
	}
	if cfg.Server.TimeoutSecs != 15 {
		t.Errorf("env timeout not applied: %d", cfg.Server.TimeoutSecs)
	}
	if cfg.UI.Mouse {
		t.Error("env mouse override not applied")
	}
}

func TestApplyEnvOverridesIgnoresGarbage(t *testing.T) {
	t.Setenv("HELPDESK_TIMEOUT_SECS", "soon")
	cfg := Default()
	cfg.ApplyEnvOverrides()
	if cfg.Server.TimeoutSecs != DefaultTimeoutSecs {
		t.Errorf("garbage timeout should be ignored, got %d", cfg.Server.TimeoutSecs)
	}
}

func TestResolveStateDir(t *testing.T) {
	cfg := Default()
	cfg.StateDir = "/custom/state"
	dir, err := cfg.ResolveStateDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/custom/state" {
		t.Errorf("state dir = %q", dir)
	}
}
