// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArgParserFlagFormats(t *testing.T) {
	p := NewArgParser([]string{"set", "--email", "ivan@corp.ru", "--server=http://h:8080", "--json", "extra"})

	assert.Equal(t, "set", p.Subcommand())
	assert.Equal(t, "ivan@corp.ru", p.Flag("email"))
	assert.Equal(t, "http://h:8080", p.Flag("server"))
	assert.True(t, p.BoolFlag("json"))
	assert.Equal(t, "extra", p.Positional(1))
	assert.Equal(t, "", p.Positional(5))
}

func TestArgParserExplicitBool(t *testing.T) {
	p := NewArgParser([]string{"--json=false", "--quiet=true"})
	assert.False(t, p.BoolFlag("json"))
	assert.True(t, p.BoolFlag("quiet"))
}

func TestArgParserDefaults(t *testing.T) {
	p := NewArgParser(nil)
	assert.Equal(t, "", p.Subcommand())
	assert.Equal(t, "fallback", p.FlagOrDefault("missing", "fallback"))
	assert.False(t, p.BoolFlag("missing"))
}
