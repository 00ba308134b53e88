// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model defines the helpdesk entities as the backend serves them.
//
// Every type here is an opaque record fetched over HTTP; the client never
// computes or validates entity internals beyond display formatting. Field
// names and JSON tags mirror the backend wire format exactly.
package model

import (
	"fmt"
	"time"
)

// Role is a user's authorization role. It only toggles which UI actions
// are offered; the backend is the sole authorization boundary.
type Role string

const (
	RoleUser     Role = "user"
	RoleOperator Role = "operator"
	RoleAdmin    Role = "admin"
)

// Roles lists all roles in the order the role selector offers them.
var Roles = []Role{RoleUser, RoleOperator, RoleAdmin}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleOperator, RoleAdmin:
		return true
	}
	return false
}

// ParseRole validates a role string from user input.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q (expected user, operator or admin)", s)
	}
	return r, nil
}

// User is an account record. Read-only from the client's perspective except
// for the admin role-edit action.
type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// FormatTime renders a timestamp the way the helpdesk UI displays dates:
// dd.mm.yyyy, hh:mm in local time. Zero times render empty.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("02.01.2006, 15:04")
}
