// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestRoleValid(t *testing.T) {
	for _, r := range Roles {
		if !r.Valid() {
			t.Errorf("role %q should be valid", r)
		}
	}
	if Role("superadmin").Valid() {
		t.Error("unknown role accepted")
	}
}

func TestParseRole(t *testing.T) {
	if _, err := ParseRole("operator"); err != nil {
		t.Errorf("ParseRole(operator): %v", err)
	}
	if _, err := ParseRole("root"); err == nil {
		t.Error("ParseRole(root) should fail")
	}
}

func TestStatusLabels(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusOpen, "Открыт"},
		{StatusInProgress, "В работе"},
		{StatusResolved, "Решён"},
		{StatusClosed, "Закрыт"},
		{Status("archived"), "archived"}, // unknown passes through
	}
	for _, tt := range tests {
		if got := tt.status.Label(); got != tt.want {
			t.Errorf("Status(%q).Label() = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestPriorityLabels(t *testing.T) {
	if got := PriorityCritical.Label(); got != "Критический" {
		t.Errorf("critical label = %q", got)
	}
	if got := Priority("urgent").Label(); got != "urgent" {
		t.Errorf("unknown priority label = %q", got)
	}
}

func TestTicketJSONRoundTrip(t *testing.T) {
	// Wire format as the backend produces it, assignee null.
	raw := `{"id":7,"title":"Не работает печать","description":"Принтер молчит",
		"status":"open","priority":"high","author_id":3,"author_name":"ivan",
		"assigned_to":null,"assignee_name":null,
		"created_at":"2025-06-01T10:00:00Z","updated_at":"2025-06-01T10:00:00Z"}`

	var tk Ticket
	if err := json.Unmarshal([]byte(raw), &tk); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if tk.ID != 7 || tk.Status != StatusOpen || tk.Priority != PriorityHigh {
		t.Errorf("unexpected ticket: %+v", tk)
	}
	if tk.AssigneeName != nil {
		t.Errorf("assignee_name should stay nil")
	}
}

func TestTicketUpdateOmitsNilFields(t *testing.T) {
	pr := PriorityLow
	data, err := json.Marshal(TicketUpdate{Priority: &pr})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"priority":"low"}` {
		t.Errorf("payload = %s", data)
	}
}

func TestFormatTime(t *testing.T) {
	if got := FormatTime(time.Time{}); got != "" {
		t.Errorf("zero time should render empty, got %q", got)
	}
	ts := time.Date(2025, 6, 1, 10, 30, 0, 0, time.Local)
	if got := FormatTime(ts); got != "01.06.2025, 10:30" {
		t.Errorf("FormatTime = %q", got)
	}
}
