// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "time"

// Status is a ticket lifecycle state.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

// Statuses lists all statuses in selector order.
var Statuses = []Status{StatusOpen, StatusInProgress, StatusResolved, StatusClosed}

var statusLabels = map[Status]string{
	StatusOpen:       "Открыт",
	StatusInProgress: "В работе",
	StatusResolved:   "Решён",
	StatusClosed:     "Закрыт",
}

// Label returns the display label for the status, falling back to the raw
// value for statuses this client version does not know.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Priority is a ticket urgency level.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Priorities lists all priorities in selector order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

var priorityLabels = map[Priority]string{
	PriorityLow:      "Низкий",
	PriorityMedium:   "Средний",
	PriorityHigh:     "Высокий",
	PriorityCritical: "Критический",
}

// Label returns the display label for the priority, falling back to the
// raw value for unknown priorities.
func (p Priority) Label() string {
	if l, ok := priorityLabels[p]; ok {
		return l
	}
	return string(p)
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	_, ok := priorityLabels[p]
	return ok
}

// Ticket is a support request record. Created by a user, status/priority
// mutated by permitted roles, deleted by admin.
type Ticket struct {
	ID           int       `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Status       Status    `json:"status"`
	Priority     Priority  `json:"priority"`
	AuthorID     int       `json:"author_id"`
	AuthorName   string    `json:"author_name"`
	AssignedTo   *int      `json:"assigned_to"`
	AssigneeName *string   `json:"assignee_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TicketUpdate is the partial-update payload for PUT /api/tickets/{id}.
// Nil fields are omitted and left unchanged by the backend.
type TicketUpdate struct {
	Status   *Status   `json:"status,omitempty"`
	Priority *Priority `json:"priority,omitempty"`
	Assignee *int      `json:"assigned_to,omitempty"`
}
