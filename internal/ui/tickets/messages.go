// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tickets provides the ticket list, create form, and detail views.
//
// This file defines the Bubble Tea messages the views exchange. Every
// fetch result carries the sequence number or ticket id it was issued
// for, so a response that arrives after the user has navigated elsewhere
// is recognized and dropped instead of overwriting another view's state.
package tickets

import "github.com/jeranaias/helpdesk-tui/internal/model"

// ListLoadedMsg delivers the ticket collection.
type ListLoadedMsg struct {
	Seq     int
	Tickets []model.Ticket
	Err     error
}

// DetailLoadedMsg delivers a ticket and its comments together. The pair is
// fetched with a fan-out/join: both succeeded, or Err holds the first
// failure and both payloads are nil.
type DetailLoadedMsg struct {
	TicketID int
	Ticket   *model.Ticket
	Comments []model.Comment
	Err      error
}

// TicketCreatedMsg reports the create-ticket call.
type TicketCreatedMsg struct {
	Ticket *model.Ticket
	Err    error
}

// TicketSavedMsg reports a status/priority update.
type TicketSavedMsg struct {
	TicketID int
	Err      error
}

// TicketDeletedMsg reports a ticket deletion.
type TicketDeletedMsg struct {
	TicketID int
	Err      error
}

// CommentAddedMsg reports a comment submission.
type CommentAddedMsg struct {
	TicketID int
	Err      error
}

// CommentDeletedMsg reports a comment deletion.
type CommentDeletedMsg struct {
	TicketID  int
	CommentID int
	Err       error
}

// OpenTicketMsg asks the router to show the detail page for a ticket.
type OpenTicketMsg struct {
	ID int
}

// BackToListMsg asks the router to return to the ticket list.
type BackToListMsg struct{}

// OpenCreateMsg asks the list view to open the create-ticket form.
type OpenCreateMsg struct{}

// CloseCreateMsg closes the create-ticket form; Created reports whether a
// ticket was filed (and the list should refresh).
type CloseCreateMsg struct {
	Created bool
}
