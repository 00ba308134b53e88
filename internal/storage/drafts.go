// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage preserves unsent user input across restarts.
//
// Drafts are the one thing this client keeps locally: comment text typed
// but not yet submitted, and an unsubmitted create-ticket form. Backend
// entities are never stored here; the displayed state always comes from
// the last fetch.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrNotFound indicates no draft exists for the requested key.
var ErrNotFound = errors.New("draft not found")

const schema = `
CREATE TABLE IF NOT EXISTS comment_drafts (
	ticket_id  INTEGER PRIMARY KEY,
	content    TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS ticket_draft (
	id          INTEGER PRIMARY KEY CHECK (id = 1),
	title       TEXT NOT NULL,
	description TEXT NOT NULL,
	priority    TEXT NOT NULL,
	updated_at  TIMESTAMP NOT NULL
);
`

// TicketDraft is the unsubmitted create-ticket form.
type TicketDraft struct {
	Title       string
	Description string
	Priority    string
}

// DraftStore persists drafts in a SQLite database under the state dir.
type DraftStore struct {
	db *sql.DB
}

// Open opens (creating if needed) the draft database at path.
func Open(path string) (*DraftStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open draft database: %w", err)
	}
	// A single writer is enough; the TUI is the only user.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize draft database: %w", err)
	}
	return &DraftStore{db: db}, nil
}

// Close releases the database.
func (s *DraftStore) Close() error {
	return s.db.Close()
}

// CommentDraft returns the saved comment text for a ticket, or ErrNotFound.
func (s *DraftStore) CommentDraft(ticketID int) (string, error) {
	var content string
	err := s.db.QueryRow(
		`SELECT content FROM comment_drafts WHERE ticket_id = ?`, ticketID,
	).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return content, nil
}

// SaveCommentDraft stores comment text for a ticket. Empty content removes
// the draft instead of storing an empty row.
func (s *DraftStore) SaveCommentDraft(ticketID int, content string) error {
	if content == "" {
		return s.DeleteCommentDraft(ticketID)
	}
	_, err := s.db.Exec(
		`INSERT INTO comment_drafts (ticket_id, content, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(ticket_id) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`,
		ticketID, content, time.Now().UTC(),
	)
	return err
}

// DeleteCommentDraft removes a ticket's comment draft. Deleting a draft
// that does not exist is not an error.
func (s *DraftStore) DeleteCommentDraft(ticketID int) error {
	_, err := s.db.Exec(`DELETE FROM comment_drafts WHERE ticket_id = ?`, ticketID)
	return err
}

// TicketDraft returns the unsubmitted create-ticket form, or ErrNotFound.
func (s *DraftStore) TicketDraft() (*TicketDraft, error) {
	var d TicketDraft
	err := s.db.QueryRow(
		`SELECT title, description, priority FROM ticket_draft WHERE id = 1`,
	).Scan(&d.Title, &d.Description, &d.Priority)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// SaveTicketDraft stores the create-ticket form.
func (s *DraftStore) SaveTicketDraft(d TicketDraft) error {
	if d.Title == "" && d.Description == "" {
		return s.ClearTicketDraft()
	}
	_, err := s.db.Exec(
		`INSERT INTO ticket_draft (id, title, description, priority, updated_at) VALUES (1, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET title = excluded.title, description = excluded.description,
		 priority = excluded.priority, updated_at = excluded.updated_at`,
		d.Title, d.Description, d.Priority, time.Now().UTC(),
	)
	return err
}

// ClearTicketDraft removes the create-ticket form draft.
func (s *DraftStore) ClearTicketDraft() error {
	_, err := s.db.Exec(`DELETE FROM ticket_draft WHERE id = 1`)
	return err
}
