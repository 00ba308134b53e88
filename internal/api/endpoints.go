// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jeranaias/helpdesk-tui/internal/model"
)

// Register creates an account and returns the issued credentials.
func (c *Client) Register(ctx context.Context, username, email, password string, role model.Role) (*Credentials, error) {
	body := map[string]any{
		"username": username,
		"email":    email,
		"password": password,
		"role":     role,
	}
	data, err := c.Request(ctx, http.MethodPost, "/api/auth/register", body)
	if err != nil {
		return nil, err
	}
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &creds, nil
}

// Login authenticates and returns the issued credentials.
func (c *Client) Login(ctx context.Context, email, password string) (*Credentials, error) {
	body := map[string]any{"email": email, "password": password}
	data, err := c.Request(ctx, http.MethodPost, "/api/auth/login", body)
	if err != nil {
		return nil, err
	}
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &creds, nil
}

// ListUsers returns all accounts. Admin only; the backend enforces.
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.get(ctx, "/api/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateRole changes a user's role.
func (c *Client) UpdateRole(ctx context.Context, id int, role model.Role) error {
	path := fmt.Sprintf("/api/users/%d/role", id)
	_, err := c.Request(ctx, http.MethodPut, path, map[string]any{"role": role})
	return err
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, id int) error {
	_, err := c.Request(ctx, http.MethodDelete, fmt.Sprintf("/api/users/%d", id), nil)
	return err
}

// CreateTicket files a new ticket.
func (c *Client) CreateTicket(ctx context.Context, title, description string, priority model.Priority) (*model.Ticket, error) {
	body := map[string]any{
		"title":       title,
		"description": description,
		"priority":    priority,
	}
	data, err := c.Request(ctx, http.MethodPost, "/api/tickets", body)
	if err != nil {
		return nil, err
	}
	var ticket model.Ticket
	if err := json.Unmarshal(data, &ticket); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &ticket, nil
}

// ListTickets returns the tickets visible to the current user, in backend
// order. Filtering is the caller's concern.
func (c *Client) ListTickets(ctx context.Context) ([]model.Ticket, error) {
	var tickets []model.Ticket
	if err := c.get(ctx, "/api/tickets", &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// GetTicket fetches one ticket by id.
func (c *Client) GetTicket(ctx context.Context, id int) (*model.Ticket, error) {
	var ticket model.Ticket
	if err := c.get(ctx, fmt.Sprintf("/api/tickets/%d", id), &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// UpdateTicket applies a partial update; nil fields stay unchanged.
func (c *Client) UpdateTicket(ctx context.Context, id int, update model.TicketUpdate) error {
	_, err := c.Request(ctx, http.MethodPut, fmt.Sprintf("/api/tickets/%d", id), update)
	return err
}

// DeleteTicket removes a ticket. Admin only; the backend enforces.
func (c *Client) DeleteTicket(ctx context.Context, id int) error {
	_, err := c.Request(ctx, http.MethodDelete, fmt.Sprintf("/api/tickets/%d", id), nil)
	return err
}

// ListComments returns a ticket's comments, oldest first.
func (c *Client) ListComments(ctx context.Context, ticketID int) ([]model.Comment, error) {
	var comments []model.Comment
	if err := c.get(ctx, fmt.Sprintf("/api/tickets/%d/comments", ticketID), &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// AddComment posts a comment to a ticket.
func (c *Client) AddComment(ctx context.Context, ticketID int, content string) (*model.Comment, error) {
	path := fmt.Sprintf("/api/tickets/%d/comments", ticketID)
	data, err := c.Request(ctx, http.MethodPost, path, map[string]any{"content": content})
	if err != nil {
		return nil, err
	}
	var comment model.Comment
	if err := json.Unmarshal(data, &comment); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &comment, nil
}

// DeleteComment removes a comment. Admin or operator; the backend enforces.
func (c *Client) DeleteComment(ctx context.Context, id int) error {
	_, err := c.Request(ctx, http.MethodDelete, fmt.Sprintf("/api/comments/%d", id), nil)
	return err
}
