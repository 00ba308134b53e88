// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tickets

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/helpdesk-tui/internal/api"
	"github.com/jeranaias/helpdesk-tui/internal/model"
)

// requestTimeout bounds each background fetch issued by the views.
const requestTimeout = 30 * time.Second

// LoadListCmd fetches the ticket collection. seq ties the response to the
// refresh that requested it.
func LoadListCmd(client *api.Client, seq int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		tickets, err := client.ListTickets(ctx)
		return ListLoadedMsg{Seq: seq, Tickets: tickets, Err: err}
	}
}

// LoadDetailCmd fetches a ticket and its comments concurrently. Both must
// succeed before the detail view renders; the first failure cancels the
// sibling fetch and wins.
func LoadDetailCmd(client *api.Client, id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		var (
			mu       sync.Mutex
			firstErr error
			ticket   *model.Ticket
			comments []model.Comment
			wg       sync.WaitGroup
		)
		fail := func(err error) {
			mu.Lock()
			defer mu.Unlock()
			if firstErr == nil {
				firstErr = err
				cancel()
			}
		}

		wg.Add(2)
		go func() {
			defer wg.Done()
			t, err := client.GetTicket(ctx, id)
			if err != nil {
				fail(err)
				return
			}
			mu.Lock()
			ticket = t
			mu.Unlock()
		}()
		go func() {
			defer wg.Done()
			c, err := client.ListComments(ctx, id)
			if err != nil {
				fail(err)
				return
			}
			mu.Lock()
			comments = c
			mu.Unlock()
		}()
		wg.Wait()

		if firstErr != nil {
			return DetailLoadedMsg{TicketID: id, Err: firstErr}
		}
		return DetailLoadedMsg{TicketID: id, Ticket: ticket, Comments: comments}
	}
}

// CreateTicketCmd files a new ticket.
func CreateTicketCmd(client *api.Client, title, description string, priority model.Priority) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		ticket, err := client.CreateTicket(ctx, title, description, priority)
		return TicketCreatedMsg{Ticket: ticket, Err: err}
	}
}

// SaveTicketCmd applies a status/priority update.
func SaveTicketCmd(client *api.Client, id int, update model.TicketUpdate) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		err := client.UpdateTicket(ctx, id, update)
		return TicketSavedMsg{TicketID: id, Err: err}
	}
}

// DeleteTicketCmd removes a ticket.
func DeleteTicketCmd(client *api.Client, id int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		err := client.DeleteTicket(ctx, id)
		return TicketDeletedMsg{TicketID: id, Err: err}
	}
}

// AddCommentCmd posts a comment.
func AddCommentCmd(client *api.Client, ticketID int, content string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		_, err := client.AddComment(ctx, ticketID, content)
		return CommentAddedMsg{TicketID: ticketID, Err: err}
	}
}

// DeleteCommentCmd removes a comment.
func DeleteCommentCmd(client *api.Client, ticketID, commentID int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		err := client.DeleteComment(ctx, commentID)
		return CommentDeletedMsg{TicketID: ticketID, CommentID: commentID, Err: err}
	}
}
