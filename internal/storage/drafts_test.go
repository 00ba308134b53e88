// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *DraftStore {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "drafts.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCommentDraftRoundTrip(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.CommentDraft(5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := store.SaveCommentDraft(5, "черновик ответа"); err != nil {
		t.Fatalf("SaveCommentDraft: %v", err)
	}
	content, err := store.CommentDraft(5)
	if err != nil {
		t.Fatalf("CommentDraft: %v", err)
	}
	if content != "черновик ответа" {
		t.Errorf("content = %q", content)
	}

	// Drafts are per ticket.
	if _, err := store.CommentDraft(6); !errors.Is(err, ErrNotFound) {
		t.Errorf("draft leaked to another ticket: %v", err)
	}

	// Saving again overwrites.
	if err := store.SaveCommentDraft(5, "v2"); err != nil {
		t.Fatal(err)
	}
	content, _ = store.CommentDraft(5)
	if content != "v2" {
		t.Errorf("overwrite content = %q", content)
	}
}

func TestSaveEmptyCommentDraftDeletes(t *testing.T) {
	store := openTestStore(t)
	if err := store.SaveCommentDraft(1, "text"); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveCommentDraft(1, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := store.CommentDraft(1); !errors.Is(err, ErrNotFound) {
		t.Errorf("empty save should delete the draft, got %v", err)
	}
}

func TestDeleteCommentDraftIdempotent(t *testing.T) {
	store := openTestStore(t)
	if err := store.DeleteCommentDraft(99); err != nil {
		t.Errorf("deleting a missing draft should not error: %v", err)
	}
}

func TestTicketDraftRoundTrip(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.TicketDraft(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	draft := TicketDraft{Title: "Не печатает", Description: "Принтер на 3 этаже", Priority: "high"}
	if err := store.SaveTicketDraft(draft); err != nil {
		t.Fatalf("SaveTicketDraft: %v", err)
	}

	got, err := store.TicketDraft()
	if err != nil {
		t.Fatalf("TicketDraft: %v", err)
	}
	if *got != draft {
		t.Errorf("draft = %+v, want %+v", got, draft)
	}

	if err := store.ClearTicketDraft(); err != nil {
		t.Fatal(err)
	}
	if _, err := store.TicketDraft(); !errors.Is(err, ErrNotFound) {
		t.Errorf("draft should be gone after clear, got %v", err)
	}
}

func TestDraftsSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drafts.db")

	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.SaveCommentDraft(3, "persist me"); err != nil {
		t.Fatal(err)
	}
	store.Close()

	store, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	content, err := store.CommentDraft(3)
	if err != nil {
		t.Fatalf("CommentDraft after reopen: %v", err)
	}
	if content != "persist me" {
		t.Errorf("content = %q", content)
	}
}
