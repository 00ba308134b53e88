// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tickets

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/helpdesk-tui/internal/api"
	"github.com/jeranaias/helpdesk-tui/internal/model"
	"github.com/jeranaias/helpdesk-tui/internal/storage"
	"github.com/jeranaias/helpdesk-tui/internal/ui/styles"
)

func newTestCreate(t *testing.T, drafts *storage.DraftStore) CreateModel {
	t.Helper()
	client := api.NewClient("http://localhost:1", nil)
	return NewCreate(styles.New(), client, drafts)
}

func TestCreateEmptyFormRejectedWithoutNetwork(t *testing.T) {
	m := newTestCreate(t, nil)

	// Whitespace only counts as empty.
	m.title.SetValue("   ")
	m.description.SetValue("")

	cmd := m.Submit()
	assert.Nil(t, cmd, "an invalid form must not produce a request command")
	assert.Equal(t, "Заполните заголовок и описание", m.Error())
}

func TestCreateValidFormSubmits(t *testing.T) {
	m := newTestCreate(t, nil)
	m.title.SetValue("Не работает почта")
	m.description.SetValue("Outlook не подключается с утра")

	cmd := m.Submit()
	require.NotNil(t, cmd)
	assert.Empty(t, m.Error())
	assert.True(t, m.submitting)
}

func TestCreateBackendErrorShownInForm(t *testing.T) {
	m := newTestCreate(t, nil)
	m, cmd := m.Update(TicketCreatedMsg{Err: &api.APIError{Status: 400, Message: "Слишком длинный заголовок"}})
	assert.Nil(t, cmd)
	assert.Equal(t, "Слишком длинный заголовок", m.Error())
	assert.Contains(t, m.View(), "Слишком длинный заголовок")
}

func TestCreateSuccessClosesForm(t *testing.T) {
	m := newTestCreate(t, nil)
	m, cmd := m.Update(TicketCreatedMsg{Ticket: &model.Ticket{ID: 9}})
	require.NotNil(t, cmd)

	closed, ok := cmd().(CloseCreateMsg)
	require.True(t, ok)
	assert.True(t, closed.Created)
	assert.Empty(t, m.Error())
}

func TestCreateEscSavesDraftAndRestores(t *testing.T) {
	drafts, err := storage.Open(t.TempDir() + "/drafts.db")
	require.NoError(t, err)
	defer drafts.Close()

	m := newTestCreate(t, drafts)
	m.title.SetValue("Черновик заявки")
	m.description.SetValue("Текст, который нельзя потерять")
	m.priority = 3

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	_, ok := cmd().(CloseCreateMsg)
	require.True(t, ok)

	restored := newTestCreate(t, drafts)
	assert.Equal(t, "Черновик заявки", restored.title.Value())
	assert.Equal(t, "Текст, который нельзя потерять", restored.description.Value())
	assert.Equal(t, 3, restored.priority)
}

func TestCreateSubmitClearsDraft(t *testing.T) {
	drafts, err := storage.Open(t.TempDir() + "/drafts.db")
	require.NoError(t, err)
	defer drafts.Close()

	m := newTestCreate(t, drafts)
	m.title.SetValue("Временная заявка")
	m.description.SetValue("Описание")
	m.SaveDraft()

	m, _ = m.Update(TicketCreatedMsg{Ticket: &model.Ticket{ID: 1}})

	restored := newTestCreate(t, drafts)
	assert.Empty(t, restored.title.Value())
}
