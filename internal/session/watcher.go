// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher observes the session files on disk so a running TUI notices when
// another process logs in or out (e.g. `helpdesk-tui logout` in a second
// terminal). Events are debounced because an atomic write produces several
// fsnotify events for one logical change.
type Watcher struct {
	store    *Store
	watcher  *fsnotify.Watcher
	onChange func(loggedIn bool)
	debounce time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewWatcher creates a watcher over the store's state directory.
// onChange is called from the watcher goroutine after the store has been
// reloaded; loggedIn carries the new state.
func NewWatcher(store *Store, onChange func(loggedIn bool)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		store:    store,
		watcher:  fsw,
		onChange: onChange,
		debounce: 200 * time.Millisecond,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Watch starts observing the state directory.
func (w *Watcher) Watch() error {
	if err := w.watcher.Add(w.store.Dir()); err != nil {
		return err
	}
	go w.processEvents()
	return nil
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	w.cancel()
	return w.watcher.Close()
}

func (w *Watcher) processEvents() {
	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			name := filepath.Base(event.Name)
			if name != tokenFile && name != userFile {
				continue
			}
			// Restart the debounce window.
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			before := w.store.LoggedIn()
			loggedIn := w.store.Load()
			if loggedIn != before && w.onChange != nil {
				w.onChange(loggedIn)
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal; the session is still usable.
		}
	}
}
