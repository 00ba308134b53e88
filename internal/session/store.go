// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the authenticated identity and bearer token.
//
// The store is the single owner of session state. Durable storage is
// exactly two files under the state directory: `token` (the opaque bearer
// string) and `user.json` (the serialized account record). Both are always
// written and removed together; no code path updates one without the other.
package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/jeranaias/helpdesk-tui/internal/model"
	"github.com/jeranaias/helpdesk-tui/internal/util"
)

const (
	tokenFile = "token"
	userFile  = "user.json"
)

// ErrNoSession indicates an operation that needs an authenticated session
// was attempted without one.
var ErrNoSession = errors.New("not logged in")

// Store holds the current identity in memory and mirrors it to disk so a
// restart can restore the session without re-authenticating.
type Store struct {
	mu    sync.RWMutex
	dir   string
	token string
	user  *model.User
}

// NewStore creates a session store rooted at dir. No disk access happens
// until Load or Set is called.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Set persists the token and user and updates the in-memory identity.
// Disk and memory are written together; on a disk error the in-memory
// state is left untouched.
func (s *Store) Set(token string, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := util.AtomicWriteFile(filepath.Join(s.dir, tokenFile), []byte(token), 0o600); err != nil {
		return err
	}
	if err := util.AtomicWriteFile(filepath.Join(s.dir, userFile), data, 0o600); err != nil {
		// Roll back the token so disk never holds half a session.
		os.Remove(filepath.Join(s.dir, tokenFile))
		return err
	}

	s.token = token
	s.user = user
	return nil
}

// Clear removes the session from memory and disk.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.user = nil

	err1 := os.Remove(filepath.Join(s.dir, tokenFile))
	err2 := os.Remove(filepath.Join(s.dir, userFile))
	if err1 != nil && !os.IsNotExist(err1) {
		return err1
	}
	if err2 != nil && !os.IsNotExist(err2) {
		return err2
	}
	return nil
}

// Load restores the identity from disk. It reports whether a session was
// restored: a missing token, a missing user record, or a user record that
// fails to parse all count as "no session", never as an error.
func (s *Store) Load() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	tokenData, err := os.ReadFile(filepath.Join(s.dir, tokenFile))
	if err != nil || len(tokenData) == 0 {
		s.token, s.user = "", nil
		return false
	}
	userData, err := os.ReadFile(filepath.Join(s.dir, userFile))
	if err != nil {
		s.token, s.user = "", nil
		return false
	}

	var user model.User
	if err := json.Unmarshal(userData, &user); err != nil {
		s.token, s.user = "", nil
		return false
	}

	s.token = string(tokenData)
	s.user = &user
	return true
}

// Token returns the current bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the current identity, or nil when logged out. The returned
// record is a copy; mutating it does not affect the store.
func (s *Store) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// LoggedIn reports whether an identity is present.
func (s *Store) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// Dir returns the state directory backing this store.
func (s *Store) Dir() string {
	return s.dir
}
