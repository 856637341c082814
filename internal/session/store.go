package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"

	"pepesbook/internal/model"
)

// SessionFileName is the fixed name of the persisted session inside the
// state directory.
const SessionFileName = "session.json"

// persistedSession is the on-disk shape of the session. Only the session
// survives restarts; every other cache starts empty.
type persistedSession struct {
	CurrentUser     *model.User `json:"current_user"`
	IsAuthenticated bool        `json:"is_authenticated"`
}

// Store holds the identity of the currently logged-in user. All access goes
// through the mutex so the stores can be used from multiple goroutines.
type Store struct {
	mu            sync.RWMutex
	path          string
	user          *model.User
	authenticated bool
}

// NewStore loads any persisted session from stateDir. A missing or corrupt
// session file yields an empty (logged out) store, not an error.
func NewStore(stateDir string) (*Store, error) {
	if err := os.MkdirAll(stateDir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	s := &Store{path: filepath.Join(stateDir, SessionFileName)}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var saved persistedSession
	if err := json.Unmarshal(data, &saved); err != nil {
		log.Printf("[Session] ignoring corrupt session file %s: %v", s.path, err)
		return s, nil
	}

	s.user = saved.CurrentUser
	s.authenticated = saved.IsAuthenticated && saved.CurrentUser != nil
	return s, nil
}

// Login sets the session identity to the given user and marks it active.
func (s *Store) Login(user model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := user
	s.user = &u
	s.authenticated = true
	s.save()
	log.Printf("[Session] Login OK: user=%d", user.ID)
}

// Logout clears the identity and the active flag.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.authenticated = false
	s.save()
	log.Printf("[Session] Logout OK")
}

// UpdateUser shallow-merges the given fields into the current identity. It is
// a no-op unless the id matches the active session, so a stray update for a
// different user can never corrupt it.
func (s *Store) UpdateUser(partial model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil || s.user.ID != partial.ID {
		return
	}

	merged := s.user.Merge(partial)
	s.user = &merged
	s.save()
	log.Printf("[Session] UpdateUser OK: user=%d", partial.ID)
}

// CurrentUser returns the active identity, if any.
func (s *Store) CurrentUser() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.authenticated || s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

// Authenticated reports whether a session is active.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated && s.user != nil
}

// save persists the session. Best effort: the in-memory session stays
// authoritative for the running process even when the disk write fails.
// Callers must hold the write lock.
func (s *Store) save() {
	data, err := json.MarshalIndent(persistedSession{
		CurrentUser:     s.user,
		IsAuthenticated: s.authenticated,
	}, "", "  ")
	if err != nil {
		log.Printf("[Session] save FAILED: marshal err=%v", err)
		return
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		log.Printf("[Session] save FAILED: write err=%v", err)
		return
	}
	if err := os.Rename(tmp, s.path); err != nil {
		log.Printf("[Session] save FAILED: rename err=%v", err)
	}
}
