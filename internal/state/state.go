// Package state holds the client-side session and view preferences: the
// authenticated identity, the theme flag, and the five filter parameters.
//
// Every mutation is persisted synchronously to a JSON file so that a
// restart rehydrates exactly the last requested state, mirroring what a
// browser client keeps in local storage.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"budgetwise/internal/core"
)

// Snapshot is the persisted shape of the client state.
type Snapshot struct {
	Token   string           `json:"token,omitempty"`
	User    *core.PublicUser `json:"user,omitempty"`
	Dark    bool             `json:"dark"`
	Filters core.Filters     `json:"filters"`
}

// Store owns the client state. All mutators persist before returning, so
// the last write to disk always reflects the last requested transition.
type Store struct {
	mu   sync.Mutex
	path string
	snap Snapshot
}

// Load rehydrates the store from path, falling back to defaults when the
// file does not exist yet.
func Load(path string) (*Store, error) {
	s := &Store{
		path: path,
		snap: Snapshot{Filters: core.DefaultFilters()},
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}
	if err := json.Unmarshal(data, &s.snap); err != nil {
		return nil, fmt.Errorf("decode state file: %w", err)
	}
	if s.snap.Filters == (core.Filters{}) {
		s.snap.Filters = core.DefaultFilters()
	}
	return s, nil
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snap
	if s.snap.User != nil {
		u := *s.snap.User
		snap.User = &u
	}
	return snap
}

// LoggedIn reports whether an identity is currently held.
func (s *Store) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Token != "" && s.snap.User != nil
}

// SetSession stores the identity returned by a successful login.
func (s *Store) SetSession(token string, user core.PublicUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Token = token
	s.snap.User = &user
	return s.persist()
}

// ClearSession drops both the identity and the cached token, so a later
// startup cannot resurrect a stale session.
func (s *Store) ClearSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Token = ""
	s.snap.User = nil
	return s.persist()
}

// ToggleTheme flips the dark-mode flag and returns the new value.
func (s *Store) ToggleTheme() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Dark = !s.snap.Dark
	return s.snap.Dark, s.persist()
}

// SetFilters replaces the view parameters.
func (s *Store) SetFilters(f core.Filters) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Filters = f
	return s.persist()
}

// persist writes the snapshot atomically: temp file then rename.
// Callers must hold s.mu.
func (s *Store) persist() error {
	data, err := json.MarshalIndent(s.snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create state directory: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
