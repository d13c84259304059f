// Package localstate keeps the signed-in identity in a JSON file so it
// survives restarts.
package localstate

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/wansatya/x.com/internal/model"
)

// State is the cached identity
type State struct {
	UserID      model.UserID          `json:"uid"`
	User        model.ProviderProfile `json:"user"`
	LastLoginAt time.Time             `json:"last_login_at"`
}

// Store reads and writes the state file. It is safe for concurrent use.
type Store struct {
	mu   sync.Mutex
	path string
}

// New creates a Store backed by path. The file is created on first save.
func New(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns ~/.wastegame/state.json, or a relative path when the
// home directory is unknown
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".wastegame", "state.json")
	}
	return filepath.Join(home, ".wastegame", "state.json")
}

// Path returns the backing file path
func (s *Store) Path() string {
	return s.path
}

// Load returns the cached state. ok is false when nothing is cached.
func (s *Store) Load() (state State, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() (State, bool, error) {
	var state State
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return state, false, nil // No state file is fine
		}
		return state, false, err
	}
	if err := json.Unmarshal(data, &state); err != nil {
		return state, false, fmt.Errorf("corrupt state file %s: %w", s.path, err)
	}
	return state, state.UserID != "", nil
}

// Save replaces the cached state
func (s *Store) Save(state State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(state)
}

func (s *Store) save(state State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	// Write then rename so a crash never leaves a half-written file
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Recall returns the cached user, or nil when nothing is cached. Only the
// identity fields survive; CreatedAt is zero.
func (s *Store) Recall() (*model.User, error) {
	state, ok, err := s.Load()
	if err != nil || !ok {
		return nil, err
	}
	return &model.User{
		ID:          state.UserID,
		Profile:     state.User,
		LastLoginAt: state.LastLoginAt,
	}, nil
}

// Remember caches user, replacing any previous identity
func (s *Store) Remember(user model.User) error {
	return s.Save(State{
		UserID:      user.ID,
		User:        user.Profile,
		LastLoginAt: user.LastLoginAt,
	})
}

// Forget removes the cached state
func (s *Store) Forget() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
