// Package session is the client-local session state: who is logged in,
// which project each user last had open, and the local credential stub.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

var (
	ErrUserExists = errors.New("a user with this email already exists")
)

// Store holds all client-local state in one JSON file: the current user,
// the per-user last-opened-project pointer, and the user→password map.
//
// Credentials are kept in cleartext. That mirrors the browser localStorage
// stub this replaces and is NOT a production credential store.
type Store struct {
	path string

	mu   sync.Mutex
	data state
}

type state struct {
	CurrentUser  string            `json:"current_user,omitempty"`
	LastProjects map[string]string `json:"last_projects"`
	Users        map[string]string `json:"users"`
}

// Open loads the session file, creating empty state when it does not exist.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	s.data.LastProjects = make(map[string]string)
	s.data.Users = make(map[string]string)

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("parse session file: %w", err)
	}
	if s.data.LastProjects == nil {
		s.data.LastProjects = make(map[string]string)
	}
	if s.data.Users == nil {
		s.data.Users = make(map[string]string)
	}
	return s, nil
}

// save writes the whole state back. Callers hold s.mu.
func (s *Store) save() error {
	raw, err := json.MarshalIndent(&s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session state: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create session dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

func (s *Store) CurrentUser() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.CurrentUser
}

func (s *Store) SetCurrentUser(user string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.CurrentUser = user
	return s.save()
}

func (s *Store) ClearCurrentUser() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.CurrentUser = ""
	return s.save()
}

// LastProject returns the remembered project id for user, or "".
func (s *Store) LastProject(user string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.LastProjects[user]
}

func (s *Store) SetLastProject(user, projectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.LastProjects[user] = projectID
	return s.save()
}

// ClearLastProject drops a pointer that no longer resolves on the server.
func (s *Store) ClearLastProject(user string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data.LastProjects, user)
	return s.save()
}

// Register records a new local user. It fails when the email is taken.
func (s *Store) Register(email, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.Users[email]; ok {
		return ErrUserExists
	}
	s.data.Users[email] = password
	return s.save()
}

// Authenticate reports whether the credentials match a registered user.
func (s *Store) Authenticate(email, password string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.data.Users[email]
	return ok && stored == password
}
