// Package memory provides an in-memory CredentialStore, useful for tests
// and for ephemeral sessions that should not outlive the process.
package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/tripwell/tripkit/pkg/domain"
)

// Store implements ports.CredentialStore backed by process memory.
type Store struct {
	mu    sync.RWMutex
	token string
	user  []byte // serialized, to mirror the durability boundary of real stores
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{}
}

// SaveToken stores the token.
func (s *Store) SaveToken(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

// Token retrieves the token.
func (s *Store) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", domain.ErrNoCredentials
	}
	return s.token, nil
}

// RemoveToken deletes the token slot.
func (s *Store) RemoveToken(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

// SaveUser stores the user record.
func (s *Store) SaveUser(ctx context.Context, user *domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = data
	return nil
}

// User retrieves the user record.
func (s *Store) User(ctx context.Context) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil, domain.ErrNoCredentials
	}
	var u domain.User
	if err := json.Unmarshal(s.user, &u); err != nil {
		return nil, domain.ErrNoCredentials
	}
	return &u, nil
}

// RemoveUser deletes the user slot.
func (s *Store) RemoveUser(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	return nil
}

// ClearAll removes both slots.
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	return nil
}
