// Package redis provides a CredentialStore backed by Redis, for headless or
// CI environments where sessions are shared across hosts.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/tripwell/tripkit/pkg/domain"
)

// Store implements ports.CredentialStore using Redis.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures the Store.
type Option func(*Store)

// WithTTL sets the expiration for stored credentials.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for credentials.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "tripkit:credentials:",
		ttl:    0, // No expiration by default
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) tokenKey() string {
	return s.prefix + "token"
}

func (s *Store) userKey() string {
	return s.prefix + "user"
}

// SaveToken stores the raw token string.
func (s *Store) SaveToken(ctx context.Context, token string) error {
	if err := s.client.Set(ctx, s.tokenKey(), token, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save token to redis: %w", err)
	}
	return nil
}

// Token retrieves the stored token.
func (s *Store) Token(ctx context.Context) (string, error) {
	val, err := s.client.Get(ctx, s.tokenKey()).Result()
	if err != nil || val == "" {
		return "", domain.ErrNoCredentials
	}
	return val, nil
}

// RemoveToken deletes the token slot.
func (s *Store) RemoveToken(ctx context.Context) error {
	if err := s.client.Del(ctx, s.tokenKey()).Err(); err != nil {
		return fmt.Errorf("failed to remove token from redis: %w", err)
	}
	return nil
}

// SaveUser stores the serialized user record.
func (s *Store) SaveUser(ctx context.Context, user *domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	if err := s.client.Set(ctx, s.userKey(), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save user to redis: %w", err)
	}
	return nil
}

// User retrieves the stored user record.
func (s *Store) User(ctx context.Context) (*domain.User, error) {
	val, err := s.client.Get(ctx, s.userKey()).Bytes()
	if err != nil {
		return nil, domain.ErrNoCredentials
	}
	var u domain.User
	if err := json.Unmarshal(val, &u); err != nil {
		return nil, domain.ErrNoCredentials
	}
	return &u, nil
}

// RemoveUser deletes the user slot.
func (s *Store) RemoveUser(ctx context.Context) error {
	if err := s.client.Del(ctx, s.userKey()).Err(); err != nil {
		return fmt.Errorf("failed to remove user from redis: %w", err)
	}
	return nil
}

// ClearAll removes both slots in a single round trip.
func (s *Store) ClearAll(ctx context.Context) error {
	if err := s.client.Del(ctx, s.tokenKey(), s.userKey()).Err(); err != nil {
		return fmt.Errorf("failed to clear credentials from redis: %w", err)
	}
	return nil
}

// Ping verifies connectivity, surfacing configuration problems early.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis unreachable: %w", err)
	}
	return nil
}

// IsNotFound reports whether err is the redis nil-reply sentinel.
// Kept for callers that talk to the client directly.
func IsNotFound(err error) bool {
	return errors.Is(err, backend.Nil)
}
