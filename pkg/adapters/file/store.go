// Package file provides a CredentialStore persisted to a single JSON file on
// the local filesystem, optionally encrypted at rest.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/tripwell/tripkit/pkg/domain"
)

// DefaultFileName is the credentials file created under the base directory.
const DefaultFileName = "credentials.json"

// Store implements ports.CredentialStore using the local filesystem.
// All writes are atomic (temp file + fsync + rename) and the file is
// created with 0600 permissions since it holds a live credential.
type Store struct {
	path   string
	sealer *sealer

	mu sync.Mutex
}

// Option configures the Store.
type Option func(*Store) error

// WithEncryptionKeyFile enables AES-GCM encryption at rest. The key is
// derived from the 32 random bytes in keyPath via HKDF-SHA256; the keyfile
// is created on first use if missing.
func WithEncryptionKeyFile(keyPath string) Option {
	return func(s *Store) error {
		sl, err := newSealerFromKeyFile(keyPath)
		if err != nil {
			return fmt.Errorf("failed to initialize credential encryption: %w", err)
		}
		s.sealer = sl
		return nil
	}
}

// New creates a Store writing to dir. If dir is empty, it defaults to
// ".tripkit" in the current directory.
func New(dir string, opts ...Option) (*Store, error) {
	if dir == "" {
		dir = ".tripkit"
	}
	s := &Store{path: filepath.Join(dir, DefaultFileName)}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// SaveToken stores the raw token string.
func (s *Store) SaveToken(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(func(p *domain.Credentials) { p.Token = token })
}

// Token retrieves the stored token.
func (s *Store) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.load()
	if err != nil || p.Token == "" {
		return "", domain.ErrNoCredentials
	}
	return p.Token, nil
}

// RemoveToken deletes the token slot.
func (s *Store) RemoveToken(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(func(p *domain.Credentials) { p.Token = "" })
}

// SaveUser stores the user record.
func (s *Store) SaveUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(func(p *domain.Credentials) { p.User = user })
}

// User retrieves the stored user record.
func (s *Store) User(ctx context.Context) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.load()
	if err != nil || p.User == nil {
		return nil, domain.ErrNoCredentials
	}
	return p.User, nil
}

// RemoveUser deletes the user slot.
func (s *Store) RemoveUser(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(func(p *domain.Credentials) { p.User = nil })
}

// ClearAll removes both slots by deleting the credentials file.
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove credentials file: %w", err)
	}
	return nil
}

// load reads and decodes the current credential pair. Any failure (missing
// file, unreadable, corrupt, undecryptable) yields an empty pair and an error;
// callers translate that into domain.ErrNoCredentials.
func (s *Store) load() (domain.Credentials, error) {
	var p domain.Credentials

	data, err := os.ReadFile(s.path)
	if err != nil {
		return p, err
	}

	if s.sealer != nil {
		data, err = s.sealer.open(data)
		if err != nil {
			return p, err
		}
	}

	if err := json.Unmarshal(data, &p); err != nil {
		return p, err
	}
	return p, nil
}

// update applies fn to the current credential pair and persists the result
// atomically. An unreadable existing file is treated as empty rather than
// fatal, so a corrupt store heals on the next write.
func (s *Store) update(fn func(*domain.Credentials)) error {
	p, _ := s.load()
	fn(&p)

	if p.Token == "" && p.User == nil {
		// Nothing left to keep; drop the file instead of writing an empty one.
		if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove credentials file: %w", err)
		}
		return nil
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	if s.sealer != nil {
		data, err = s.sealer.seal(data)
		if err != nil {
			return fmt.Errorf("failed to encrypt credentials: %w", err)
		}
	}

	return s.writeAtomic(data)
}

// writeAtomic persists data via a temp file in the same directory, fsync,
// and rename, so readers never observe a partial credentials file.
func (s *Store) writeAtomic(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to ensure credentials directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, "tmp-credentials-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	if err := tmpFile.Chmod(0600); err != nil {
		return fmt.Errorf("failed to restrict credentials file mode: %w", err)
	}
	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to rename temp file to credentials file: %w", err)
	}
	return nil
}
