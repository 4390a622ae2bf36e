package ports

import (
	"context"

	"github.com/tripwell/tripkit/pkg/domain"
)

// CredentialStore persists the authentication token and the user record in
// two independent slots that survive process restarts.
//
// Error discipline: readers convert every underlying failure (missing key,
// I/O error, corrupt payload) into domain.ErrNoCredentials; a raw storage
// error never escapes a read. Writers return the underlying error; callers
// decide whether a failed write is fatal.
type CredentialStore interface {
	// SaveToken stores the raw token string.
	SaveToken(ctx context.Context, token string) error

	// Token retrieves the stored token.
	// Returns domain.ErrNoCredentials if absent or unreadable.
	Token(ctx context.Context) (string, error)

	// RemoveToken deletes the token slot. Removing an absent token is not an error.
	RemoveToken(ctx context.Context) error

	// SaveUser stores the serialized user record.
	SaveUser(ctx context.Context, user *domain.User) error

	// User retrieves the stored user record.
	// Returns domain.ErrNoCredentials if absent, unreadable, or corrupt.
	User(ctx context.Context) (*domain.User, error)

	// RemoveUser deletes the user slot. Removing an absent user is not an error.
	RemoveUser(ctx context.Context) error

	// ClearAll removes both slots as a single logical operation.
	ClearAll(ctx context.Context) error
}
