package ports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripwell/tripkit/pkg/domain"
)

// RunCredentialStoreContract runs a suite of tests to verify that a
// CredentialStore implementation adheres to the defined interface contract.
func RunCredentialStoreContract(t *testing.T, store CredentialStore) {
	ctx := context.Background()

	t.Run("Empty Reads", func(t *testing.T) {
		_, err := store.Token(ctx)
		assert.ErrorIs(t, err, domain.ErrNoCredentials)

		_, err = store.User(ctx)
		assert.ErrorIs(t, err, domain.ErrNoCredentials)
	})

	t.Run("Token Round Trip", func(t *testing.T) {
		err := store.SaveToken(ctx, "tok-contract-123")
		require.NoError(t, err)

		tok, err := store.Token(ctx)
		require.NoError(t, err)
		assert.Equal(t, "tok-contract-123", tok)

		err = store.RemoveToken(ctx)
		require.NoError(t, err)

		_, err = store.Token(ctx)
		assert.ErrorIs(t, err, domain.ErrNoCredentials)
	})

	t.Run("User Round Trip", func(t *testing.T) {
		user := &domain.User{
			ID:    7,
			Name:  "Contract Tester",
			Email: "contract@example.com",
			Phone: "+100000000",
			Extra: map[string]any{"avatar": "https://example.com/a.png"},
		}

		err := store.SaveUser(ctx, user)
		require.NoError(t, err)

		loaded, err := store.User(ctx)
		require.NoError(t, err)
		assert.Equal(t, user.ID, loaded.ID)
		assert.Equal(t, user.Name, loaded.Name)
		assert.Equal(t, user.Email, loaded.Email)
		assert.Equal(t, user.Phone, loaded.Phone)
		assert.Equal(t, "https://example.com/a.png", loaded.Extra["avatar"])

		err = store.RemoveUser(ctx)
		require.NoError(t, err)

		_, err = store.User(ctx)
		assert.ErrorIs(t, err, domain.ErrNoCredentials)
	})

	t.Run("Remove Is Idempotent", func(t *testing.T) {
		require.NoError(t, store.RemoveToken(ctx))
		require.NoError(t, store.RemoveToken(ctx))
		require.NoError(t, store.RemoveUser(ctx))
		require.NoError(t, store.RemoveUser(ctx))
	})

	t.Run("ClearAll", func(t *testing.T) {
		require.NoError(t, store.SaveToken(ctx, "tok-clear"))
		require.NoError(t, store.SaveUser(ctx, &domain.User{ID: 1, Name: "X", Email: "x@example.com"}))

		err := store.ClearAll(ctx)
		require.NoError(t, err)

		_, err = store.Token(ctx)
		assert.ErrorIs(t, err, domain.ErrNoCredentials)
		_, err = store.User(ctx)
		assert.ErrorIs(t, err, domain.ErrNoCredentials)

		// Clearing an already-empty store is fine too.
		assert.NoError(t, store.ClearAll(ctx))
	})
}
