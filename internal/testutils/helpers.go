package testutils

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tripwell/tripkit/internal/mockserver"
	"github.com/tripwell/tripkit/pkg/adapters/memory"
	"github.com/tripwell/tripkit/pkg/api"
	"github.com/tripwell/tripkit/pkg/session"
)

// StartBackend runs an in-process API double and returns it together with
// its base URL. The server is torn down with the test.
func StartBackend(t *testing.T, opts ...mockserver.Option) (*mockserver.Server, string) {
	t.Helper()

	backend := mockserver.New(opts...)
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	return backend, srv.URL
}

// NewSession wires a memory-backed session manager against baseURL.
// It fails the test immediately on configuration errors.
func NewSession(t *testing.T, baseURL string) (*session.Manager, *api.Client) {
	t.Helper()

	client := api.New(baseURL)
	mgr, err := session.NewManager(memory.NewStore(), client)
	require.NoError(t, err, "Failed to build session manager")

	return mgr, client
}
