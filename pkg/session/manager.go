package session

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/tripwell/tripkit/internal/logging"
	"github.com/tripwell/tripkit/pkg/api"
	"github.com/tripwell/tripkit/pkg/domain"
	"github.com/tripwell/tripkit/pkg/ports"
)

// Fallback messages shown when the backend gives no failure message.
const (
	loginFallback    = "Login failed. Please try again."
	registerFallback = "Registration failed. Please try again."
	updateFallback   = "Update failed. Please try again."
	refreshFallback  = "Could not refresh profile."
	networkFallback  = "Network error. Please check your connection."
)

// Backend is the slice of the API client the session manager drives.
// *api.Client satisfies it.
type Backend interface {
	Login(ctx context.Context, email, password string) (*api.AuthResponse, error)
	Register(ctx context.Context, name, email, phone, password string) (*api.AuthResponse, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*domain.User, error)
	UpdateProfile(ctx context.Context, fields map[string]any) (*domain.User, error)

	SetAuthToken(token string)
	ClearAuthToken()
	OnAuthReject(fn func())
}

// Session is the consumer contract: a read-only view of the current session
// plus the operations that mutate it. Screens and commands hold a Session,
// never the store or the header map directly.
type Session interface {
	Snapshot() domain.Snapshot
	Hydrate(ctx context.Context) domain.Snapshot
	Login(ctx context.Context, email, password string) domain.Result
	Register(ctx context.Context, name, email, phone, password string) domain.Result
	Logout(ctx context.Context)
	UpdateProfile(ctx context.Context, fields map[string]any) domain.Result
	RefreshProfile(ctx context.Context) domain.Result
}

// Manager orchestrates the session lifecycle. All mutating operations are
// serialized under one mutex: within an operation the header mutation, the
// persistent write and the in-memory update form a single critical section,
// so no observer sees the token and the header disagree.
type Manager struct {
	store   ports.CredentialStore
	backend Backend
	logger  *slog.Logger

	mu      sync.Mutex
	token   string
	user    *domain.User
	loading bool

	// inOp is true while a manager operation holds mu. The auth-reject hook
	// checks it to avoid re-entering the lock: an operation that triggered
	// the rejection handles the cascade itself.
	inOp atomic.Bool
}

var _ Session = (*Manager)(nil)

// Option configures the Manager.
type Option func(*Manager)

// WithLogger sets a structured logger for lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates the session manager. Both collaborators are required;
// a nil store or backend is a configuration error, reported immediately
// rather than at first use.
func NewManager(store ports.CredentialStore, backend Backend, opts ...Option) (*Manager, error) {
	if store == nil || backend == nil {
		return nil, domain.ErrNotConfigured
	}
	m := &Manager{
		store:   store,
		backend: backend,
		logger:  logging.NewNop(),
		loading: true,
	}
	for _, opt := range opts {
		opt(m)
	}

	// Requests issued outside the manager (tours, bookings) report
	// credential rejections here.
	backend.OnAuthReject(m.handleAuthReject)

	return m, nil
}

// Snapshot returns a read-only copy of the current session state.
func (m *Manager) Snapshot() domain.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() domain.Snapshot {
	snap := domain.Snapshot{Token: m.token, Loading: m.loading}
	if m.user != nil {
		u := *m.user
		snap.User = &u
	}
	return snap
}

// Hydrate restores the session from the credential store. It runs once at
// startup: with both slots present the session becomes authenticated and the
// Authorization header is set before Hydrate returns; with either slot
// missing it becomes unauthenticated. The loading flag clears either way.
func (m *Manager) Hydrate(ctx context.Context) domain.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inOp.Store(true)
	defer m.inOp.Store(false)

	token, tokenErr := m.store.Token(ctx)
	user, userErr := m.store.User(ctx)

	// The loading flag clears regardless of the outcome.
	m.loading = false

	if tokenErr != nil || userErr != nil {
		m.logger.Debug("no stored session", "has_token", tokenErr == nil, "has_user", userErr == nil)
		return m.snapshotLocked()
	}

	m.backend.SetAuthToken(token)
	m.token = token
	m.user = user
	m.logger.Debug("session restored", "email", user.Email)
	return m.snapshotLocked()
}

// Login authenticates with email and password. On success the header, the
// store and the in-memory state are updated in that order before returning.
func (m *Manager) Login(ctx context.Context, email, password string) domain.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inOp.Store(true)
	defer m.inOp.Store(false)

	resp, err := m.backend.Login(ctx, email, password)
	if err != nil {
		m.logger.Debug("login failed", "err", err)
		return failResult(err, loginFallback)
	}

	m.installCredentialsLocked(ctx, resp.Token, resp.User)
	return domain.OK()
}

// Register creates an account; its contract matches Login, with field-level
// validation errors carried through on failure.
func (m *Manager) Register(ctx context.Context, name, email, phone, password string) domain.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inOp.Store(true)
	defer m.inOp.Store(false)

	resp, err := m.backend.Register(ctx, name, email, phone, password)
	if err != nil {
		m.logger.Debug("registration failed", "err", err)
		res := failResult(err, registerFallback)
		res.Errors = api.ValidationErrors(err)
		return res
	}

	m.installCredentialsLocked(ctx, resp.Token, resp.User)
	return domain.OK()
}

// Logout ends the session. The backend call is best-effort: its failure is
// logged and local cleanup runs regardless. Logging out while already
// unauthenticated is a no-op and makes no backend call.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inOp.Store(true)
	defer m.inOp.Store(false)

	if m.token != "" {
		if err := m.backend.Logout(ctx); err != nil {
			m.logger.Warn("backend logout failed, clearing local session anyway", "err", err)
		}
	}
	m.clearLocked(ctx)
}

// UpdateProfile submits a partial profile update. Authentication state is
// unchanged on success and on validation failure; a credential rejection
// runs the invalidation cascade.
func (m *Manager) UpdateProfile(ctx context.Context, fields map[string]any) domain.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inOp.Store(true)
	defer m.inOp.Store(false)

	user, err := m.backend.UpdateProfile(ctx, fields)
	if err != nil {
		if api.IsAuthFailure(err) {
			m.logger.Info("credential rejected during profile update, clearing session")
			m.clearLocked(ctx)
		}
		res := failResult(err, updateFallback)
		res.Errors = api.ValidationErrors(err)
		return res
	}

	m.persistUserLocked(ctx, user)
	return domain.OK()
}

// RefreshProfile re-fetches the profile. This is a soft refresh: transport
// or server failures leave the session unchanged (a stale profile is
// acceptable), but a credential rejection invalidates the session exactly
// like an explicit Logout.
func (m *Manager) RefreshProfile(ctx context.Context) domain.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inOp.Store(true)
	defer m.inOp.Store(false)

	if m.token == "" {
		return domain.Fail("", refreshFallback)
	}

	user, err := m.backend.Profile(ctx)
	if err != nil {
		if api.IsAuthFailure(err) {
			m.logger.Info("credential rejected during profile refresh, clearing session")
			m.clearLocked(ctx)
		} else {
			m.logger.Debug("profile refresh failed, keeping stale profile", "err", err)
		}
		return failResult(err, refreshFallback)
	}

	m.persistUserLocked(ctx, user)
	return domain.OK()
}

// handleAuthReject is registered on the API client. It runs the invalidation
// cascade for 401s on requests issued outside the manager. When a manager
// operation is in flight, that operation owns the cascade and this is a no-op.
func (m *Manager) handleAuthReject() {
	if m.inOp.Load() {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == "" {
		return
	}
	m.logger.Info("credential rejected by backend, clearing session")
	m.clearLocked(context.Background())
}

// installCredentialsLocked applies a fresh credential set: header first,
// then the persistent store, then memory. A failed persistent write is
// logged and tolerated; the in-memory session proceeds optimistically.
func (m *Manager) installCredentialsLocked(ctx context.Context, token string, user *domain.User) {
	m.backend.SetAuthToken(token)

	if err := m.store.SaveToken(ctx, token); err != nil {
		m.logger.Warn("failed to persist token; session will not survive restart", "err", err)
	}
	if err := m.store.SaveUser(ctx, user); err != nil {
		m.logger.Warn("failed to persist user", "err", err)
	}

	m.token = token
	m.user = user
}

// persistUserLocked replaces the in-memory user and mirrors it to the store.
func (m *Manager) persistUserLocked(ctx context.Context, user *domain.User) {
	if err := m.store.SaveUser(ctx, user); err != nil {
		m.logger.Warn("failed to persist user", "err", err)
	}
	m.user = user
}

// clearLocked wipes the header, the store and memory. Cleanup is
// unconditional; a store failure is logged, never surfaced.
func (m *Manager) clearLocked(ctx context.Context) {
	m.backend.ClearAuthToken()
	if err := m.store.ClearAll(ctx); err != nil {
		m.logger.Warn("failed to clear credential store", "err", err)
	}
	m.token = ""
	m.user = nil
}

// failResult maps a client error to the caller-facing Result shape.
func failResult(err error, fallback string) domain.Result {
	if api.IsTransport(err) {
		return domain.Fail("", networkFallback)
	}
	return domain.Fail(api.RejectionMessage(err), fallback)
}
