package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripwell/tripkit/pkg/adapters/memory"
	"github.com/tripwell/tripkit/pkg/api"
	"github.com/tripwell/tripkit/pkg/domain"
	"github.com/tripwell/tripkit/pkg/session"
)

// backendScript is a minimal scripted backend: each route returns a fixed
// status and body, and every hit is counted.
type backendScript struct {
	responses map[string]scriptedResponse // "METHOD /path"
	hits      map[string]*atomic.Int32
}

type scriptedResponse struct {
	status int
	body   string
}

func newScript() *backendScript {
	return &backendScript{
		responses: make(map[string]scriptedResponse),
		hits:      make(map[string]*atomic.Int32),
	}
}

func (b *backendScript) on(method, path string, status int, body string) {
	key := method + " " + path
	b.responses[key] = scriptedResponse{status: status, body: body}
	b.hits[key] = &atomic.Int32{}
}

func (b *backendScript) count(method, path string) int32 {
	counter, ok := b.hits[method+" "+path]
	if !ok {
		return 0
	}
	return counter.Load()
}

func (b *backendScript) serve(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		resp, ok := b.responses[key]
		if !ok {
			t.Errorf("unexpected request: %s", key)
			http.NotFound(w, r)
			return
		}
		b.hits[key].Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(resp.status)
		w.Write([]byte(resp.body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

const loginOKBody = `{"success":true,"data":{"user":{"id":1,"name":"A","email":"a@b.com"},"token":"tok123"}}`

func newManager(t *testing.T, script *backendScript) (*session.Manager, *api.Client, *memory.Store) {
	t.Helper()
	srv := script.serve(t)
	client := api.New(srv.URL)
	store := memory.NewStore()
	mgr, err := session.NewManager(store, client)
	require.NoError(t, err)
	return mgr, client, store
}

func TestNewManager_NotConfigured(t *testing.T) {
	_, err := session.NewManager(nil, nil)
	assert.ErrorIs(t, err, domain.ErrNotConfigured)

	_, err = session.NewManager(memory.NewStore(), nil)
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestHydrate_BothSlotsPresent(t *testing.T) {
	ctx := context.Background()
	mgr, client, store := newManager(t, newScript())

	require.NoError(t, store.SaveToken(ctx, "tok123"))
	require.NoError(t, store.SaveUser(ctx, &domain.User{ID: 1, Name: "A", Email: "a@b.com"}))

	assert.True(t, mgr.Snapshot().Loading)

	snap := mgr.Hydrate(ctx)
	assert.False(t, snap.Loading)
	assert.True(t, snap.IsAuthenticated())
	assert.Equal(t, "tok123", snap.Token)
	assert.Equal(t, "A", snap.User.Name)
	assert.Equal(t, domain.StateAuthenticated, snap.State())
	// Header synchronized within the same operation.
	assert.Equal(t, "Bearer tok123", client.AuthHeader())
}

func TestHydrate_MissingSlotMeansUnauthenticated(t *testing.T) {
	ctx := context.Background()

	for name, prepare := range map[string]func(*memory.Store){
		"empty store": func(s *memory.Store) {},
		"token only":  func(s *memory.Store) { _ = s.SaveToken(ctx, "tok") },
		"user only":   func(s *memory.Store) { _ = s.SaveUser(ctx, &domain.User{ID: 1, Name: "A", Email: "a@b.com"}) },
	} {
		t.Run(name, func(t *testing.T) {
			mgr, client, store := newManager(t, newScript())
			prepare(store)

			snap := mgr.Hydrate(ctx)
			assert.False(t, snap.Loading, "loading clears regardless of outcome")
			assert.False(t, snap.IsAuthenticated())
			assert.Equal(t, domain.StateUnauthenticated, snap.State())
			assert.Equal(t, "", client.AuthHeader())
		})
	}
}

func TestLogin_Success(t *testing.T) {
	ctx := context.Background()
	script := newScript()
	script.on(http.MethodPost, "/api/v1/login", http.StatusOK, loginOKBody)
	mgr, client, store := newManager(t, script)

	res := mgr.Login(ctx, "a@b.com", "pw")
	require.True(t, res.Success)

	snap := mgr.Snapshot()
	assert.Equal(t, "tok123", snap.Token)
	assert.Equal(t, "A", snap.User.Name)
	assert.Equal(t, "Bearer tok123", client.AuthHeader())

	storedToken, err := store.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok123", storedToken)
	storedUser, err := store.User(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A", storedUser.Name)
}

func TestLogin_RejectionLeavesSessionUntouched(t *testing.T) {
	ctx := context.Background()
	script := newScript()
	script.on(http.MethodPost, "/api/v1/login", http.StatusUnauthorized,
		`{"success":false,"message":"Invalid credentials"}`)
	mgr, client, store := newManager(t, script)

	res := mgr.Login(ctx, "a@b.com", "wrong")
	assert.False(t, res.Success)
	assert.Equal(t, "Invalid credentials", res.Message)

	snap := mgr.Snapshot()
	assert.False(t, snap.IsAuthenticated())
	assert.Nil(t, snap.User)
	assert.Equal(t, "", client.AuthHeader())

	_, err := store.Token(ctx)
	assert.ErrorIs(t, err, domain.ErrNoCredentials, "no storage writes on failed login")
	_, err = store.User(ctx)
	assert.ErrorIs(t, err, domain.ErrNoCredentials)
}

func TestLogin_RejectionWithoutMessageUsesFallback(t *testing.T) {
	script := newScript()
	script.on(http.MethodPost, "/api/v1/login", http.StatusInternalServerError, `{"success":false}`)
	mgr, _, _ := newManager(t, script)

	res := mgr.Login(context.Background(), "a@b.com", "pw")
	assert.False(t, res.Success)
	assert.Equal(t, "Login failed. Please try again.", res.Message)
}

func TestLogin_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := api.New(srv.URL)
	mgr, err := session.NewManager(memory.NewStore(), client)
	require.NoError(t, err)

	res := mgr.Login(context.Background(), "a@b.com", "pw")
	assert.False(t, res.Success)
	assert.Equal(t, "Network error. Please check your connection.", res.Message)
	assert.False(t, mgr.Snapshot().IsAuthenticated())
}

func TestRegister_CarriesValidationErrors(t *testing.T) {
	script := newScript()
	script.on(http.MethodPost, "/api/v1/register", http.StatusUnprocessableEntity,
		`{"success":false,"message":"The given data was invalid.","errors":{"email":["The email has already been taken."]}}`)
	mgr, _, _ := newManager(t, script)

	res := mgr.Register(context.Background(), "A", "a@b.com", "", "pw123456")
	assert.False(t, res.Success)
	assert.Equal(t, "The given data was invalid.", res.Message)
	assert.Equal(t, []string{"The email has already been taken."}, res.Errors["email"])
}

func TestLogout_IsIdempotentAndSkipsBackendWithoutToken(t *testing.T) {
	ctx := context.Background()
	script := newScript()
	script.on(http.MethodPost, "/api/v1/logout", http.StatusOK, `{"success":true}`)
	mgr, client, _ := newManager(t, script)

	mgr.Logout(ctx)
	mgr.Logout(ctx)

	assert.False(t, mgr.Snapshot().IsAuthenticated())
	assert.Equal(t, "", client.AuthHeader())
	assert.EqualValues(t, 0, script.count(http.MethodPost, "/api/v1/logout"),
		"no token, no backend logout call")
}

func TestLogout_ClearsEverythingEvenWhenBackendFails(t *testing.T) {
	ctx := context.Background()
	script := newScript()
	script.on(http.MethodPost, "/api/v1/login", http.StatusOK, loginOKBody)
	srv := script.serve(t)

	client := api.New(srv.URL)
	store := memory.NewStore()
	mgr, err := session.NewManager(store, client)
	require.NoError(t, err)

	require.True(t, mgr.Login(ctx, "a@b.com", "pw").Success)

	// Kill the backend: the logout call becomes a transport error.
	srv.Close()
	mgr.Logout(ctx)

	snap := mgr.Snapshot()
	assert.False(t, snap.IsAuthenticated())
	assert.Nil(t, snap.User)
	assert.Equal(t, "", client.AuthHeader())
	_, err = store.Token(ctx)
	assert.ErrorIs(t, err, domain.ErrNoCredentials)
	_, err = store.User(ctx)
	assert.ErrorIs(t, err, domain.ErrNoCredentials)
}

func TestHeaderStateCoupling(t *testing.T) {
	ctx := context.Background()
	script := newScript()
	script.on(http.MethodPost, "/api/v1/login", http.StatusOK, loginOKBody)
	script.on(http.MethodPost, "/api/v1/logout", http.StatusOK, `{"success":true}`)
	mgr, client, _ := newManager(t, script)

	check := func() {
		snap := mgr.Snapshot()
		if snap.Token == "" {
			assert.Equal(t, "", client.AuthHeader())
		} else {
			assert.Equal(t, "Bearer "+snap.Token, client.AuthHeader())
		}
	}

	check()
	mgr.Login(ctx, "a@b.com", "pw")
	check()
	mgr.Logout(ctx)
	check()
	mgr.Login(ctx, "a@b.com", "pw")
	check()
	mgr.Logout(ctx)
	check()
}

func TestRefreshProfile_Success(t *testing.T) {
	ctx := context.Background()
	script := newScript()
	script.on(http.MethodPost, "/api/v1/login", http.StatusOK, loginOKBody)
	script.on(http.MethodGet, "/api/v1/profile", http.StatusOK,
		`{"success":true,"data":{"id":1,"name":"A Renamed","email":"a@b.com"}}`)
	mgr, _, store := newManager(t, script)

	require.True(t, mgr.Login(ctx, "a@b.com", "pw").Success)

	res := mgr.RefreshProfile(ctx)
	require.True(t, res.Success)
	assert.Equal(t, "A Renamed", mgr.Snapshot().User.Name)

	stored, err := store.User(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A Renamed", stored.Name)
}

func TestRefreshProfile_AuthRejectionCascades(t *testing.T) {
	ctx := context.Background()
	script := newScript()
	script.on(http.MethodPost, "/api/v1/login", http.StatusOK, loginOKBody)
	script.on(http.MethodGet, "/api/v1/profile", http.StatusUnauthorized,
		`{"success":false,"message":"Unauthenticated."}`)
	mgr, client, store := newManager(t, script)

	require.True(t, mgr.Login(ctx, "a@b.com", "pw").Success)

	res := mgr.RefreshProfile(ctx)
	assert.False(t, res.Success)

	// Identical end state to an explicit logout.
	snap := mgr.Snapshot()
	assert.False(t, snap.IsAuthenticated())
	assert.Nil(t, snap.User)
	assert.Equal(t, "", client.AuthHeader())
	_, err := store.Token(ctx)
	assert.ErrorIs(t, err, domain.ErrNoCredentials)
	_, err = store.User(ctx)
	assert.ErrorIs(t, err, domain.ErrNoCredentials)
}

func TestRefreshProfile_SoftFailureKeepsStaleProfile(t *testing.T) {
	ctx := context.Background()
	script := newScript()
	script.on(http.MethodPost, "/api/v1/login", http.StatusOK, loginOKBody)
	script.on(http.MethodGet, "/api/v1/profile", http.StatusInternalServerError,
		`{"success":false,"message":"Server exploded"}`)
	mgr, client, _ := newManager(t, script)

	require.True(t, mgr.Login(ctx, "a@b.com", "pw").Success)

	res := mgr.RefreshProfile(ctx)
	assert.False(t, res.Success)

	snap := mgr.Snapshot()
	assert.True(t, snap.IsAuthenticated(), "non-auth failures leave the session alone")
	assert.Equal(t, "A", snap.User.Name)
	assert.Equal(t, "Bearer tok123", client.AuthHeader())
}

func TestUpdateProfile_Success(t *testing.T) {
	ctx := context.Background()
	script := newScript()
	script.on(http.MethodPost, "/api/v1/login", http.StatusOK, loginOKBody)
	script.on(http.MethodPut, "/api/v1/profile", http.StatusOK,
		`{"success":true,"data":{"id":1,"name":"B","email":"a@b.com","phone":"+31"}}`)
	mgr, _, store := newManager(t, script)

	require.True(t, mgr.Login(ctx, "a@b.com", "pw").Success)

	res := mgr.UpdateProfile(ctx, map[string]any{"name": "B", "phone": "+31"})
	require.True(t, res.Success)

	snap := mgr.Snapshot()
	assert.True(t, snap.IsAuthenticated(), "profile update does not touch auth state")
	assert.Equal(t, "B", snap.User.Name)
	assert.Equal(t, "+31", snap.User.Phone)

	stored, err := store.User(ctx)
	require.NoError(t, err)
	assert.Equal(t, "B", stored.Name)
}

func TestUpdateProfile_ValidationFailureKeepsSession(t *testing.T) {
	ctx := context.Background()
	script := newScript()
	script.on(http.MethodPost, "/api/v1/login", http.StatusOK, loginOKBody)
	script.on(http.MethodPut, "/api/v1/profile", http.StatusUnprocessableEntity,
		`{"success":false,"message":"The given data was invalid.","errors":{"name":["The name field is required."]}}`)
	mgr, _, _ := newManager(t, script)

	require.True(t, mgr.Login(ctx, "a@b.com", "pw").Success)

	res := mgr.UpdateProfile(ctx, map[string]any{"name": ""})
	assert.False(t, res.Success)
	assert.Equal(t, []string{"The name field is required."}, res.Errors["name"])
	assert.True(t, mgr.Snapshot().IsAuthenticated())
	assert.Equal(t, "A", mgr.Snapshot().User.Name)
}

func TestUpdateProfile_AuthRejectionCascades(t *testing.T) {
	ctx := context.Background()
	script := newScript()
	script.on(http.MethodPost, "/api/v1/login", http.StatusOK, loginOKBody)
	script.on(http.MethodPut, "/api/v1/profile", http.StatusUnauthorized,
		`{"success":false,"message":"Unauthenticated."}`)
	mgr, client, store := newManager(t, script)

	require.True(t, mgr.Login(ctx, "a@b.com", "pw").Success)

	res := mgr.UpdateProfile(ctx, map[string]any{"name": "B"})
	assert.False(t, res.Success)

	// A stale token invalidates the whole session, not just the update.
	snap := mgr.Snapshot()
	assert.False(t, snap.IsAuthenticated())
	assert.Nil(t, snap.User)
	assert.Equal(t, "", client.AuthHeader())
	_, err := store.Token(ctx)
	assert.ErrorIs(t, err, domain.ErrNoCredentials)
	_, err = store.User(ctx)
	assert.ErrorIs(t, err, domain.ErrNoCredentials)
}

func TestExternalAuthRejectionClearsSession(t *testing.T) {
	ctx := context.Background()
	script := newScript()
	script.on(http.MethodPost, "/api/v1/login", http.StatusOK, loginOKBody)
	script.on(http.MethodGet, "/api/v1/my-bookings", http.StatusUnauthorized,
		`{"success":false,"message":"Unauthenticated."}`)
	mgr, client, store := newManager(t, script)

	require.True(t, mgr.Login(ctx, "a@b.com", "pw").Success)

	// A request issued outside the manager gets rejected; the hook runs
	// the same cascade.
	_, err := client.MyBookings(ctx)
	require.Error(t, err)

	snap := mgr.Snapshot()
	assert.False(t, snap.IsAuthenticated())
	assert.Equal(t, "", client.AuthHeader())
	_, err = store.Token(ctx)
	assert.ErrorIs(t, err, domain.ErrNoCredentials)
}
