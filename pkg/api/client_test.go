package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripwell/tripkit/internal/metrics"
	"github.com/tripwell/tripkit/pkg/api"
)

func TestAuthHeaderLifecycle(t *testing.T) {
	var seenAuth atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenAuth.Store(r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":[]}`))
	}))
	defer srv.Close()

	client := api.New(srv.URL)
	ctx := context.Background()

	// No token: no Authorization header at all.
	_, err := client.ListTours(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", seenAuth.Load())
	assert.Equal(t, "", client.AuthHeader())

	// Token set: every subsequent request carries it implicitly.
	client.SetAuthToken("tok123")
	assert.Equal(t, "Bearer tok123", client.AuthHeader())
	_, err = client.ListTours(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok123", seenAuth.Load())

	// Cleared: the key is removed, not blanked.
	client.ClearAuthToken()
	_, err = client.ListTours(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", seenAuth.Load())
	assert.Equal(t, "", client.AuthHeader())
}

func TestTransportErrorClassification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := api.New(srv.URL)
	_, err := client.ListTours(context.Background())
	require.Error(t, err)
	assert.True(t, api.IsTransport(err))
	assert.False(t, api.IsAuthFailure(err))
}

func TestRejectionCarriesBackendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"success":false,"message":"The given data was invalid.","errors":{"email":["taken"]}}`))
	}))
	defer srv.Close()

	client := api.New(srv.URL)
	_, err := client.Register(context.Background(), "A", "a@b.com", "", "pw123456")
	require.Error(t, err)
	assert.False(t, api.IsTransport(err))
	assert.Equal(t, "The given data was invalid.", api.RejectionMessage(err))
	assert.Equal(t, []string{"taken"}, api.ValidationErrors(err)["email"])
}

func TestAuthRejectHookFiresOnlyForAuthenticatedRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"Unauthenticated."}`))
	}))
	defer srv.Close()

	var fired atomic.Int32
	client := api.New(srv.URL)
	client.OnAuthReject(func() { fired.Add(1) })

	// 401 on an unauthenticated request (bad login) is a plain rejection:
	// there is no credential to invalidate.
	_, err := client.Login(context.Background(), "a@b.com", "wrong")
	require.Error(t, err)
	assert.True(t, api.IsAuthFailure(err))
	assert.EqualValues(t, 0, fired.Load())

	// 401 on a token-bearing request is a credential rejection.
	client.SetAuthToken("stale")
	_, err = client.Profile(context.Background())
	require.Error(t, err)
	assert.True(t, api.IsAuthFailure(err))
	assert.EqualValues(t, 1, fired.Load())
}

func TestMalformedSuccessBodyFailsPredictably(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{half a body`))
	}))
	defer srv.Close()

	client := api.New(srv.URL)
	_, err := client.ListTours(context.Background())
	require.Error(t, err)
	assert.False(t, api.IsTransport(err))
	assert.Equal(t, "malformed response from server", api.RejectionMessage(err))
}

func TestLoginDecodesUserAndToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"user":{"id":1,"name":"A","email":"a@b.com","membership":"gold"},"token":"tok123"}}`))
	}))
	defer srv.Close()

	client := api.New(srv.URL)
	resp, err := client.Login(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok123", resp.Token)
	assert.Equal(t, int64(1), resp.User.ID)
	assert.Equal(t, "A", resp.User.Name)
	// Backend-defined fields survive decoding.
	assert.Equal(t, "gold", resp.User.Extra["membership"])
}

func TestRequestMetricsTrackOutcomes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/api/v1/login" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"success":false,"message":"Invalid credentials"}`))
			return
		}
		w.Write([]byte(`{"success":true,"data":[]}`))
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	client := api.New(srv.URL, api.WithMetrics(metrics.NewRecorder(reg)))
	ctx := context.Background()

	_, err := client.ListTours(ctx)
	require.NoError(t, err)
	_, err = client.Login(ctx, "a@b.com", "wrong")
	require.Error(t, err)

	counts := map[string]float64{}
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "tripkit_api_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "outcome" {
					counts[lp.GetValue()] += m.GetCounter().GetValue()
				}
			}
		}
	}
	assert.Equal(t, float64(1), counts["ok"])
	assert.Equal(t, float64(1), counts["rejected"])
}
