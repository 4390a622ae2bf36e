package mockserver_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripwell/tripkit/internal/mockserver"
)

type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Errors  map[string][]string `json:"errors"`
}

func postJSON(t *testing.T, url, token string, body any) (*http.Response, envelope) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func registerAccount(t *testing.T, baseURL string) (token string) {
	t.Helper()
	resp, env := postJSON(t, baseURL+"/api/v1/register", "", map[string]string{
		"name":     "Test User",
		"email":    "test@example.com",
		"phone":    "+1000",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.True(t, env.Success)

	var payload struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	require.NotEmpty(t, payload.Token)
	return payload.Token
}

func TestRegisterLoginProfileFlow(t *testing.T) {
	srv := httptest.NewServer(mockserver.New().Handler())
	defer srv.Close()

	token := registerAccount(t, srv.URL)

	// Login with the same credentials.
	resp, env := postJSON(t, srv.URL+"/api/v1/login", "", map[string]string{
		"email":    "test@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)

	// Wrong password is a 401 with the canonical message.
	resp, env = postJSON(t, srv.URL+"/api/v1/login", "", map[string]string{
		"email":    "test@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, env.Success)
	assert.Equal(t, "Invalid credentials", env.Message)

	// Profile requires the token.
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/profile", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	profileResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer profileResp.Body.Close()
	assert.Equal(t, http.StatusOK, profileResp.StatusCode)
}

func TestRegisterValidation(t *testing.T) {
	srv := httptest.NewServer(mockserver.New().Handler())
	defer srv.Close()

	resp, env := postJSON(t, srv.URL+"/api/v1/register", "", map[string]string{
		"name":     "",
		"email":    "not-an-email",
		"password": "short",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.False(t, env.Success)
	assert.Contains(t, env.Errors, "name")
	assert.Contains(t, env.Errors, "email")
	assert.Contains(t, env.Errors, "password")
}

func TestSchemaValidationRejectsMalformedBody(t *testing.T) {
	srv := httptest.NewServer(mockserver.New().Handler())
	defer srv.Close()

	// Missing required fields fails OpenAPI validation before the handler.
	resp, env := postJSON(t, srv.URL+"/api/v1/login", "", map[string]string{"email": "a@b.com"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, env.Success)
}

func TestPaymentIdempotency(t *testing.T) {
	srv := httptest.NewServer(mockserver.New().Handler())
	defer srv.Close()

	token := registerAccount(t, srv.URL)

	_, env := postJSON(t, srv.URL+"/api/v1/bookings", token, map[string]any{
		"tour_id":                1,
		"booking_date":           time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		"number_of_participants": 2,
	})
	require.True(t, env.Success)

	var booking struct {
		ID         int64   `json:"id"`
		TotalPrice float64 `json:"total_price"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &booking))
	assert.Equal(t, float64(398), booking.TotalPrice) // 2 x 199

	payURL := fmt.Sprintf("%s/api/v1/bookings/%d/payment", srv.URL, booking.ID)
	payBody, _ := json.Marshal(map[string]any{"payment_type": "deposit", "payment_method": "card"})

	doPay := func(key string) envelope {
		req, err := http.NewRequest(http.MethodPost, payURL, bytes.NewReader(payBody))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Idempotency-Key", key)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		var env envelope
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
		return env
	}

	first := doPay("key-1")
	replay := doPay("key-1")
	require.True(t, first.Success)
	require.True(t, replay.Success)
	assert.JSONEq(t, string(first.Data), string(replay.Data), "same key must replay the same payment")

	var payment struct {
		Amount float64 `json:"amount"`
	}
	require.NoError(t, json.Unmarshal(first.Data, &payment))
	assert.InDelta(t, 119.4, payment.Amount, 0.001) // 30% of 398
}

func TestRevokeAllInvalidatesTokens(t *testing.T) {
	ms := mockserver.New()
	srv := httptest.NewServer(ms.Handler())
	defer srv.Close()

	token := registerAccount(t, srv.URL)
	ms.RevokeAll()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/profile", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
