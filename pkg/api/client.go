// Package api is the HTTP binding to the tours backend.
//
// A single Client instance is shared by the whole application. Its default
// header map is the one piece of mutable shared state in the SDK: the session
// manager writes the Authorization header there, and every request issued
// through the client picks it up without callers passing it explicitly.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/tripwell/tripkit/internal/logging"
	"github.com/tripwell/tripkit/internal/metrics"
)

const (
	// APIPrefix is appended to the configured base URL for every call.
	APIPrefix = "/api/v1"

	// DefaultTimeout bounds every request issued through the shared client.
	DefaultTimeout = 10 * time.Second
)

// Client is the shared HTTP client binding.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *metrics.Recorder

	// headerMu guards headers. Only the session manager mutates the
	// Authorization entry; everything else treats the map as read-only.
	headerMu sync.RWMutex
	headers  map[string]string

	// onAuthReject is invoked when an authenticated request is rejected
	// with 401. Transport failures never trigger it.
	rejectMu     sync.RWMutex
	onAuthReject func()
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying http.Client (tests, custom transports).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets a structured logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics enables request instrumentation.
func WithMetrics(rec *metrics.Recorder) Option {
	return func(c *Client) {
		c.metrics = rec
	}
}

// New creates a Client for the given base URL (scheme + host, no path).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/") + APIPrefix,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     logging.NewNop(),
		headers: map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json",
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetAuthToken installs the bearer token in the default headers. It takes
// effect for every subsequent request issued through this client.
func (c *Client) SetAuthToken(token string) {
	c.headerMu.Lock()
	defer c.headerMu.Unlock()
	c.headers["Authorization"] = "Bearer " + token
}

// ClearAuthToken removes the Authorization entry entirely, so that
// unauthenticated requests carry no Authorization header at all.
func (c *Client) ClearAuthToken() {
	c.headerMu.Lock()
	defer c.headerMu.Unlock()
	delete(c.headers, "Authorization")
}

// AuthHeader returns the current Authorization value ("" when absent).
func (c *Client) AuthHeader() string {
	c.headerMu.RLock()
	defer c.headerMu.RUnlock()
	return c.headers["Authorization"]
}

// OnAuthReject registers the hook invoked when an authenticated request is
// rejected with 401. The session manager uses it to run the invalidation
// cascade. Passing nil removes the hook.
func (c *Client) OnAuthReject(fn func()) {
	c.rejectMu.Lock()
	defer c.rejectMu.Unlock()
	c.onAuthReject = fn
}

func (c *Client) notifyAuthReject() {
	c.rejectMu.RLock()
	fn := c.onAuthReject
	c.rejectMu.RUnlock()
	if fn != nil {
		fn()
	}
}

// do issues a request and decodes the response envelope. Errors are one of:
//   - *TransportError: no usable response was received
//   - *APIError: the backend rejected the request (envelope or status)
//
// When an authenticated request comes back 401, the auth-reject hook fires
// before the error is returned.
func (c *Client) do(ctx context.Context, method, path string, body any, extraHeaders map[string]string) (*envelope, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	c.headerMu.RLock()
	hadAuth := c.headers["Authorization"] != ""
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	c.headerMu.RUnlock()
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "path", path, "err", err)
		c.record(method, path, "transport_error", start)
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	env, decodeErr := decodeEnvelope(resp.Body)

	if resp.StatusCode == http.StatusUnauthorized && hadAuth {
		c.logger.Debug("authenticated request rejected", "method", method, "path", path)
		c.notifyAuthReject()
	}

	if resp.StatusCode >= 400 || (decodeErr == nil && !env.Success) {
		c.record(method, path, "rejected", start)
		apiErr := &APIError{Status: resp.StatusCode}
		if decodeErr == nil {
			apiErr.Message = env.Message
			apiErr.Errors = env.Errors
		}
		return nil, apiErr
	}

	if decodeErr != nil {
		// 2xx with a body we cannot parse: fail predictably instead of
		// letting undefined fields propagate.
		c.record(method, path, "decode_error", start)
		return nil, &APIError{Status: resp.StatusCode, Message: "malformed response from server"}
	}

	c.record(method, path, "ok", start)
	return env, nil
}

func (c *Client) record(method, path, outcome string, start time.Time) {
	if c.metrics != nil {
		c.metrics.ObserveRequest(method, path, outcome, time.Since(start))
	}
}

func (c *Client) get(ctx context.Context, path string) (*envelope, error) {
	return c.do(ctx, http.MethodGet, path, nil, nil)
}

func (c *Client) post(ctx context.Context, path string, body any) (*envelope, error) {
	return c.do(ctx, http.MethodPost, path, body, nil)
}

func (c *Client) put(ctx context.Context, path string, body any) (*envelope, error) {
	return c.do(ctx, http.MethodPut, path, body, nil)
}
