package tripkit

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/tripwell/tripkit/internal/logging"
	"github.com/tripwell/tripkit/pkg/adapters/memory"
	"github.com/tripwell/tripkit/pkg/api"
	"github.com/tripwell/tripkit/pkg/ports"
	"github.com/tripwell/tripkit/pkg/session"
)

// Version is the library version. Overridden at build time via -ldflags.
var Version = "0.3.0"

// Client is the high-level entry point: an API client and a session manager
// wired over a credential store, ready for hosts that do not want to
// assemble the parts themselves.
type Client struct {
	API     *api.Client
	Session session.Session
}

// Option defines a functional option for configuring the Client.
type Option func(*settings)

type settings struct {
	store      ports.CredentialStore
	logger     *slog.Logger
	timeout    time.Duration
	httpClient *http.Client
}

// WithStore injects a credential store. The default keeps credentials in
// memory only; sessions then end with the process.
func WithStore(store ports.CredentialStore) Option {
	return func(s *settings) {
		s.store = store
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		s.timeout = d
	}
}

// WithHTTPClient injects a custom HTTP client, for proxies or test doubles.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *settings) {
		s.httpClient = hc
	}
}

// New builds a Client against the backend at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	s := settings{
		store:  memory.NewStore(),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(&s)
	}

	apiOpts := []api.Option{api.WithLogger(s.logger)}
	if s.httpClient != nil {
		apiOpts = append(apiOpts, api.WithHTTPClient(s.httpClient))
	}
	// The timeout must land on whichever http.Client ends up in use,
	// so it is applied after any injected client.
	if s.timeout > 0 {
		apiOpts = append(apiOpts, api.WithTimeout(s.timeout))
	}
	client := api.New(baseURL, apiOpts...)

	mgr, err := session.NewManager(s.store, client, session.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}

	return &Client{API: client, Session: mgr}, nil
}
