// Package mockserver implements the tours backend's REST surface over
// in-memory stores. It exists for integration tests and for local
// development of the client; it is a test double, not a product backend.
package mockserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tripwell/tripkit/internal/logging"
	"github.com/tripwell/tripkit/pkg/domain"
)

// account is a registered user plus its password. Passwords are stored in
// plain text: this server only ever holds throwaway test data.
type account struct {
	user     domain.User
	password string
}

// Server holds the in-memory state behind the REST surface.
type Server struct {
	logger *slog.Logger
	tokens *tokenManager

	mu       sync.Mutex
	accounts map[string]*account        // by email
	nextUser int64
	tours    []domain.Tour
	bookings map[int64]*domain.Booking
	owners   map[int64]int64            // booking ID -> user ID
	payments map[string]*domain.Payment // by idempotency key
	nextBook int64
	nextPay  int64
	validate bool
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithSigningKey overrides the random token-signing key (deterministic tests).
func WithSigningKey(key []byte) Option {
	return func(s *Server) {
		s.tokens = newTokenManager(key)
	}
}

// WithoutRequestValidation disables OpenAPI request validation.
func WithoutRequestValidation() Option {
	return func(s *Server) {
		s.validate = false
	}
}

// New creates a Server seeded with the demo tour catalogue.
func New(opts ...Option) *Server {
	s := &Server{
		logger:   logging.NewNop(),
		tokens:   newTokenManager(nil),
		accounts: make(map[string]*account),
		nextUser: 1,
		tours:    seedTours(),
		bookings: make(map[int64]*domain.Booking),
		owners:   make(map[int64]int64),
		payments: make(map[string]*domain.Payment),
		nextBook: 1,
		nextPay:  1,
		validate: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the chi router for the full REST surface.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if s.validate {
			r.Use(s.validationMiddleware())
		}

		r.Post("/login", s.handleLogin)
		r.Post("/register", s.handleRegister)
		r.Post("/forgot-password", s.handleForgotPassword)
		r.Post("/contact", s.handleContact)
		r.Get("/tours", s.handleListTours)
		r.Get("/tours/{id}", s.handleGetTour)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/logout", s.handleLogout)
			r.Get("/profile", s.handleGetProfile)
			r.Put("/profile", s.handleUpdateProfile)
			r.Post("/bookings", s.handleCreateBooking)
			r.Get("/bookings/{id}", s.handleGetBooking)
			r.Post("/bookings/{id}/cancel", s.handleCancelBooking)
			r.Post("/bookings/{id}/payment", s.handleProcessPayment)
			r.Get("/my-bookings", s.handleMyBookings)
		})
	})

	return r
}

// requireAuth rejects requests without a valid bearer token and stashes the
// authenticated user ID in the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			s.writeError(w, http.StatusUnauthorized, "Unauthenticated.", nil)
			return
		}
		userID, err := s.tokens.verify(token)
		if err != nil {
			s.logger.Debug("rejecting token", "err", err)
			s.writeError(w, http.StatusUnauthorized, "Unauthenticated.", nil)
			return
		}
		next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), userID)))
	})
}

// RevokeAll invalidates every outstanding token by rotating the signing key.
// Tests use it to simulate server-side session expiry.
func (s *Server) RevokeAll() {
	s.tokens.rotate()
}

// envelope is the uniform response shape.
type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    any                 `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		s.logger.Warn("failed to encode response", "err", err)
	}
}

func (s *Server) writeData(w http.ResponseWriter, status int, data any) {
	s.writeJSON(w, status, envelope{Success: true, Data: data})
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string, errs map[string][]string) {
	s.writeJSON(w, status, envelope{Success: false, Message: message, Errors: errs})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, into any) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		s.writeError(w, http.StatusBadRequest, "Malformed request body.", nil)
		return false
	}
	return true
}

func seedTours() []domain.Tour {
	return []domain.Tour{
		{
			ID: 1, Title: "Mountain Adventure", Price: 199, Rating: 4.9,
			Image:    "https://images.example.com/mountain.jpg",
			Location: "Alps", Duration: "4 days",
			Itinerary: []string{
				"Day 1: Arrival and orientation",
				"Day 2: Hiking and sightseeing",
				"Day 3: Local culture tour",
				"Day 4: Departure",
			},
			Reviews: []domain.Review{
				{User: "Alice", Comment: "Amazing experience!", Rating: 5},
				{User: "Bob", Comment: "Loved every moment.", Rating: 4.5},
			},
		},
		{
			ID: 2, Title: "City Explorer", Price: 149, Rating: 4.7,
			Image:    "https://images.example.com/city.jpg",
			Location: "Lisbon", Duration: "2 days",
		},
		{
			ID: 3, Title: "Beach Paradise", Price: 249, Rating: 4.8,
			Image:    "https://images.example.com/beach.jpg",
			Location: "Algarve", Duration: "5 days",
		},
	}
}

// nowFunc is swapped in tests that need deterministic timestamps.
var nowFunc = time.Now
