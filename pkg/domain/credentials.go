package domain

// SessionState is the lifecycle phase of the authentication session.
type SessionState string

const (
	// StateHydrating is the initial phase, while stored credentials are loaded.
	StateHydrating SessionState = "hydrating"
	// StateAuthenticated means a token (and user) is held in memory.
	StateAuthenticated SessionState = "authenticated"
	// StateUnauthenticated means no token is held.
	StateUnauthenticated SessionState = "unauthenticated"
)

// Credentials is the token + user pair mirrored between the session,
// the credential store, and the HTTP client's Authorization header.
type Credentials struct {
	Token string `json:"token,omitempty"`
	User  *User  `json:"user,omitempty"`
}

// Snapshot is a read-only view of the session, safe to hand to consumers.
type Snapshot struct {
	User    *User
	Token   string
	Loading bool
}

// IsAuthenticated reports whether a token is present.
func (s Snapshot) IsAuthenticated() bool {
	return s.Token != ""
}

// State derives the lifecycle phase from the snapshot.
func (s Snapshot) State() SessionState {
	switch {
	case s.Loading:
		return StateHydrating
	case s.Token != "":
		return StateAuthenticated
	default:
		return StateUnauthenticated
	}
}
