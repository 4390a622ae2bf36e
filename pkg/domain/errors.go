package domain

import "errors"

// ErrNoCredentials is returned when a credential slot is empty, missing, or unreadable.
var ErrNoCredentials = errors.New("no stored credentials")

// ErrNotConfigured is returned when a session consumer is built without its
// required collaborators (store, API client). It signals a programmer error.
var ErrNotConfigured = errors.New("session manager not configured")

// ErrNotAuthenticated is returned by operations that require an active session.
var ErrNotAuthenticated = errors.New("not authenticated")
