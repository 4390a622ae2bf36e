package api

import (
	"errors"
	"fmt"
	"net/http"
)

// TransportError means no usable response was received: DNS failure,
// connection refused, timeout. It never indicates a credential problem.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError means the backend responded and rejected the request.
type APIError struct {
	// Status is the HTTP status code of the response.
	Status int
	// Message is the backend-provided failure message, if any.
	Message string
	// Errors carries field-level validation errors, if any.
	Errors map[string][]string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error (status %d)", e.Status)
}

// AuthFailure reports whether the rejection invalidates the credential.
func (e *APIError) AuthFailure() bool {
	return e.Status == http.StatusUnauthorized
}

// IsTransport reports whether err is a transport-level failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsAuthFailure reports whether err is a credential rejection.
func IsAuthFailure(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.AuthFailure()
}

// RejectionMessage extracts the backend message from err, or "" when err is
// not a backend rejection or carried no message.
func RejectionMessage(err error) string {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return ""
}

// ValidationErrors extracts field-level errors from err, or nil.
func ValidationErrors(err error) map[string][]string {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Errors
	}
	return nil
}
