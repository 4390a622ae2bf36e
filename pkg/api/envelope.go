package api

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tripwell/tripkit/pkg/domain"
)

// envelope is the uniform response shape of the tours backend:
// {success, message, data, errors}. Data is kept raw and decoded per
// endpoint into its concrete type.
type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    json.RawMessage     `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// decodeEnvelope parses a response body into the envelope shape.
func decodeEnvelope(r io.Reader) (*envelope, error) {
	var env envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode response envelope: %w", err)
	}
	return &env, nil
}

// decodeData unmarshals the envelope payload into out.
func (e *envelope) decodeData(out any) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("response envelope has no data")
	}
	if err := json.Unmarshal(e.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

// decodeUser unmarshals the envelope payload as a user record, preserving
// backend-defined fields the client does not model.
func (e *envelope) decodeUser() (*domain.User, error) {
	var raw map[string]any
	if err := e.decodeData(&raw); err != nil {
		return nil, err
	}
	return domain.UserFromMap(raw)
}
