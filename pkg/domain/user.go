package domain

import (
	"encoding/json"

	"github.com/mitchellh/mapstructure"
)

// User represents the authenticated profile record.
//
// The backend owns the schema and is free to add fields; anything this client
// does not model explicitly is preserved in Extra so that a save/load or
// update round-trip never drops data.
type User struct {
	ID    int64  `json:"id" mapstructure:"id"`
	Name  string `json:"name" mapstructure:"name"`
	Email string `json:"email" mapstructure:"email"`
	Phone string `json:"phone,omitempty" mapstructure:"phone"`

	// Extra holds backend-defined fields not modeled above.
	Extra map[string]any `json:"-" mapstructure:",remain"`
}

// UserFromMap decodes a loosely-typed user payload (as produced by JSON
// decoding of the backend envelope) into a User, keeping unknown keys.
func UserFromMap(raw map[string]any) (*User, error) {
	var u User
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &u,
		WeaklyTypedInput: true, // JSON numbers arrive as float64
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, err
	}
	if len(u.Extra) == 0 {
		u.Extra = nil
	}
	return &u, nil
}

// MarshalJSON flattens Extra back into the top-level object so persisted
// users carry the full backend record, not just the modeled fields.
func (u User) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, 4+len(u.Extra))
	for k, v := range u.Extra {
		out[k] = v
	}
	out["id"] = u.ID
	out["name"] = u.Name
	out["email"] = u.Email
	if u.Phone != "" {
		out["phone"] = u.Phone
	}
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON: known keys land in the typed
// fields, everything else lands in Extra.
func (u *User) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded, err := UserFromMap(raw)
	if err != nil {
		return err
	}
	*u = *decoded
	return nil
}
