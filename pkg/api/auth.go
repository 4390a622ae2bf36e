package api

import (
	"context"

	"github.com/tripwell/tripkit/pkg/domain"
)

// AuthResponse is the payload of a successful login or registration.
type AuthResponse struct {
	User  *domain.User
	Token string
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// authPayload mirrors the {user, token} shape inside the envelope data.
type authPayload struct {
	User  map[string]any `json:"user"`
	Token string         `json:"token"`
}

func decodeAuthResponse(env *envelope) (*AuthResponse, error) {
	var p authPayload
	if err := env.decodeData(&p); err != nil {
		return nil, err
	}
	user, err := domain.UserFromMap(p.User)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{User: user, Token: p.Token}, nil
}

// Login exchanges email + password for a user and a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	env, err := c.post(ctx, "/login", loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return decodeAuthResponse(env)
}

// Register creates an account and returns the fresh user and token.
func (c *Client) Register(ctx context.Context, name, email, phone, password string) (*AuthResponse, error) {
	env, err := c.post(ctx, "/register", registerRequest{
		Name:     name,
		Email:    email,
		Phone:    phone,
		Password: password,
	})
	if err != nil {
		return nil, err
	}
	return decodeAuthResponse(env)
}

// Logout invalidates the current token server-side.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.post(ctx, "/logout", nil)
	return err
}

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (*domain.User, error) {
	env, err := c.get(ctx, "/profile")
	if err != nil {
		return nil, err
	}
	return env.decodeUser()
}

// UpdateProfile submits a partial profile update and returns the updated record.
func (c *Client) UpdateProfile(ctx context.Context, fields map[string]any) (*domain.User, error) {
	env, err := c.put(ctx, "/profile", fields)
	if err != nil {
		return nil, err
	}
	return env.decodeUser()
}

// ForgotPassword requests a password-reset email. The backend message (for
// example "Reset link sent") is returned on success.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	env, err := c.post(ctx, "/forgot-password", map[string]string{"email": email})
	if err != nil {
		return "", err
	}
	return env.Message, nil
}
