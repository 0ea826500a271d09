package api

import (
	"context"
	"net/http"

	"github.com/jonathan/career-coach/internal/types"
	"github.com/jonathan/career-coach/schemas"
)

// Register creates a new account. The onboarding record collected before
// signup, if any, is transmitted as part of the registration payload.
func (c *Client) Register(ctx context.Context, req *types.RegisterRequest) (*types.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, &Error{Endpoint: "/auth/register", Message: "invalid register request", Cause: err}
	}

	var resp types.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &resp, schemas.AuthResponse); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login authenticates and returns the identity plus session token.
func (c *Client) Login(ctx context.Context, req *types.LoginRequest) (*types.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, &Error{Endpoint: "/auth/login", Message: "invalid login request", Cause: err}
	}

	var resp types.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &resp, schemas.AuthResponse); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout invalidates the current session server-side.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, "")
}
