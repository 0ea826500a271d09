package api

import (
	"context"
	"net/http"

	"github.com/jonathan/career-coach/internal/types"
	"github.com/jonathan/career-coach/schemas"
)

// GetProfile fetches the user's profile.
func (c *Client) GetProfile(ctx context.Context) (*types.ProfilePayload, error) {
	var profile types.ProfilePayload
	if err := c.do(ctx, http.MethodGet, "/user/profile", nil, &profile, schemas.Profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile pushes a partial profile update. Only non-empty fields of the
// payload are transmitted.
func (c *Client) UpdateProfile(ctx context.Context, payload *types.ProfilePayload) error {
	return c.do(ctx, http.MethodPut, "/user/profile", payload, nil, "")
}

// GetXP fetches the server-side experience state.
func (c *Client) GetXP(ctx context.Context) (*types.ExperienceState, error) {
	var state types.ExperienceState
	if err := c.do(ctx, http.MethodGet, "/user/xp", nil, &state, schemas.ExperienceState); err != nil {
		return nil, err
	}
	return &state, nil
}

// AddXP reports an experience grant and returns the updated server state.
func (c *Client) AddXP(ctx context.Context, amount int, source string) (*types.ExperienceState, error) {
	req := &types.AddXPRequest{Amount: amount, Source: source}
	if err := req.Validate(); err != nil {
		return nil, &Error{Endpoint: "/user/xp", Message: "invalid xp request", Cause: err}
	}

	var state types.ExperienceState
	if err := c.do(ctx, http.MethodPost, "/user/xp", req, &state, schemas.ExperienceState); err != nil {
		return nil, err
	}
	return &state, nil
}

// GetCompletion fetches the backend's own profile-completion figure.
func (c *Client) GetCompletion(ctx context.Context) (*types.CompletionResponse, error) {
	var resp types.CompletionResponse
	if err := c.do(ctx, http.MethodGet, "/user/profile/completion", nil, &resp, ""); err != nil {
		return nil, err
	}
	return &resp, nil
}
