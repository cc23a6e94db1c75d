package api

import (
	"context"
	"fmt"
	"net/url"

	rerrors "github.com/felixgeelhaar/rcup/internal/errors"
	"github.com/felixgeelhaar/rcup/internal/token"
)

// RegisterRequest is the account creation payload.
type RegisterRequest struct {
	FullName string     `json:"full_name"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     token.Role `json:"role"`
}

// RegisterResponse is returned by POST /register.
type RegisterResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	UserID      string `json:"user_id"`
	AccessToken string `json:"access_token,omitempty"`
}

// TokenResponse is returned by POST /token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register creates an account and leaves the client signed in. When the
// server does not return a credential, it logs in with the same email and
// password.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, rerrors.NewValidationError("registration", err)
	}

	body, err := jsonPayload(req)
	if err != nil {
		return nil, err
	}

	var resp RegisterResponse
	if err := c.do(ctx, "POST", "/register", nil, body, &resp); err != nil {
		return nil, err
	}

	if resp.AccessToken != "" {
		if err := c.store.Save(ctx, resp.AccessToken); err != nil {
			return nil, err
		}
		return &resp, nil
	}

	if _, err := c.Login(ctx, req.Email, req.Password); err != nil {
		return &resp, fmt.Errorf("registration succeeded but login failed: %w", err)
	}
	return &resp, nil
}

// Login exchanges email and password for a credential and saves it. A 401
// is reported as wrong credentials; the store is left untouched.
func (c *Client) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var resp TokenResponse
	if err := c.do(ctx, "POST", TokenPath, nil, formPayload(form), &resp); err != nil {
		if IsUnauthorized(err) {
			detail := ""
			if apiErr, ok := asAPIError(err); ok {
				detail = apiErr.Detail
			}
			return nil, rerrors.NewInvalidCredentialsError(detail)
		}
		return nil, err
	}

	if resp.AccessToken == "" {
		return nil, rerrors.New(rerrors.ErrCodeDecode, "token response carried no access_token")
	}
	if err := c.store.Save(ctx, resp.AccessToken); err != nil {
		return nil, err
	}
	c.logger.DebugContext(ctx, "logged in", "token_type", resp.TokenType)
	return &resp, nil
}

// Logout removes the stored credential. No request is made.
func (c *Client) Logout(ctx context.Context) error {
	return c.store.Remove(ctx)
}
