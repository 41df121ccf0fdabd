package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/comix/internal/models"
	"github.com/desertthunder/comix/internal/shared"
)

// AuthResult is returned by the login and register endpoints.
type AuthResult struct {
	Token string      `json:"access_token"`
	User  models.User `json:"user"`
}

// AuthService talks to the /auth endpoints.
type AuthService struct {
	client *Client
}

// NewAuthService creates an auth client sharing client's session.
func NewAuthService(client *Client) *AuthService {
	return &AuthService{client: client}
}

// Login exchanges credentials for an access token.
//
// Calls POST /auth/login. Rejected credentials yield [shared.ErrAuthFailed].
func (a *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", shared.ErrMissingArgument)
	}

	body := map[string]string{"email": email, "password": password}
	return a.authenticate(ctx, "/auth/login", body)
}

// Register creates an account and signs it in.
//
// Calls POST /auth/register.
func (a *AuthService) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", shared.ErrMissingArgument)
	}

	body := map[string]string{"username": username, "email": email, "password": password}
	return a.authenticate(ctx, "/auth/register", body)
}

func (a *AuthService) authenticate(ctx context.Context, endpoint string, body any) (*AuthResult, error) {
	var result AuthResult
	if err := a.client.doRequest(ctx, http.MethodPost, endpoint, body, &result); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusConflict) {
			return nil, fmt.Errorf("%w: %s", shared.ErrAuthFailed, apiErr.Message)
		}
		return nil, err
	}

	if result.Token == "" {
		return nil, fmt.Errorf("%w: response did not include an access token", shared.ErrAuthFailed)
	}
	return &result, nil
}

// Logout ends the session on the server.
//
// Calls POST /auth/logout.
func (a *AuthService) Logout(ctx context.Context) error {
	return a.client.doRequest(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// RequestPasswordReset asks the server to send a reset email.
//
// Calls POST /auth/forgot-password.
func (a *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("%w: email is required", shared.ErrMissingArgument)
	}
	return a.client.doRequest(ctx, http.MethodPost, "/auth/forgot-password", map[string]string{"email": email}, nil)
}
