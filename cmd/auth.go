package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/comix/internal/library"
	"github.com/desertthunder/comix/internal/models"
	"github.com/desertthunder/comix/internal/repositories"
	"github.com/desertthunder/comix/internal/services"
	"github.com/desertthunder/comix/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin signs in with email and password and stores the session.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	result, err := r.auth.Login(ctx, cmd.String("email"), cmd.String("password"))
	if err != nil {
		return err
	}
	return r.signIn(result)
}

// AuthRegister creates an account and stores its session.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	result, err := r.auth.Register(ctx, cmd.String("username"), cmd.String("email"), cmd.String("password"))
	if err != nil {
		return err
	}
	return r.signIn(result)
}

func (r *Runner) signIn(result *services.AuthResult) error {
	r.client.SetToken(result.Token)

	if r.sessions == nil {
		r.logger.Warn("session storage unavailable, the token will not be remembered")
	} else if _, err := r.sessions.Save(result.Token, result.User); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	r.logger.Info("authentication successful", "user", result.User.Username)
	return r.writePlain("✓ Signed in as %s\n", displayName(result.User))
}

// AuthLogout ends the server session and forgets the stored token.
//
// The local session is cleared even when the server call fails.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if r.sessions == nil {
		return fmt.Errorf("%w: session storage is not available", shared.ErrNoSession)
	}

	session, err := r.sessions.Current()
	if errors.Is(err, shared.ErrNoSession) {
		return r.writePlain("Not signed in\n")
	}
	if err != nil {
		return err
	}

	r.client.SetToken(session.Token)
	if err := r.auth.Logout(ctx); err != nil {
		r.logger.Warn("server logout failed", "error", err)
	}
	r.client.SetToken("")
	r.reconciler.Bind(ctx, library.Session{Ready: true})

	if err := r.sessions.Clear(); err != nil {
		return err
	}
	return r.writePlain("✓ Signed out\n")
}

// AuthStatus reports the stored session and whether its token is still usable.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if r.sessions == nil {
		return fmt.Errorf("%w: session storage is not available", shared.ErrNoSession)
	}

	session, err := r.sessions.Current()
	if errors.Is(err, shared.ErrNoSession) {
		return r.writePlain("✗ Not signed in\n")
	}
	if err != nil {
		return err
	}

	r.writePlain("User: %s\n", displayName(session.User))
	r.writePlain("Signed in: %s\n", session.CreatedAt.Local().Format(time.RFC1123))

	switch err := repositories.ValidateToken(session.Token, time.Now()); {
	case err == nil:
		r.writePlain("Session: ✓ Valid\n")
	case errors.Is(err, shared.ErrTokenExpired):
		r.writePlain("Session: ✗ Expired, sign in again\n")
	default:
		r.writePlain("Session: ✗ Unreadable token, sign in again\n")
	}
	return nil
}

// AuthForgot requests a password reset email.
func (r *Runner) AuthForgot(ctx context.Context, cmd *cli.Command) error {
	if err := r.auth.RequestPasswordReset(ctx, cmd.String("email")); err != nil {
		return err
	}
	return r.writePlain("✓ If the account exists, a reset link is on its way\n")
}

func displayName(u models.User) string {
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}
