// Package services holds the client-side operations behind each screen:
// credential flows, profile and preference editing, listings and avatar
// upload. Services validate locally before touching the backend and report
// failures as *ValidationError, *CredentialError or *TransientError.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/codehunt/internal/client/client"
	"github.com/dmitrijs2005/codehunt/internal/client/models"
	"github.com/dmitrijs2005/codehunt/internal/logging"
	"github.com/dmitrijs2005/codehunt/internal/masker"
)

// ErrInvalidRecoveryLink is returned by Recover for links that carry no
// session.
var ErrInvalidRecoveryLink = errors.New("recovery link has no session")

// SignUpResult tells the caller where to go next: a started session goes
// to onboarding, otherwise the user has to confirm their email first.
type SignUpResult struct {
	Session          *models.Session
	ConfirmationSent bool
}

type AuthService struct {
	client     client.Client
	redirectTo string
	logger     logging.Logger
}

// NewAuthService binds the credential flows to c. redirectTo is where
// password reset links send the user back to.
func NewAuthService(c client.Client, redirectTo string, l logging.Logger) *AuthService {
	return &AuthService{client: c, redirectTo: redirectTo, logger: l.With("module", "auth_service")}
}

// SignIn authenticates with email and password. Wrong credentials are
// reported on the password field.
func (a *AuthService) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	if err := ValidateSignIn(email, password); err != nil {
		return nil, err
	}
	email = strings.TrimSpace(email)

	s, err := a.client.SignIn(ctx, email, password)
	if err != nil {
		a.logger.Info(ctx, "sign in failed", "email", masker.Email(email), "error", err)
		var rejected *client.RejectedError
		if errors.As(err, &rejected) && strings.Contains(strings.ToLower(rejected.Message), "invalid login") {
			return nil, &CredentialError{Field: "password", Message: "Incorrect email or password"}
		}
		return nil, classify(err, "")
	}
	return s, nil
}

func (a *AuthService) SignUp(ctx context.Context, email, password, confirm string) (*SignUpResult, error) {
	if err := ValidateSignUp(email, password, confirm); err != nil {
		return nil, err
	}
	email = strings.TrimSpace(email)

	s, err := a.client.SignUp(ctx, email, password, a.redirectTo)
	if err != nil {
		a.logger.Info(ctx, "sign up failed", "email", masker.Email(email), "error", err)
		return nil, classify(err, "")
	}
	return &SignUpResult{Session: s, ConfirmationSent: s == nil}, nil
}

// RequestPasswordReset asks the backend to email a recovery link.
func (a *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if err := ValidateResetRequest(email); err != nil {
		return err
	}
	email = strings.TrimSpace(email)
	if err := a.client.ResetPasswordRequest(ctx, email, a.redirectTo); err != nil {
		return classify(err, "email")
	}
	return nil
}

// UpdatePassword changes the signed-in user's password.
func (a *AuthService) UpdatePassword(ctx context.Context, password, confirm string) error {
	if err := ValidateNewPassword(password, confirm); err != nil {
		return err
	}
	if err := a.client.UpdatePassword(ctx, password); err != nil {
		if errors.Is(err, client.ErrNoSession) {
			return &CredentialError{Message: "Your reset link has expired. Please request a new one."}
		}
		return classify(err, "password")
	}
	return nil
}

// SignOut ends the session. Signing out twice is fine.
func (a *AuthService) SignOut(ctx context.Context) error {
	if err := a.client.SignOut(ctx); err != nil {
		return classify(err, "")
	}
	return nil
}

// Recover installs the session carried in the fragment of a recovery link,
// such as codehunt://reset-password#access_token=..&refresh_token=..&type=recovery.
func (a *AuthService) Recover(ctx context.Context, link string) (*models.Session, error) {
	access, refresh, expiresAt, err := ParseRecoveryLink(link)
	if err != nil {
		return nil, err
	}
	s, err := a.client.SetSession(ctx, access, refresh, expiresAt)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			return nil, &CredentialError{Message: "Your reset link has expired. Please request a new one."}
		}
		return nil, classify(err, "")
	}
	return s, nil
}

// ParseRecoveryLink extracts the tokens from a recovery redirect. The
// parameters are read from the fragment, falling back to the query.
func ParseRecoveryLink(link string) (access, refresh string, expiresAt time.Time, err error) {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("%w: %v", ErrInvalidRecoveryLink, err)
	}
	raw := u.Fragment
	if raw == "" {
		raw = u.RawQuery
	}
	v, err := url.ParseQuery(raw)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("%w: %v", ErrInvalidRecoveryLink, err)
	}
	if desc := v.Get("error_description"); desc != "" {
		return "", "", time.Time{}, &CredentialError{Message: desc}
	}

	access, refresh = v.Get("access_token"), v.Get("refresh_token")
	if access == "" || refresh == "" {
		return "", "", time.Time{}, ErrInvalidRecoveryLink
	}
	if t := v.Get("type"); t != "" && t != "recovery" {
		return "", "", time.Time{}, fmt.Errorf("%w: unexpected type %q", ErrInvalidRecoveryLink, t)
	}
	if exp := v.Get("expires_at"); exp != "" {
		sec, err := strconv.ParseInt(exp, 10, 64)
		if err != nil {
			return "", "", time.Time{}, fmt.Errorf("%w: bad expires_at", ErrInvalidRecoveryLink)
		}
		expiresAt = time.Unix(sec, 0)
	}
	return access, refresh, expiresAt, nil
}

// Ping reports whether the backend is reachable.
func (a *AuthService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *AuthService) Close() error {
	return a.client.Close()
}
