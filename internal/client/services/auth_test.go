package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/codehunt/internal/client/client"
	"github.com/dmitrijs2005/codehunt/internal/client/models"
	"github.com/dmitrijs2005/codehunt/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

const redirect = "codehunt://reset-password"

func newAuth(c *fakeClient) *AuthService {
	return NewAuthService(c, redirect, logging.Nop{})
}

func requireValidation(t *testing.T, err error) *ValidationError {
	t.Helper()
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	return ve
}

func TestSignIn_Validation(t *testing.T) {
	tests := []struct {
		name, email, password string
		want                  map[string]string
	}{
		{"empty", "", "", map[string]string{"email": "Email is required", "password": "Password is required"}},
		{"blank email", "   ", "secret", map[string]string{"email": "Email is required"}},
		{"bad shape", "asha@example", "secret", map[string]string{"email": "Enter a valid email"}},
		{"no password", "asha@example.com", "", map[string]string{"password": "Password is required"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &fakeClient{}
			_, err := newAuth(c).SignIn(context.Background(), tt.email, tt.password)
			assert.Equal(t, tt.want, requireValidation(t, err).Fields)
			assert.Empty(t, c.Calls())
		})
	}
}

func TestSignIn_OK(t *testing.T) {
	c := &fakeClient{}
	s, err := newAuth(c).SignIn(context.Background(), " asha@example.com ", "short")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", s.User.Email)
}

func TestSignIn_InvalidCredentials(t *testing.T) {
	c := &fakeClient{signIn: func(string, string) (*models.Session, error) {
		return nil, &client.RejectedError{Code: codes.InvalidArgument, Message: "invalid login credentials"}
	}}
	_, err := newAuth(c).SignIn(context.Background(), "asha@example.com", "password1")

	var ce *CredentialError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "password", ce.Field)
	assert.Equal(t, "Incorrect email or password", ce.Message)
}

func TestSignIn_OtherRejection(t *testing.T) {
	c := &fakeClient{signIn: func(string, string) (*models.Session, error) {
		return nil, &client.RejectedError{Code: codes.FailedPrecondition, Message: "email not confirmed"}
	}}
	_, err := newAuth(c).SignIn(context.Background(), "asha@example.com", "password1")

	var ce *CredentialError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "", ce.Field)
	assert.Equal(t, "Email not confirmed", ce.Message)
}

func TestSignIn_Transient(t *testing.T) {
	c := &fakeClient{signIn: func(string, string) (*models.Session, error) {
		return nil, fmt.Errorf("%w: connection refused", client.ErrUnavailable)
	}}
	_, err := newAuth(c).SignIn(context.Background(), "asha@example.com", "password1")

	var te *TransientError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, GenericFailure, err.Error())
	assert.ErrorIs(t, err, client.ErrUnavailable)
}

func TestSignUp_ShortPasswordRejectedLocally(t *testing.T) {
	c := &fakeClient{}
	_, err := newAuth(c).SignUp(context.Background(), "asha@example.com", "1234567", "1234567")

	ve := requireValidation(t, err)
	assert.Equal(t, "Password must be at least 8 characters", ve.Field("password"))
	assert.Empty(t, c.Calls())
}

func TestSignUp_Validation(t *testing.T) {
	c := &fakeClient{}
	auth := newAuth(c)

	_, err := auth.SignUp(context.Background(), "asha@example.com", "password1", "")
	assert.Equal(t, "Please confirm your password", requireValidation(t, err).Field("confirm_password"))

	_, err = auth.SignUp(context.Background(), "asha@example.com", "password1", "password2")
	assert.Equal(t, "Passwords do not match", requireValidation(t, err).Field("confirm_password"))

	_, err = auth.SignUp(context.Background(), "", "", "")
	ve := requireValidation(t, err)
	assert.Len(t, ve.Fields, 3)
	assert.Empty(t, c.Calls())
}

func TestSignUp_ConfirmationSent(t *testing.T) {
	var gotRedirect string
	c := &fakeClient{signUp: func(_, _, r string) (*models.Session, error) {
		gotRedirect = r
		return nil, nil
	}}
	res, err := newAuth(c).SignUp(context.Background(), "asha@example.com", "password1", "password1")
	require.NoError(t, err)
	assert.True(t, res.ConfirmationSent)
	assert.Nil(t, res.Session)
	assert.Equal(t, redirect, gotRedirect)
}

func TestSignUp_SessionStarted(t *testing.T) {
	c := &fakeClient{signUp: func(email, _, _ string) (*models.Session, error) {
		return &models.Session{User: models.User{ID: "u1", Email: email}}, nil
	}}
	res, err := newAuth(c).SignUp(context.Background(), "asha@example.com", "password1", "password1")
	require.NoError(t, err)
	assert.False(t, res.ConfirmationSent)
	assert.Equal(t, "u1", res.Session.UserID())
}

func TestSignUp_EmailTaken(t *testing.T) {
	c := &fakeClient{signUp: func(string, string, string) (*models.Session, error) {
		return nil, &client.RejectedError{Code: codes.AlreadyExists, Message: "user already registered"}
	}}
	_, err := newAuth(c).SignUp(context.Background(), "asha@example.com", "password1", "password1")

	var ce *CredentialError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "User already registered", ce.Message)
}

func TestRequestPasswordReset(t *testing.T) {
	c := &fakeClient{}
	auth := newAuth(c)

	err := auth.RequestPasswordReset(context.Background(), "")
	assert.Equal(t, "Please enter your email address", requireValidation(t, err).Field("email"))
	err = auth.RequestPasswordReset(context.Background(), "nope")
	assert.Equal(t, "Enter a valid email address", requireValidation(t, err).Field("email"))
	assert.Empty(t, c.Calls())

	var gotEmail, gotRedirect string
	c.reset = func(e, r string) error { gotEmail, gotRedirect = e, r; return nil }
	require.NoError(t, auth.RequestPasswordReset(context.Background(), "asha@example.com "))
	assert.Equal(t, "asha@example.com", gotEmail)
	assert.Equal(t, redirect, gotRedirect)
}

func TestUpdatePassword(t *testing.T) {
	c := &fakeClient{}
	auth := newAuth(c)

	err := auth.UpdatePassword(context.Background(), "", "")
	ve := requireValidation(t, err)
	assert.Equal(t, "New password is required", ve.Field("password"))
	assert.Equal(t, "Please confirm your new password", ve.Field("confirm_password"))
	assert.Empty(t, c.Calls())

	require.NoError(t, auth.UpdatePassword(context.Background(), "password1", "password1"))

	c.updatePw = func(string) error {
		return &client.RejectedError{Code: codes.InvalidArgument, Message: "password should be at least 8 characters"}
	}
	err = auth.UpdatePassword(context.Background(), "password1", "password1")
	var ce *CredentialError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "password", ce.Field)

	c.updatePw = func(string) error { return client.ErrNoSession }
	err = auth.UpdatePassword(context.Background(), "password1", "password1")
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Message, "expired")
}

func TestSignOut_Twice(t *testing.T) {
	c := &fakeClient{}
	auth := newAuth(c)
	require.NoError(t, auth.SignOut(context.Background()))
	require.NoError(t, auth.SignOut(context.Background()))
	assert.Equal(t, []string{"SignOut", "SignOut"}, c.Calls())
}

func TestParseRecoveryLink(t *testing.T) {
	access, refresh, exp, err := ParseRecoveryLink(
		"codehunt://reset-password#access_token=aaa&expires_at=1700000000&refresh_token=rrr&type=recovery")
	require.NoError(t, err)
	assert.Equal(t, "aaa", access)
	assert.Equal(t, "rrr", refresh)
	assert.Equal(t, time.Unix(1700000000, 0), exp)

	_, _, _, err = ParseRecoveryLink("https://app.example/reset?access_token=a&refresh_token=r")
	require.NoError(t, err)

	_, _, _, err = ParseRecoveryLink("codehunt://reset-password")
	assert.ErrorIs(t, err, ErrInvalidRecoveryLink)

	_, _, _, err = ParseRecoveryLink("codehunt://x#access_token=a&refresh_token=r&type=signup")
	assert.ErrorIs(t, err, ErrInvalidRecoveryLink)

	_, _, _, err = ParseRecoveryLink("codehunt://x#access_token=a&refresh_token=r&expires_at=soon")
	assert.ErrorIs(t, err, ErrInvalidRecoveryLink)

	_, _, _, err = ParseRecoveryLink("codehunt://x#error_description=Email+link+is+invalid+or+has+expired")
	var ce *CredentialError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "Email link is invalid or has expired", ce.Message)
}

func TestRecover(t *testing.T) {
	c := &fakeClient{}
	s, err := newAuth(c).Recover(context.Background(), "codehunt://r#access_token=a&refresh_token=r&type=recovery")
	require.NoError(t, err)
	assert.Equal(t, "a", s.AccessToken)

	c.setSession = func(string, string, time.Time) (*models.Session, error) { return nil, client.ErrUnauthorized }
	_, err = newAuth(c).Recover(context.Background(), "codehunt://r#access_token=a&refresh_token=r")
	var ce *CredentialError
	require.ErrorAs(t, err, &ce)
	assert.True(t, strings.HasPrefix(ce.Message, "Your reset link has expired"))
}

func TestValidationError_Message(t *testing.T) {
	err := ValidateSignIn("", "")
	assert.Equal(t, "email: Email is required; password: Password is required", err.Error())
	assert.Nil(t, ValidateSignIn("a@b.co", "x"))
	assert.True(t, errors.As(err, new(*ValidationError)))
}
