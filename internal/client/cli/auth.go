package cli

import (
	"context"

	"github.com/dmitrijs2005/codehunt/internal/client/client"
	"github.com/dmitrijs2005/codehunt/internal/client/router"
	"github.com/dmitrijs2005/codehunt/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) readPasswordPair(first, second string) (string, string, error) {
	pw, err := getPassword(first, a.out)
	if err != nil {
		return "", "", err
	}
	defer common.WipeByteArray(pw)

	confirm, err := getPassword(second, a.out)
	if err != nil {
		return "", "", err
	}
	defer common.WipeByteArray(confirm)

	return string(pw), string(confirm), nil
}

// SignIn prompts for credentials. On success the guard takes the user home.
func (a *App) SignIn(ctx context.Context) error {
	if !a.open(router.ScreenLogin) {
		return nil
	}
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	pw, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	s, err := a.auth.SignIn(ctx, email, string(pw))
	if err != nil {
		a.reportAuth(err)
		return err
	}
	a.println("Welcome back,", s.User.Email)
	return nil
}

// SignUp creates an account. Without a session the user is asked to
// confirm their email; with one they go through onboarding.
func (a *App) SignUp(ctx context.Context) error {
	if !a.open(router.ScreenSignup) {
		return nil
	}
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	pw, confirm, err := a.readPasswordPair("Password", "Confirm password")
	if err != nil {
		return err
	}

	res, err := a.auth.SignUp(ctx, email, pw, confirm)
	if err != nil {
		a.reportAuth(err)
		return err
	}
	if res.ConfirmationSent {
		a.history.Push(router.ScreenCheckEmail)
		a.printf("Check your email\nWe sent a confirmation link to %s. Open it, then sign in.\n", email)
		return nil
	}
	a.println("Account created.")
	return a.Onboarding(ctx)
}

func (a *App) ForgotPassword(ctx context.Context) error {
	if !a.open(router.ScreenForgotPassword) {
		return nil
	}
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	if err := a.auth.RequestPasswordReset(ctx, email); err != nil {
		a.report(err)
		return err
	}
	a.history.Push(router.ScreenCheckEmail)
	a.printf("Check your email\nIf an account exists for %s, a reset link is on its way.\nRun 'recover <link>' with the link from the email.\n", email)
	return nil
}

// Recover installs the session from a password reset link and continues
// with choosing a new password.
func (a *App) Recover(ctx context.Context, link string) error {
	// Public screen first, so the new session does not bounce the user home.
	a.history.Push(router.ScreenUpdatePassword)

	s, err := a.auth.Recover(ctx, link)
	if err != nil {
		a.reportAuth(err)
		return err
	}
	a.printf("Reset link accepted for %s.\n", s.User.Email)
	return a.UpdatePassword(ctx)
}

func (a *App) UpdatePassword(ctx context.Context) error {
	a.history.Push(router.ScreenUpdatePassword)
	if !a.isSignedIn() {
		a.println("Open the link from your reset email with 'recover <link>' first.")
		return client.ErrNoSession
	}

	pw, confirm, err := a.readPasswordPair("New password", "Confirm new password")
	if err != nil {
		return err
	}
	if err := a.auth.UpdatePassword(ctx, pw, confirm); err != nil {
		a.report(err)
		return err
	}
	a.println("Password updated.")
	a.history.Replace(router.ScreenHome)
	return nil
}

// SignOut always succeeds; the guard returns the user to the login screen.
func (a *App) SignOut(ctx context.Context) error {
	if err := a.auth.SignOut(ctx); err != nil {
		a.report(err)
		return err
	}
	a.println("Signed out.")
	return nil
}
