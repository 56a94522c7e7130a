// Package common defines shared constants and sentinel errors used across
// client and server layers of CodeHunt. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrForbidden      = errors.New("row belongs to another user")
	ErrUnknownTable   = errors.New("unknown table")

	// Credential errors reported back to the client.
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrEmailTaken         = errors.New("user already registered")
	ErrWeakPassword       = errors.New("password should be at least 8 characters")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
	ErrInvalidLink        = errors.New("email link is invalid or has expired")
	ErrInvalidEmail       = errors.New("unable to validate email address: invalid format")

	// Generic row API errors.
	ErrInvalidRow = errors.New("invalid row")

	// Validation errors for listing submissions.
	ErrInvalidListing = errors.New("invalid listing")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
