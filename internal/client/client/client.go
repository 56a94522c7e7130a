package client

import (
	"context"
	"time"

	"github.com/dmitrijs2005/codehunt/internal/client/models"
)

// AuthChangeFunc receives session changes. session is nil after sign-out.
type AuthChangeFunc func(event models.AuthEvent, session *models.Session)

// Client is the backend as seen by the terminal client.
type Client interface {
	// GetSession returns the current session, loading a persisted one on
	// first use and refreshing it when expired. No session is (nil, nil).
	GetSession(ctx context.Context) (*models.Session, error)
	// Subscribe registers fn for session changes. Callbacks run synchronously
	// in the order the changes happen.
	Subscribe(fn AuthChangeFunc) (unsubscribe func())

	SignIn(ctx context.Context, email, password string) (*models.Session, error)
	// SignUp returns a nil session when a confirmation email was sent instead.
	SignUp(ctx context.Context, email, password, redirectTo string) (*models.Session, error)
	// SignOut always succeeds; it is a no-op when already signed out.
	SignOut(ctx context.Context) error
	ResetPasswordRequest(ctx context.Context, email, redirectTo string) error
	UpdatePassword(ctx context.Context, password string) error
	// SetSession installs tokens received out of band, e.g. from a recovery link.
	SetSession(ctx context.Context, accessToken, refreshToken string, expiresAt time.Time) (*models.Session, error)

	// FetchRow decodes the row into dst; a missing row yields ErrNotFound.
	FetchRow(ctx context.Context, table, id string, dst any) error
	UpsertRow(ctx context.Context, table string, record any) error

	ListListings(ctx context.Context, filter models.ListingFilter) ([]*models.Listing, error)
	GetListing(ctx context.Context, id string) (*models.Listing, error)
	CreateListing(ctx context.Context, l *models.Listing) (*models.Listing, error)
	AvatarUploadURL(ctx context.Context) (key string, url string, err error)

	Ping(ctx context.Context) error
	Close() error
}
