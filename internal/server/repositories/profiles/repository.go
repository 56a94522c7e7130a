// Package profiles stores the per-user profile record.
package profiles

import (
	"context"

	"github.com/dmitrijs2005/codehunt/internal/server/models"
)

// Writable lists the client-writable profile columns in statement order.
var Writable = []string{"full_name", "avatar_url", "phone", "city"}

type Repository interface {
	// Get returns the profile with the given id or common.ErrorNotFound.
	Get(ctx context.Context, id string) (*models.Profile, error)
	// Upsert inserts the profile or updates the listed columns of an existing
	// one. Columns outside Writable are ignored; updated_at is always written.
	Upsert(ctx context.Context, p *models.Profile, columns []string) error
}
