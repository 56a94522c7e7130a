// Package listings stores property listings.
package listings

import (
	"context"

	"github.com/dmitrijs2005/codehunt/internal/server/models"
)

type Repository interface {
	// List returns listings matching q, newest first.
	List(ctx context.Context, q models.ListingQuery) ([]*models.Listing, error)
	Get(ctx context.Context, id string) (*models.Listing, error)
	// Create inserts l and fills in ID, CreatedAt and UpdatedAt.
	Create(ctx context.Context, l *models.Listing) error
}
