// Package preferences stores investment preferences, one row per user.
package preferences

import (
	"context"

	"github.com/dmitrijs2005/codehunt/internal/server/models"
)

// Writable lists the client-writable columns in statement order.
var Writable = []string{"goal", "budget_min", "budget_max", "cities", "property_types"}

type Repository interface {
	// Get returns the preferences of userID or common.ErrorNotFound.
	Get(ctx context.Context, userID string) (*models.Preferences, error)
	// Upsert inserts or updates the listed columns of the row keyed by UserID.
	Upsert(ctx context.Context, p *models.Preferences, columns []string) error
}
