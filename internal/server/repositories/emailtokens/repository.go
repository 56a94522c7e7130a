// Package emailtokens stores the single-use tokens behind confirmation and
// password recovery links.
package emailtokens

import (
	"context"

	"github.com/dmitrijs2005/codehunt/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, t *models.EmailToken) error
	// Consume deletes the token and returns it. Unknown tokens yield
	// common.ErrorNotFound. Expiry is checked by the caller.
	Consume(ctx context.Context, token string) (*models.EmailToken, error)
}
