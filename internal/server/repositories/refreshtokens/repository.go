// Package refreshtokens persists the opaque refresh tokens handed out with
// every session. Only a SHA-256 digest of a token is ever stored.
package refreshtokens

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/dmitrijs2005/codehunt/internal/server/models"
)

// Repository issues, consumes and revokes refresh tokens.
type Repository interface {
	// Issue records t. The token value itself is not persisted.
	Issue(ctx context.Context, t *models.RefreshToken) error

	// Consume removes the token and returns what it was issued for, so a
	// token can be exchanged at most once. Unknown tokens yield
	// common.ErrorNotFound.
	Consume(ctx context.Context, token string) (*models.RefreshToken, error)

	// Revoke removes the token if present.
	Revoke(ctx context.Context, token string) error

	// RevokeAll removes every token of the user and reports how many went.
	RevokeAll(ctx context.Context, userID string) (int64, error)
}

// Digest is the stored form of a token.
func Digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
