package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/codehunt/internal/common"
	"github.com/dmitrijs2005/codehunt/internal/dbx"
	"github.com/dmitrijs2005/codehunt/internal/server/models"
)

const (
	issueSQL = `INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES ($1, $2, $3)`

	consumeSQL = `DELETE FROM refresh_tokens WHERE token_hash = $1 RETURNING user_id, expires_at`

	revokeSQL = `DELETE FROM refresh_tokens WHERE token_hash = $1`

	revokeAllSQL = `DELETE FROM refresh_tokens WHERE user_id = $1`
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Issue(ctx context.Context, t *models.RefreshToken) error {
	if _, err := r.db.ExecContext(ctx, issueSQL, t.UserID, Digest(t.Token), t.Expires); err != nil {
		return fmt.Errorf("issue refresh token: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Consume(ctx context.Context, token string) (*models.RefreshToken, error) {
	t := &models.RefreshToken{Token: token}
	err := r.db.QueryRowContext(ctx, consumeSQL, Digest(token)).Scan(&t.UserID, &t.Expires)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, common.ErrorNotFound
	case err != nil:
		return nil, fmt.Errorf("consume refresh token: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) Revoke(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, revokeSQL, Digest(token)); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

func (r *PostgresRepository) RevokeAll(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, revokeAllSQL, userID)
	if err != nil {
		return 0, fmt.Errorf("revoke refresh tokens of %s: %w", userID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("revoke refresh tokens of %s: %w", userID, err)
	}
	return n, nil
}
