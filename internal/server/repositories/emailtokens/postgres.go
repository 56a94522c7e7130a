package emailtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/codehunt/internal/common"
	"github.com/dmitrijs2005/codehunt/internal/dbx"
	"github.com/dmitrijs2005/codehunt/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, t *models.EmailToken) error {
	query := `
		INSERT INTO email_tokens (token, user_id, kind, redirect_to, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.db.ExecContext(ctx, query, t.Token, t.UserID, t.Kind, t.RedirectTo, t.Expires); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Consume(ctx context.Context, token string) (*models.EmailToken, error) {
	query := `
		DELETE FROM email_tokens
		WHERE token = $1
		RETURNING user_id, kind, redirect_to, expires_at
	`
	t := &models.EmailToken{Token: token}
	err := r.db.QueryRowContext(ctx, query, token).Scan(&t.UserID, &t.Kind, &t.RedirectTo, &t.Expires)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}
