package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

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

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Profile, error) {
	query := `
		SELECT id, full_name, avatar_url, phone, city, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`
	p := &models.Profile{}
	var fullName, avatarURL, phone, city sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&p.ID, &fullName, &avatarURL, &phone, &city, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	p.FullName = nullable(fullName)
	p.AvatarURL = nullable(avatarURL)
	p.Phone = nullable(phone)
	p.City = nullable(city)
	return p, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, p *models.Profile, columns []string) error {
	updatedAt := p.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	names := []string{"id"}
	args := []any{p.ID}
	for _, c := range Writable {
		if !slices.Contains(columns, c) {
			continue
		}
		names = append(names, c)
		args = append(args, nullString(p.Column(c)))
	}
	names = append(names, "updated_at")
	args = append(args, updatedAt)

	placeholders := make([]string, len(names))
	updates := make([]string, 0, len(names)-1)
	for i, n := range names {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		if n != "id" {
			updates = append(updates, n+" = EXCLUDED."+n)
		}
	}

	query := "INSERT INTO profiles (" + strings.Join(names, ", ") + ") VALUES (" + strings.Join(placeholders, ", ") +
		") ON CONFLICT (id) DO UPDATE SET " + strings.Join(updates, ", ")

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
