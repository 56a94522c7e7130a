package listings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/codehunt/internal/common"
	"github.com/dmitrijs2005/codehunt/internal/dbx"
	"github.com/dmitrijs2005/codehunt/internal/server/models"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

const selectListing = `SELECT id, title, description, location, city, price, price_label, status, property_type,
	bhk_config, images, seller_id, is_rera_certified, is_hira_certified, area_sqft, completion_date,
	created_at, updated_at
	FROM properties`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, q models.ListingQuery) ([]*models.Listing, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if text := strings.TrimSpace(q.Text); text != "" {
		p := arg("%" + text + "%")
		where = append(where, "(title ILIKE "+p+" OR location ILIKE "+p+")")
	}
	if q.City != "" {
		where = append(where, "city = "+arg(q.City))
	}
	if q.Status != "" {
		where = append(where, "status = "+arg(q.Status))
	}
	if q.PropertyType != "" {
		where = append(where, "property_type = "+arg(q.PropertyType))
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	query := selectListing
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC LIMIT " + arg(limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*models.Listing
	for rows.Next() {
		l, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Listing, error) {
	l, err := scan(r.db.QueryRowContext(ctx, selectListing+" WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	return l, err
}

func (r *PostgresRepository) Create(ctx context.Context, l *models.Listing) error {
	images := l.Images
	if images == nil {
		images = []string{}
	}
	imagesJSON, err := json.Marshal(images)
	if err != nil {
		return fmt.Errorf("encode images: %w", err)
	}

	query := `
		INSERT INTO properties (title, description, location, city, price, price_label, status, property_type,
			bhk_config, images, seller_id, is_rera_certified, is_hira_certified, area_sqft, completion_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at, updated_at
	`
	var seller sql.NullString
	if l.SellerID != "" {
		seller = sql.NullString{String: l.SellerID, Valid: true}
	}
	err = r.db.QueryRowContext(ctx, query,
		l.Title, nullString(l.Description), l.Location, l.City, l.Price, l.PriceLabel, l.Status, l.PropertyType,
		nullString(l.BHKConfig), string(imagesJSON), seller, l.IsRERACertified, l.IsHIRACertified,
		nullInt(l.AreaSqft), nullTime(l),
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	l.Images = images
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*models.Listing, error) {
	l := &models.Listing{}
	var (
		description, bhk, seller sql.NullString
		area                     sql.NullInt64
		completion               sql.NullTime
		images                   []byte
	)
	err := s.Scan(&l.ID, &l.Title, &description, &l.Location, &l.City, &l.Price, &l.PriceLabel, &l.Status,
		&l.PropertyType, &bhk, &images, &seller, &l.IsRERACertified, &l.IsHIRACertified, &area, &completion,
		&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if description.Valid {
		l.Description = &description.String
	}
	if bhk.Valid {
		l.BHKConfig = &bhk.String
	}
	l.SellerID = seller.String
	if area.Valid {
		l.AreaSqft = &area.Int64
	}
	if completion.Valid {
		l.CompletionDate = &completion.Time
	}
	l.Images = []string{}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &l.Images); err != nil {
			return nil, fmt.Errorf("decode images: %w", err)
		}
	}
	return l, nil
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullTime(l *models.Listing) sql.NullTime {
	if l.CompletionDate == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *l.CompletionDate, Valid: true}
}
