package preferences

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
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*models.Preferences, error) {
	query := `
		SELECT id, user_id, goal, budget_min, budget_max, cities, property_types, created_at, updated_at
		FROM user_preferences
		WHERE user_id = $1
	`
	p := &models.Preferences{}
	var (
		goal                 sql.NullString
		budgetMin, budgetMax sql.NullInt64
		cities, types        []byte
	)
	err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&p.ID, &p.UserID, &goal, &budgetMin, &budgetMax, &cities, &types, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if goal.Valid {
		p.Goal = &goal.String
	}
	if budgetMin.Valid {
		p.BudgetMin = &budgetMin.Int64
	}
	if budgetMax.Valid {
		p.BudgetMax = &budgetMax.Int64
	}
	if p.Cities, err = decodeList(cities); err != nil {
		return nil, err
	}
	if p.PropertyTypes, err = decodeList(types); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, p *models.Preferences, columns []string) error {
	updatedAt := p.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	names := []string{"user_id"}
	args := []any{p.UserID}
	for _, c := range Writable {
		if !slices.Contains(columns, c) {
			continue
		}
		v, err := column(p, c)
		if err != nil {
			return err
		}
		names = append(names, c)
		args = append(args, v)
	}
	names = append(names, "updated_at")
	args = append(args, updatedAt)

	placeholders := make([]string, len(names))
	updates := make([]string, 0, len(names)-1)
	for i, n := range names {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		if n != "user_id" {
			updates = append(updates, n+" = EXCLUDED."+n)
		}
	}

	query := "INSERT INTO user_preferences (" + strings.Join(names, ", ") + ") VALUES (" + strings.Join(placeholders, ", ") +
		") ON CONFLICT (user_id) DO UPDATE SET " + strings.Join(updates, ", ")

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func column(p *models.Preferences, name string) (any, error) {
	switch name {
	case "goal":
		if p.Goal == nil {
			return nil, nil
		}
		return *p.Goal, nil
	case "budget_min":
		if p.BudgetMin == nil {
			return nil, nil
		}
		return *p.BudgetMin, nil
	case "budget_max":
		if p.BudgetMax == nil {
			return nil, nil
		}
		return *p.BudgetMax, nil
	case "cities":
		return encodeList(p.Cities)
	case "property_types":
		return encodeList(p.PropertyTypes)
	}
	return nil, fmt.Errorf("unknown column %q", name)
}

func encodeList(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}
	return string(b), nil
}

func decodeList(b []byte) ([]string, error) {
	out := []string{}
	if len(b) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	return out, nil
}
