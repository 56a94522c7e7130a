package services

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	"github.com/dmitrijs2005/codehunt/internal/common"
	"github.com/dmitrijs2005/codehunt/internal/server/models"
	"github.com/dmitrijs2005/codehunt/internal/server/repositories/preferences"
	"github.com/dmitrijs2005/codehunt/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/codehunt/internal/server/repositories/repomanager"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Goals lists the accepted preferences.goal values.
var Goals = []string{"Buy", "Rent", "Invest"}

// Columns a client may send but never writes directly.
var readOnlyColumns = []string{"id", "user_id", "created_at", "updated_at"}

// RowService serves the generic row API over the per-user tables. Every row
// belongs to exactly one user and is reachable only with that user's token.
type RowService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewRowService(db *sql.DB, m repomanager.RepositoryManager) *RowService {
	return &RowService{db: db, repomanager: m, now: time.Now}
}

// FetchRow returns the JSON encoded row keyed by id. For profiles id is the
// row id, for user_preferences it is the owning user id; in both cases it
// must be the caller. Missing rows yield common.ErrorNotFound.
func (s *RowService) FetchRow(ctx context.Context, userID, table, id string) ([]byte, error) {
	if id != userID {
		if !isKnownTable(table) {
			return nil, common.ErrUnknownTable
		}
		return nil, common.ErrForbidden
	}

	var (
		row any
		err error
	)
	switch table {
	case common.TableProfiles:
		row, err = s.repomanager.Profiles(s.db).Get(ctx, id)
	case common.TablePreferences:
		row, err = s.repomanager.Preferences(s.db).Get(ctx, id)
	default:
		return nil, common.ErrUnknownTable
	}
	if err != nil {
		return nil, err
	}

	b, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("encode row: %w", err)
	}
	return b, nil
}

// UpsertRow inserts or updates the caller's row. Only the columns present in
// the payload are written, so an explicit null clears a column while an
// absent key leaves it alone.
func (s *RowService) UpsertRow(ctx context.Context, userID, table string, row []byte) error {
	var fields map[string]jsoniter.RawMessage
	if err := json.Unmarshal(row, &fields); err != nil || fields == nil {
		return fmt.Errorf("%w: payload must be a JSON object", common.ErrInvalidRow)
	}

	switch table {
	case common.TableProfiles:
		return s.upsertProfile(ctx, userID, fields, row)
	case common.TablePreferences:
		return s.upsertPreferences(ctx, userID, fields, row)
	}
	return common.ErrUnknownTable
}

func (s *RowService) upsertProfile(ctx context.Context, userID string, fields map[string]jsoniter.RawMessage, row []byte) error {
	columns, err := columnsOf(fields, profiles.Writable)
	if err != nil {
		return err
	}

	p := &models.Profile{}
	if err := json.Unmarshal(row, p); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidRow, err)
	}
	if p.ID == "" {
		p.ID = userID
	}
	if p.ID != userID {
		return common.ErrForbidden
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = s.now()
	}

	return s.repomanager.Profiles(s.db).Upsert(ctx, p, columns)
}

func (s *RowService) upsertPreferences(ctx context.Context, userID string, fields map[string]jsoniter.RawMessage, row []byte) error {
	columns, err := columnsOf(fields, preferences.Writable)
	if err != nil {
		return err
	}

	p := &models.Preferences{}
	if err := json.Unmarshal(row, p); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidRow, err)
	}
	if p.UserID == "" {
		p.UserID = userID
	}
	if p.UserID != userID {
		return common.ErrForbidden
	}
	if p.Goal != nil && !slices.Contains(Goals, *p.Goal) {
		return fmt.Errorf("%w: unknown goal %q", common.ErrInvalidRow, *p.Goal)
	}
	if p.BudgetMin != nil && p.BudgetMax != nil && *p.BudgetMin > *p.BudgetMax {
		return fmt.Errorf("%w: budget_min exceeds budget_max", common.ErrInvalidRow)
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = s.now()
	}

	return s.repomanager.Preferences(s.db).Upsert(ctx, p, columns)
}

// columnsOf returns the writable columns present in fields and rejects
// unknown keys.
func columnsOf(fields map[string]jsoniter.RawMessage, writable []string) ([]string, error) {
	var columns []string
	for k := range fields {
		switch {
		case slices.Contains(writable, k):
			columns = append(columns, k)
		case slices.Contains(readOnlyColumns, k):
		default:
			return nil, fmt.Errorf("%w: unknown column %q", common.ErrInvalidRow, k)
		}
	}
	slices.Sort(columns)
	return columns, nil
}

func isKnownTable(table string) bool {
	return table == common.TableProfiles || table == common.TablePreferences
}
