package services

import (
	"slices"
	"time"

	"github.com/dmitrijs2005/codehunt/internal/client/models"
	"github.com/dmitrijs2005/codehunt/internal/common"
	"github.com/dmitrijs2005/codehunt/internal/logging"
)

// PreferencesEditor backs onboarding and the investment preferences screen.
type PreferencesEditor struct {
	*rowEditor[models.Preferences, models.PreferencesForm]
}

func NewPreferencesEditor(rows RowClient, sessions SessionSource, l logging.Logger) *PreferencesEditor {
	return &PreferencesEditor{&rowEditor[models.Preferences, models.PreferencesForm]{
		rows:     rows,
		sessions: sessions,
		table:    common.TablePreferences,
		logger:   l.With("module", "preferences_editor"),
		now:      time.Now,
		fromRow:  models.FormFromPreferences,
		toRow:    preferencesRow,
		clone:    clonePreferences,
	}}
}

func (p *PreferencesEditor) SetGoal(goal string) {
	p.Edit(func(f *models.PreferencesForm) {
		if f.Goal == goal {
			f.Goal = ""
			return
		}
		f.Goal = goal
	})
}

func (p *PreferencesEditor) SetBudget(r *models.BudgetRange) {
	p.Edit(func(f *models.PreferencesForm) { f.Budget = r })
}

func (p *PreferencesEditor) ToggleCity(city string) {
	p.Edit(func(f *models.PreferencesForm) { f.Cities = models.Toggle(f.Cities, city) })
}

func (p *PreferencesEditor) TogglePropertyType(t string) {
	p.Edit(func(f *models.PreferencesForm) { f.PropertyTypes = models.Toggle(f.PropertyTypes, t) })
}

func clonePreferences(f models.PreferencesForm) models.PreferencesForm {
	f.Cities = slices.Clone(f.Cities)
	f.PropertyTypes = slices.Clone(f.PropertyTypes)
	if f.Budget != nil {
		b := *f.Budget
		f.Budget = &b
	}
	return f
}

func preferencesRow(userID string, f models.PreferencesForm, now time.Time) any {
	now = now.UTC()
	row := &models.Preferences{
		UserID:        userID,
		Goal:          models.NullIfBlank(f.Goal),
		Cities:        append([]string{}, f.Cities...),
		PropertyTypes: append([]string{}, f.PropertyTypes...),
		UpdatedAt:     &now,
	}
	if f.Budget != nil {
		row.BudgetMin, row.BudgetMax = f.Budget.Min, f.Budget.Max
	}
	return row
}
