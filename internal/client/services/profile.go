package services

import (
	"time"

	"github.com/dmitrijs2005/codehunt/internal/client/models"
	"github.com/dmitrijs2005/codehunt/internal/common"
	"github.com/dmitrijs2005/codehunt/internal/logging"
)

// ProfileEditor backs the edit-profile screen.
type ProfileEditor struct {
	*rowEditor[models.Profile, models.ProfileForm]
}

func NewProfileEditor(rows RowClient, sessions SessionSource, l logging.Logger) *ProfileEditor {
	return &ProfileEditor{&rowEditor[models.Profile, models.ProfileForm]{
		rows:     rows,
		sessions: sessions,
		table:    common.TableProfiles,
		logger:   l.With("module", "profile_editor"),
		now:      time.Now,
		fromRow:  models.FormFromProfile,
		toRow:    profileRow,
		clone:    func(f models.ProfileForm) models.ProfileForm { return f },
	}}
}

// profileRow sends every editable column, blank ones as null.
func profileRow(userID string, f models.ProfileForm, now time.Time) any {
	now = now.UTC()
	return &models.Profile{
		ID:        userID,
		FullName:  models.NullIfBlank(f.FullName),
		Phone:     models.NullIfBlank(f.Phone),
		City:      models.NullIfBlank(f.City),
		UpdatedAt: &now,
	}
}
