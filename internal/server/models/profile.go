package models

import "time"

// Profile is the per-user editable record, keyed by the user id.
type Profile struct {
	ID        string    `json:"id"`
	FullName  *string   `json:"full_name"`
	AvatarURL *string   `json:"avatar_url"`
	Phone     *string   `json:"phone"`
	City      *string   `json:"city"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Preferences holds the investment preferences collected during onboarding.
type Preferences struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Goal          *string   `json:"goal"`
	BudgetMin     *int64    `json:"budget_min"`
	BudgetMax     *int64    `json:"budget_max"`
	Cities        []string  `json:"cities"`
	PropertyTypes []string  `json:"property_types"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Column returns the value of a writable profile column by name.
func (p *Profile) Column(name string) *string {
	switch name {
	case "full_name":
		return p.FullName
	case "avatar_url":
		return p.AvatarURL
	case "phone":
		return p.Phone
	case "city":
		return p.City
	}
	return nil
}
