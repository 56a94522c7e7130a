package models

import (
	"strings"
	"time"
)

// Profile is a row of the profiles table. Nil fields are stored as NULL.
type Profile struct {
	ID        string     `json:"id"`
	FullName  *string    `json:"full_name"`
	Phone     *string    `json:"phone"`
	City      *string    `json:"city"`
	AvatarURL *string    `json:"avatar_url,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// ProfileForm is the edit buffer behind the profile screen.
type ProfileForm struct {
	FullName string
	Phone    string
	City     string
}

// FormFromProfile fills a form from a stored row; NULL becomes "".
func FormFromProfile(p *Profile) ProfileForm {
	if p == nil {
		return ProfileForm{}
	}
	return ProfileForm{FullName: deref(p.FullName), Phone: deref(p.Phone), City: deref(p.City)}
}

// Preferences is a row of the user_preferences table.
type Preferences struct {
	ID            string     `json:"id,omitempty"`
	UserID        string     `json:"user_id"`
	Goal          *string    `json:"goal"`
	BudgetMin     *int64     `json:"budget_min"`
	BudgetMax     *int64     `json:"budget_max"`
	Cities        []string   `json:"cities"`
	PropertyTypes []string   `json:"property_types"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// PreferencesForm is the edit buffer behind onboarding and the preferences screen.
type PreferencesForm struct {
	Goal          string
	Budget        *BudgetRange
	Cities        []string
	PropertyTypes []string
}

// FormFromPreferences fills a form from a stored row. A stored budget that
// matches none of the fixed ranges leaves Budget unset.
func FormFromPreferences(p *Preferences) PreferencesForm {
	if p == nil {
		return PreferencesForm{}
	}
	f := PreferencesForm{
		Goal:          deref(p.Goal),
		Cities:        append([]string(nil), p.Cities...),
		PropertyTypes: append([]string(nil), p.PropertyTypes...),
	}
	for i := range BudgetRanges {
		r := BudgetRanges[i]
		if eqInt(p.BudgetMin, r.Min) && eqInt(p.BudgetMax, r.Max) {
			f.Budget = &r
			break
		}
	}
	return f
}

// Toggle adds v to list when absent and removes it when present.
func Toggle(list []string, v string) []string {
	for i, item := range list {
		if item == v {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return append(list, v)
}

var (
	Goals = []string{"Buy", "Rent", "Invest"}

	Cities = []string{
		"Bangalore", "Mumbai", "Hyderabad", "Chennai", "Pune",
		"Delhi NCR", "Gurgaon", "Ahmedabad", "Kolkata", "Kochi",
	}

	PropertyTypes = []string{"Apartment", "Villa", "Plot", "Commercial", "Studio", "Penthouse", "Rowhouse"}
)

// BudgetRange is one of the fixed budget choices.
type BudgetRange struct {
	Label string
	Min   *int64
	Max   *int64
}

func i64(v int64) *int64 { return &v }

var BudgetRanges = []BudgetRange{
	{Label: "Under ₹30L", Min: i64(0), Max: i64(3_000_000)},
	{Label: "₹30L - ₹60L", Min: i64(3_000_000), Max: i64(6_000_000)},
	{Label: "₹60L - ₹1Cr", Min: i64(6_000_000), Max: i64(10_000_000)},
	{Label: "₹1Cr - ₹2Cr", Min: i64(10_000_000), Max: i64(20_000_000)},
	{Label: "₹2Cr - ₹5Cr", Min: i64(20_000_000), Max: i64(50_000_000)},
	{Label: "Above ₹5Cr", Min: i64(50_000_000), Max: i64(999_999_999)},
}

// NullIfBlank trims s and returns nil when nothing is left.
func NullIfBlank(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func eqInt(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
