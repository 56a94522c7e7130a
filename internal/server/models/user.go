// Package models defines server-side data models persisted in the database.
package models

import "time"

type User struct {
	ID               string
	Email            string
	PasswordHash     string
	EmailConfirmedAt *time.Time
	Provider         string
	CreatedAt        time.Time
}

// Confirmed reports whether the user followed the sign-up link
// (or was confirmed automatically).
func (u *User) Confirmed() bool {
	return u.EmailConfirmedAt != nil
}
