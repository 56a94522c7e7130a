package models

import "time"

// Kinds of mailed links.
const (
	EmailTokenSignup   = "signup"
	EmailTokenRecovery = "recovery"
)

// EmailToken is a single-use token embedded in a mailed link.
type EmailToken struct {
	Token      string
	UserID     string
	Kind       string
	RedirectTo string
	Expires    time.Time
}
