package models

import "time"

// RefreshToken is an issued refresh token. Token is only known at issue
// time and when a client presents it.
type RefreshToken struct {
	UserID  string
	Token   string
	Expires time.Time
}
