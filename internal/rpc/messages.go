// Package rpc describes the CodeHunt backend service: request and response
// messages, the gRPC service descriptor, a typed client and the server
// interface. Messages travel as JSON using the codec registered in this package.
package rpc

import (
	stdjson "encoding/json"
	"time"
)

type Empty struct{}

type User struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	EmailConfirmedAt *time.Time `json:"email_confirmed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	Provider         string     `json:"provider"`
}

type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

type SignUpRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

// SignUpResponse carries a session when the account was confirmed right away,
// otherwise ConfirmationSent is set and the user has to follow the mailed link.
type SignUpResponse struct {
	Session          *Session `json:"session,omitempty"`
	ConfirmationSent bool     `json:"confirmation_sent"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionResponse struct {
	Session *Session `json:"session"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type SignOutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ResetPasswordRequest struct {
	Email      string `json:"email"`
	RedirectTo string `json:"redirect_to"`
}

type UpdatePasswordRequest struct {
	Password string `json:"password"`
}

type GetUserResponse struct {
	User User `json:"user"`
}

type FetchRowRequest struct {
	Table string `json:"table"`
	ID    string `json:"id"`
}

type FetchRowResponse struct {
	Found bool               `json:"found"`
	Row   stdjson.RawMessage `json:"row,omitempty"`
}

type UpsertRowRequest struct {
	Table string             `json:"table"`
	Row   stdjson.RawMessage `json:"row"`
}

type ListingQuery struct {
	Text         string `json:"text,omitempty"`
	City         string `json:"city,omitempty"`
	Status       string `json:"status,omitempty"`
	PropertyType string `json:"property_type,omitempty"`
	Limit        int    `json:"limit,omitempty"`
}

type Listing struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     *string    `json:"description,omitempty"`
	Location        string     `json:"location"`
	City            string     `json:"city"`
	Price           int64      `json:"price"`
	PriceLabel      string     `json:"price_label"`
	Status          string     `json:"status"`
	PropertyType    string     `json:"property_type"`
	BHKConfig       *string    `json:"bhk_config,omitempty"`
	Images          []string   `json:"images"`
	SellerID        string     `json:"seller_id"`
	IsRERACertified bool       `json:"is_rera_certified"`
	IsHIRACertified bool       `json:"is_hira_certified"`
	AreaSqft        *int64     `json:"area_sqft,omitempty"`
	CompletionDate  *time.Time `json:"completion_date,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type ListListingsResponse struct {
	Listings []*Listing `json:"listings"`
}

type GetListingRequest struct {
	ID string `json:"id"`
}

type ListingResponse struct {
	Listing *Listing `json:"listing"`
}

type CreateListingRequest struct {
	Listing *Listing `json:"listing"`
}

type AvatarUploadURLResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type PingResponse struct {
	Status string `json:"status"`
}
