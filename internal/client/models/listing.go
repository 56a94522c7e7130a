package models

import "time"

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

// ListingFilter narrows the listing browser. Empty fields match everything.
type ListingFilter struct {
	Text         string
	City         string
	Status       string
	PropertyType string
	Limit        int
}

var ListingStatuses = []string{"Buy", "Rent", "New Launch", "Commercial"}

var BHKConfigs = []string{"1 BHK", "2 BHK", "3 BHK", "4 BHK", "4+ BHK", "Studio", "Plot"}
