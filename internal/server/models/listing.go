package models

import "time"

type Listing struct {
	ID              string
	Title           string
	Description     *string
	Location        string
	City            string
	Price           int64
	PriceLabel      string
	Status          string
	PropertyType    string
	BHKConfig       *string
	Images          []string
	SellerID        string
	IsRERACertified bool
	IsHIRACertified bool
	AreaSqft        *int64
	CompletionDate  *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ListingQuery filters the listing browser. Empty fields do not filter.
type ListingQuery struct {
	Text         string
	City         string
	Status       string
	PropertyType string
	Limit        int
}
