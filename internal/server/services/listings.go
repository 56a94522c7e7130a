package services

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/codehunt/internal/common"
	"github.com/dmitrijs2005/codehunt/internal/server/models"
	"github.com/dmitrijs2005/codehunt/internal/server/repositories/repomanager"
)

const (
	crore = 10_000_000
	lakh  = 100_000
)

var (
	PropertyTypes    = []string{"Apartment", "Villa", "Plot", "Commercial", "Studio", "Penthouse", "Rowhouse"}
	PropertyStatuses = []string{"Buy", "Rent", "New Launch", "Commercial"}
	BHKConfigs       = []string{"1 BHK", "2 BHK", "3 BHK", "4 BHK", "4+ BHK", "Studio", "Plot"}
)

type ListingService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewListingService(db *sql.DB, m repomanager.RepositoryManager) *ListingService {
	return &ListingService{db: db, repomanager: m}
}

func (s *ListingService) List(ctx context.Context, q models.ListingQuery) ([]*models.Listing, error) {
	return s.repomanager.Listings(s.db).List(ctx, q)
}

func (s *ListingService) Get(ctx context.Context, id string) (*models.Listing, error) {
	return s.repomanager.Listings(s.db).Get(ctx, id)
}

// Create validates and stores a listing submitted by sellerID. The price
// label is always derived from the price.
func (s *ListingService) Create(ctx context.Context, sellerID string, l *models.Listing) (*models.Listing, error) {
	l.Title = strings.TrimSpace(l.Title)
	l.Location = strings.TrimSpace(l.Location)
	if err := ValidateListing(l); err != nil {
		return nil, err
	}

	l.SellerID = sellerID
	l.PriceLabel = FormatPrice(l.Price)
	if l.City == "" {
		l.City = cityOf(l.Location)
	}

	if err := s.repomanager.Listings(s.db).Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// ValidateListing checks the required listing fields: title, location, a
// positive price, a property type and a status.
func ValidateListing(l *models.Listing) error {
	var missing []string
	if l.Title == "" {
		missing = append(missing, "title")
	}
	if l.Location == "" {
		missing = append(missing, "location")
	}
	if l.Price <= 0 {
		missing = append(missing, "price")
	}
	if !slices.Contains(PropertyTypes, l.PropertyType) {
		missing = append(missing, "property_type")
	}
	if !slices.Contains(PropertyStatuses, l.Status) {
		missing = append(missing, "status")
	}
	if l.BHKConfig != nil && !slices.Contains(BHKConfigs, *l.BHKConfig) {
		missing = append(missing, "bhk_config")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing or invalid %s", common.ErrInvalidListing, strings.Join(missing, ", "))
	}
	return nil
}

// FormatPrice renders a rupee amount: "₹1.20 Cr", "₹45.00 L", "₹95,000",
// or "Price on Request" when no price is known.
func FormatPrice(price int64) string {
	switch {
	case price <= 0:
		return "Price on Request"
	case price >= crore:
		return fmt.Sprintf("₹%.2f Cr", float64(price)/crore)
	case price >= lakh:
		return fmt.Sprintf("₹%.2f L", float64(price)/lakh)
	}
	return "₹" + groupThousands(price)
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// cityOf takes the last comma separated part of a location such as
// "Whitefield, Bangalore".
func cityOf(location string) string {
	parts := strings.Split(location, ",")
	return strings.TrimSpace(parts[len(parts)-1])
}
