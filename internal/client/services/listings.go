package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/codehunt/internal/client/client"
	"github.com/dmitrijs2005/codehunt/internal/client/models"
	"github.com/dmitrijs2005/codehunt/internal/logging"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	DefaultListingCacheSize = 128
	defaultPageSize         = 20

	// MissingFieldsMessage is the form-level message for an incomplete listing.
	MissingFieldsMessage = "Please fill in all required fields."
)

// ListingClient is the part of client.Client the listing screens need.
type ListingClient interface {
	ListListings(ctx context.Context, filter models.ListingFilter) ([]*models.Listing, error)
	GetListing(ctx context.Context, id string) (*models.Listing, error)
	CreateListing(ctx context.Context, l *models.Listing) (*models.Listing, error)
}

// ListingDraft is the create-listing form as typed by the user.
type ListingDraft struct {
	Title        string
	Description  string
	Location     string
	Price        string
	AreaSqft     string
	PropertyType string
	BHKConfig    string
	Status       string
}

type ListingsService struct {
	client ListingClient
	cache  *lru.Cache[string, *models.Listing]
	logger logging.Logger
}

func NewListingsService(c ListingClient, cacheSize int, l logging.Logger) (*ListingsService, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultListingCacheSize
	}
	cache, err := lru.New[string, *models.Listing](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("listing cache: %w", err)
	}
	return &ListingsService{client: c, cache: cache, logger: l.With("module", "listings_service")}, nil
}

// Browse returns the newest listings.
func (s *ListingsService) Browse(ctx context.Context, limit int) ([]*models.Listing, error) {
	return s.Search(ctx, models.ListingFilter{Limit: limit})
}

// Search runs a filtered query. Results also warm the detail cache.
func (s *ListingsService) Search(ctx context.Context, f models.ListingFilter) ([]*models.Listing, error) {
	f.Text = strings.TrimSpace(f.Text)
	if f.Limit <= 0 {
		f.Limit = defaultPageSize
	}
	out, err := s.client.ListListings(ctx, f)
	if err != nil {
		return nil, classify(err, "")
	}
	for _, l := range out {
		s.cache.Add(l.ID, l)
	}
	return out, nil
}

// Get returns one listing, from cache when possible. An unknown id yields
// client.ErrNotFound.
func (s *ListingsService) Get(ctx context.Context, id string) (*models.Listing, error) {
	if l, ok := s.cache.Get(id); ok {
		return l, nil
	}
	l, err := s.client.GetListing(ctx, id)
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			return nil, err
		}
		return nil, classify(err, "")
	}
	s.cache.Add(l.ID, l)
	return l, nil
}

// Create validates the draft and submits it. The stored listing, with its
// id and price label, is returned.
func (s *ListingsService) Create(ctx context.Context, d ListingDraft) (*models.Listing, error) {
	l, err := d.Listing()
	if err != nil {
		return nil, err
	}
	created, err := s.client.CreateListing(ctx, l)
	if err != nil {
		s.logger.Warn(ctx, "create listing failed", "error", err)
		return nil, classify(err, "")
	}
	s.cache.Add(created.ID, created)
	return created, nil
}

// Listing converts the draft, checking the required fields: title,
// location, price, property type and status.
func (d ListingDraft) Listing() (*models.Listing, error) {
	f := fieldErrors{}
	title := strings.TrimSpace(d.Title)
	location := strings.TrimSpace(d.Location)
	if title == "" {
		f["title"] = MissingFieldsMessage
	}
	if location == "" {
		f["location"] = MissingFieldsMessage
	}

	price, perr := parseAmount(d.Price)
	switch {
	case strings.TrimSpace(d.Price) == "":
		f["price"] = MissingFieldsMessage
	case perr != nil || price <= 0:
		f["price"] = "Enter a valid price"
	}
	if d.PropertyType == "" {
		f["property_type"] = MissingFieldsMessage
	} else if !slices.Contains(models.PropertyTypes, d.PropertyType) {
		f["property_type"] = "Choose a property type"
	}
	if d.Status == "" {
		f["status"] = MissingFieldsMessage
	} else if !slices.Contains(models.ListingStatuses, d.Status) {
		f["status"] = "Choose a listing status"
	}
	if d.BHKConfig != "" && !slices.Contains(models.BHKConfigs, d.BHKConfig) {
		f["bhk_config"] = "Choose a configuration"
	}

	var area *int64
	if strings.TrimSpace(d.AreaSqft) != "" {
		v, err := parseAmount(d.AreaSqft)
		if err != nil || v <= 0 {
			f["area_sqft"] = "Enter a valid area"
		} else {
			area = &v
		}
	}
	if err := f.err(); err != nil {
		return nil, err
	}

	return &models.Listing{
		Title:        title,
		Description:  models.NullIfBlank(d.Description),
		Location:     location,
		Price:        price,
		Status:       d.Status,
		PropertyType: d.PropertyType,
		BHKConfig:    models.NullIfBlank(d.BHKConfig),
		AreaSqft:     area,
		Images:       []string{},
	}, nil
}

// parseAmount accepts digits with optional thousands separators.
func parseAmount(s string) (int64, error) {
	s = strings.NewReplacer(",", "", " ", "", "_", "").Replace(strings.TrimSpace(s))
	return strconv.ParseInt(s, 10, 64)
}
