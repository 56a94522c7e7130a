package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/codehunt/internal/common"
	"github.com/dmitrijs2005/codehunt/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		price int64
		want  string
	}{
		{0, "Price on Request"},
		{-5, "Price on Request"},
		{950, "₹950"},
		{95000, "₹95,000"},
		{100000, "₹1.00 L"},
		{4500000, "₹45.00 L"},
		{9999999, "₹100.00 L"},
		{12000000, "₹1.20 Cr"},
		{450000000, "₹45.00 Cr"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPrice(tt.price), "price %d", tt.price)
	}
}

func TestValidateListing(t *testing.T) {
	bad := "9 BHK"
	err := ValidateListing(&models.Listing{Title: "x", BHKConfig: &bad})
	require.ErrorIs(t, err, common.ErrInvalidListing)
	assert.Contains(t, err.Error(), "location, price, property_type, status, bhk_config")

	ok := &models.Listing{Title: "x", Location: "y", Price: 1, PropertyType: "Villa", Status: "Rent"}
	assert.NoError(t, ValidateListing(ok))
}

func TestListingService_Create(t *testing.T) {
	db, _ := newSQLMockDB(t)
	st := newStore()
	svc := NewListingService(db, &fakeRepoManager{s: st})
	ctx := context.Background()

	l, err := svc.Create(ctx, "u1", &models.Listing{
		Title: "  Green Acres ", Location: "Whitefield, Bangalore", Price: 32000000,
		PropertyType: "Villa", Status: "Buy", PriceLabel: "free!",
	})
	require.NoError(t, err)
	assert.Equal(t, "Green Acres", l.Title)
	assert.Equal(t, "₹3.20 Cr", l.PriceLabel)
	assert.Equal(t, "Bangalore", l.City)
	assert.Equal(t, "u1", l.SellerID)

	got, err := svc.Get(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, l, got)

	list, err := svc.List(ctx, models.ListingQuery{City: "Bangalore"})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.Create(ctx, "u1", &models.Listing{Title: "x"})
	assert.ErrorIs(t, err, common.ErrInvalidListing)
	assert.Len(t, st.listings, 1)
}
