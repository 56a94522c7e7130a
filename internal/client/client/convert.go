package client

import (
	"github.com/dmitrijs2005/codehunt/internal/client/models"
	"github.com/dmitrijs2005/codehunt/internal/rpc"
)

func fromRPCUser(u rpc.User) models.User {
	return models.User{
		ID:               u.ID,
		Email:            u.Email,
		EmailConfirmedAt: u.EmailConfirmedAt,
		CreatedAt:        u.CreatedAt,
		Provider:         u.Provider,
	}
}

func fromRPCSession(s *rpc.Session) *models.Session {
	if s == nil {
		return nil
	}
	return &models.Session{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresAt:    s.ExpiresAt,
		User:         fromRPCUser(s.User),
	}
}

func fromRPCListing(l *rpc.Listing) *models.Listing {
	if l == nil {
		return nil
	}
	return &models.Listing{
		ID:              l.ID,
		Title:           l.Title,
		Description:     l.Description,
		Location:        l.Location,
		City:            l.City,
		Price:           l.Price,
		PriceLabel:      l.PriceLabel,
		Status:          l.Status,
		PropertyType:    l.PropertyType,
		BHKConfig:       l.BHKConfig,
		Images:          l.Images,
		SellerID:        l.SellerID,
		IsRERACertified: l.IsRERACertified,
		IsHIRACertified: l.IsHIRACertified,
		AreaSqft:        l.AreaSqft,
		CompletionDate:  l.CompletionDate,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
}

func toRPCListing(l *models.Listing) *rpc.Listing {
	return &rpc.Listing{
		Title:           l.Title,
		Description:     l.Description,
		Location:        l.Location,
		City:            l.City,
		Price:           l.Price,
		Status:          l.Status,
		PropertyType:    l.PropertyType,
		BHKConfig:       l.BHKConfig,
		Images:          l.Images,
		IsRERACertified: l.IsRERACertified,
		IsHIRACertified: l.IsHIRACertified,
		AreaSqft:        l.AreaSqft,
		CompletionDate:  l.CompletionDate,
	}
}
