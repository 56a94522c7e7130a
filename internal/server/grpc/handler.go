package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/codehunt/internal/common"
	"github.com/dmitrijs2005/codehunt/internal/rpc"
	"github.com/dmitrijs2005/codehunt/internal/server/models"
	"github.com/dmitrijs2005/codehunt/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) SignUp(ctx context.Context, req *rpc.SignUpRequest) (*rpc.SignUpResponse, error) {
	session, err := s.services.Users.SignUp(ctx, req.Email, req.Password, req.RedirectTo)
	if err != nil {
		return nil, s.toStatus(ctx, "sign up", err)
	}
	if session == nil {
		return &rpc.SignUpResponse{ConfirmationSent: true}, nil
	}
	return &rpc.SignUpResponse{Session: toRPCSession(session)}, nil
}

func (s *GRPCServer) SignIn(ctx context.Context, req *rpc.SignInRequest) (*rpc.SessionResponse, error) {
	session, err := s.services.Users.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, "sign in", err)
	}
	return &rpc.SessionResponse{Session: toRPCSession(session)}, nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *rpc.RefreshTokenRequest) (*rpc.SessionResponse, error) {
	session, err := s.services.Users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.toStatus(ctx, "refresh token", err)
	}
	return &rpc.SessionResponse{Session: toRPCSession(session)}, nil
}

func (s *GRPCServer) SignOut(ctx context.Context, req *rpc.SignOutRequest) (*rpc.Empty, error) {
	if err := s.services.Users.SignOut(ctx, req.RefreshToken); err != nil {
		return nil, s.toStatus(ctx, "sign out", err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) ResetPasswordForEmail(ctx context.Context, req *rpc.ResetPasswordRequest) (*rpc.Empty, error) {
	if err := s.services.Users.RequestPasswordReset(ctx, req.Email, req.RedirectTo); err != nil {
		return nil, s.toStatus(ctx, "password reset", err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) UpdatePassword(ctx context.Context, req *rpc.UpdatePasswordRequest) (*rpc.Empty, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.services.Users.UpdatePassword(ctx, userID, req.Password); err != nil {
		return nil, s.toStatus(ctx, "update password", err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) GetUser(ctx context.Context, _ *rpc.Empty) (*rpc.GetUserResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.services.Users.GetUser(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, "get user", err)
	}
	return &rpc.GetUserResponse{User: toRPCUser(user)}, nil
}

func (s *GRPCServer) FetchRow(ctx context.Context, req *rpc.FetchRowRequest) (*rpc.FetchRowResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	row, err := s.services.Rows.FetchRow(ctx, userID, req.Table, req.ID)
	if errors.Is(err, common.ErrorNotFound) {
		return &rpc.FetchRowResponse{Found: false}, nil
	}
	if err != nil {
		return nil, s.toStatus(ctx, "fetch row", err)
	}
	return &rpc.FetchRowResponse{Found: true, Row: row}, nil
}

func (s *GRPCServer) UpsertRow(ctx context.Context, req *rpc.UpsertRowRequest) (*rpc.Empty, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.services.Rows.UpsertRow(ctx, userID, req.Table, req.Row); err != nil {
		return nil, s.toStatus(ctx, "upsert row", err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) ListListings(ctx context.Context, req *rpc.ListingQuery) (*rpc.ListListingsResponse, error) {
	items, err := s.services.Listings.List(ctx, models.ListingQuery{
		Text:         req.Text,
		City:         req.City,
		Status:       req.Status,
		PropertyType: req.PropertyType,
		Limit:        req.Limit,
	})
	if err != nil {
		return nil, s.toStatus(ctx, "list listings", err)
	}

	resp := &rpc.ListListingsResponse{Listings: make([]*rpc.Listing, 0, len(items))}
	for _, l := range items {
		resp.Listings = append(resp.Listings, toRPCListing(l))
	}
	return resp, nil
}

func (s *GRPCServer) GetListing(ctx context.Context, req *rpc.GetListingRequest) (*rpc.ListingResponse, error) {
	l, err := s.services.Listings.Get(ctx, req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, "get listing", err)
	}
	return &rpc.ListingResponse{Listing: toRPCListing(l)}, nil
}

func (s *GRPCServer) CreateListing(ctx context.Context, req *rpc.CreateListingRequest) (*rpc.ListingResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if req.Listing == nil {
		return nil, status.Error(codes.InvalidArgument, common.ErrInvalidListing.Error())
	}
	l, err := s.services.Listings.Create(ctx, userID, fromRPCListing(req.Listing))
	if err != nil {
		return nil, s.toStatus(ctx, "create listing", err)
	}
	return &rpc.ListingResponse{Listing: toRPCListing(l)}, nil
}

func (s *GRPCServer) AvatarUploadURL(ctx context.Context, _ *rpc.Empty) (*rpc.AvatarUploadURLResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	key, url, err := s.services.Avatars.UploadURL(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, "avatar upload url", err)
	}
	return &rpc.AvatarUploadURLResponse{Key: key, URL: url}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, _ *rpc.Empty) (*rpc.PingResponse, error) {
	if s.services.DB != nil {
		if err := s.services.DB.PingContext(ctx); err != nil {
			s.logger.Warn(ctx, "database ping failed", "error", err)
			return nil, status.Error(codes.Unavailable, "database unavailable")
		}
	}
	return &rpc.PingResponse{Status: "OK"}, nil
}

// toStatus maps service errors onto gRPC codes. Messages of client-facing
// errors are passed through verbatim; everything else is logged and hidden.
func (s *GRPCServer) toStatus(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, common.ErrTokenExpired):
		return status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	case errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrRefreshTokenExpired),
		errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, common.ErrInvalidCredentials),
		errors.Is(err, common.ErrWeakPassword),
		errors.Is(err, common.ErrInvalidEmail),
		errors.Is(err, common.ErrInvalidLink),
		errors.Is(err, common.ErrInvalidRow),
		errors.Is(err, common.ErrInvalidListing),
		errors.Is(err, common.ErrUnknownTable):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrEmailTaken):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, common.ErrEmailNotConfirmed):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, common.ErrForbidden):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}

	s.logger.Error(ctx, op+" failed", "error", err)
	return status.Error(codes.Internal, common.ErrorInternal.Error())
}

func toRPCUser(u *models.User) rpc.User {
	return rpc.User{
		ID:               u.ID,
		Email:            u.Email,
		EmailConfirmedAt: u.EmailConfirmedAt,
		CreatedAt:        u.CreatedAt,
		Provider:         u.Provider,
	}
}

func toRPCSession(s *services.Session) *rpc.Session {
	return &rpc.Session{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresAt:    s.ExpiresAt,
		User:         toRPCUser(s.User),
	}
}

func toRPCListing(l *models.Listing) *rpc.Listing {
	return &rpc.Listing{
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

// fromRPCListing copies the fields a seller may set; ids, labels and
// timestamps are assigned by the service.
func fromRPCListing(l *rpc.Listing) *models.Listing {
	return &models.Listing{
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
