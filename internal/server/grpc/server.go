// Package grpc exposes the backend services over gRPC using the JSON codec
// from the rpc package.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/codehunt/internal/logging"
	"github.com/dmitrijs2005/codehunt/internal/rpc"
	"github.com/dmitrijs2005/codehunt/internal/server/models"
	"github.com/dmitrijs2005/codehunt/internal/server/services"
	"google.golang.org/grpc"
)

type UserService interface {
	SignUp(ctx context.Context, email, password, redirectTo string) (*services.Session, error)
	SignIn(ctx context.Context, email, password string) (*services.Session, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.Session, error)
	SignOut(ctx context.Context, refreshToken string) error
	RequestPasswordReset(ctx context.Context, email, redirectTo string) error
	UpdatePassword(ctx context.Context, userID, password string) error
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

type RowService interface {
	FetchRow(ctx context.Context, userID, table, id string) ([]byte, error)
	UpsertRow(ctx context.Context, userID, table string, row []byte) error
}

type ListingService interface {
	List(ctx context.Context, q models.ListingQuery) ([]*models.Listing, error)
	Get(ctx context.Context, id string) (*models.Listing, error)
	Create(ctx context.Context, sellerID string, l *models.Listing) (*models.Listing, error)
}

type AvatarService interface {
	UploadURL(ctx context.Context, userID string) (string, string, error)
}

// Pinger reports database health; *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Services groups the dependencies of GRPCServer.
type Services struct {
	Users    UserService
	Rows     RowService
	Listings ListingService
	Avatars  AvatarService
	DB       Pinger
}

type GRPCServer struct {
	rpc.UnimplementedBackendServer
	address   string
	services  Services
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(address string, l logging.Logger, s Services, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   address,
		logger:    l.With("module", "grpc_server"),
		services:  s,
		jwtSecret: []byte(secretKey),
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	rpc.RegisterBackendServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	return srv.Serve(lis)
}
