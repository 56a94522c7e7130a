package client

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/codehunt/internal/client/models"
	metarepo "github.com/dmitrijs2005/codehunt/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/codehunt/internal/common"
	"github.com/dmitrijs2005/codehunt/internal/logging"
	"github.com/dmitrijs2005/codehunt/internal/rpc"
	jsoniter "github.com/json-iterator/go"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// sessionKey is the metadata key of the persisted session.
const sessionKey = "session"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      rpc.BackendClient
	store       metarepo.Repository
	logger      logging.Logger
	now         func() time.Time

	mu      sync.Mutex
	session *models.Session
	loaded  bool

	// emitMu keeps session writes and their notifications in one order.
	emitMu    sync.Mutex
	listeners map[int]AuthChangeFunc
	nextID    int

	refreshMu sync.Mutex
}

// NewGRPCClient connects to endpointURL. store may be nil, in which case the
// session lives in memory only.
func NewGRPCClient(endpointURL string, store metarepo.Repository, l logging.Logger, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{
		endpointURL: endpointURL,
		store:       store,
		logger:      l.With("module", "grpc_client"),
		now:         time.Now,
		listeners:   make(map[int]AuthChangeFunc),
	}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = rpc.NewBackendClient(conn)
	return c, nil
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)
	return metadata.NewOutgoingContext(ctx, md)
}

func isTokenExpired(err error) bool {
	st, ok := status.FromError(err)
	return ok && st.Code() == codes.Unauthenticated && st.Message() == common.ErrTokenExpired.Error()
}

// accessTokenInterceptor attaches the current access token and, when the
// server reports it expired, refreshes the session once and retries.
func (c *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if method == rpc.FullMethod("RefreshToken") {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	current := c.currentSession()
	if current != nil {
		ctx = withAccessToken(ctx, current.AccessToken)
	}

	err := invoker(ctx, method, req, reply, cc, opts...)
	if err == nil || current == nil || !isTokenExpired(err) {
		return err
	}

	refreshed, rerr := c.refresh(ctx, current)
	if rerr != nil {
		return rerr
	}
	return invoker(withAccessToken(ctx, refreshed.AccessToken), method, req, reply, cc, opts...)
}

// refresh exchanges the refresh token of stale for a new session. Concurrent
// callers holding the same stale session share one exchange.
func (c *GRPCClient) refresh(ctx context.Context, stale *models.Session) (*models.Session, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	if current := c.currentSession(); current != stale {
		if current == nil {
			return nil, ErrUnauthorized
		}
		return current, nil
	}

	resp, err := c.client.RefreshToken(ctx, &rpc.RefreshTokenRequest{RefreshToken: stale.RefreshToken})
	if err != nil {
		mapped := c.mapError(err)
		if !errors.Is(mapped, ErrUnavailable) {
			c.logger.Info(ctx, "refresh rejected, signing out", "error", err)
			c.setSession(ctx, models.EventSignedOut, nil)
		}
		return nil, mapped
	}

	s := fromRPCSession(resp.Session)
	c.setSession(ctx, models.EventTokenRefreshed, s)
	return s, nil
}

func (c *GRPCClient) currentSession() *models.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// setSession replaces the session, persists it and notifies subscribers.
func (c *GRPCClient) setSession(ctx context.Context, event models.AuthEvent, s *models.Session) {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	c.mu.Lock()
	c.session = s
	c.loaded = true
	c.mu.Unlock()

	c.persist(ctx, s)

	ids := make([]int, 0, len(c.listeners))
	for id := range c.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		c.listeners[id](event, s)
	}
}

func (c *GRPCClient) persist(ctx context.Context, s *models.Session) {
	if c.store == nil {
		return
	}
	var err error
	if s == nil {
		err = c.store.Delete(ctx, sessionKey)
	} else {
		err = metarepo.SetJSON(ctx, c.store, sessionKey, s)
	}
	if err != nil {
		c.logger.Warn(ctx, "persisting session failed", "error", err)
	}
}

func (c *GRPCClient) Subscribe(fn AuthChangeFunc) func() {
	c.emitMu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.emitMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.emitMu.Lock()
			delete(c.listeners, id)
			c.emitMu.Unlock()
		})
	}
}

func (c *GRPCClient) GetSession(ctx context.Context) (*models.Session, error) {
	c.mu.Lock()
	if !c.loaded {
		c.loaded = true
		if c.store != nil {
			var s models.Session
			err := metarepo.GetJSON(ctx, c.store, sessionKey, &s)
			switch {
			case err == nil:
				c.session = &s
			case !errors.Is(err, common.ErrorNotFound):
				c.logger.Warn(ctx, "persisted session unreadable", "error", err)
			}
		}
	}
	s := c.session
	c.mu.Unlock()

	if s == nil || !s.Expired(c.now()) {
		return s, nil
	}

	refreshed, err := c.refresh(ctx, s)
	switch {
	case err == nil:
		return refreshed, nil
	case errors.Is(err, ErrUnavailable):
		// Keep the stale session; the next call refreshes it.
		return s, nil
	case errors.Is(err, ErrUnauthorized), isRejected(err):
		return nil, nil
	}
	return nil, err
}

func (c *GRPCClient) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	resp, err := c.client.SignIn(ctx, &rpc.SignInRequest{Email: email, Password: password})
	if err != nil {
		return nil, c.mapError(err)
	}
	s := fromRPCSession(resp.Session)
	c.setSession(ctx, models.EventSignedIn, s)
	return s, nil
}

func (c *GRPCClient) SignUp(ctx context.Context, email, password, redirectTo string) (*models.Session, error) {
	resp, err := c.client.SignUp(ctx, &rpc.SignUpRequest{Email: email, Password: password, RedirectTo: redirectTo})
	if err != nil {
		return nil, c.mapError(err)
	}
	if resp.Session == nil {
		return nil, nil
	}
	s := fromRPCSession(resp.Session)
	c.setSession(ctx, models.EventSignedIn, s)
	return s, nil
}

// SignOut drops the local session and revokes its refresh token. A failed
// revocation is only logged.
func (c *GRPCClient) SignOut(ctx context.Context) error {
	current := c.currentSession()
	if current == nil {
		c.persist(ctx, nil)
		return nil
	}

	if _, err := c.client.SignOut(ctx, &rpc.SignOutRequest{RefreshToken: current.RefreshToken}); err != nil {
		c.logger.Warn(ctx, "refresh token revocation failed", "error", err)
	}
	c.setSession(ctx, models.EventSignedOut, nil)
	return nil
}

func (c *GRPCClient) ResetPasswordRequest(ctx context.Context, email, redirectTo string) error {
	_, err := c.client.ResetPasswordForEmail(ctx, &rpc.ResetPasswordRequest{Email: email, RedirectTo: redirectTo})
	return c.mapError(err)
}

func (c *GRPCClient) UpdatePassword(ctx context.Context, password string) error {
	current := c.currentSession()
	if current == nil {
		return ErrNoSession
	}
	if _, err := c.client.UpdatePassword(ctx, &rpc.UpdatePasswordRequest{Password: password}); err != nil {
		return c.mapError(err)
	}
	if latest := c.currentSession(); latest != nil {
		c.setSession(ctx, models.EventUserUpdated, latest)
	}
	return nil
}

func (c *GRPCClient) SetSession(ctx context.Context, accessToken, refreshToken string, expiresAt time.Time) (*models.Session, error) {
	resp, err := c.client.GetUser(withAccessToken(ctx, accessToken), &rpc.Empty{})
	if err != nil {
		return nil, c.mapError(err)
	}
	s := &models.Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		User:         fromRPCUser(resp.User),
	}
	c.setSession(ctx, models.EventPasswordRecovery, s)
	return s, nil
}

func (c *GRPCClient) FetchRow(ctx context.Context, table, id string, dst any) error {
	resp, err := c.client.FetchRow(ctx, &rpc.FetchRowRequest{Table: table, ID: id})
	if err != nil {
		return c.mapError(err)
	}
	if !resp.Found {
		return ErrNotFound
	}
	if err := json.Unmarshal(resp.Row, dst); err != nil {
		return fmt.Errorf("%w: malformed row: %v", ErrUnavailable, err)
	}
	return nil
}

func (c *GRPCClient) UpsertRow(ctx context.Context, table string, record any) error {
	row, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode row: %w", err)
	}
	_, err = c.client.UpsertRow(ctx, &rpc.UpsertRowRequest{Table: table, Row: row})
	return c.mapError(err)
}

func (c *GRPCClient) ListListings(ctx context.Context, f models.ListingFilter) ([]*models.Listing, error) {
	resp, err := c.client.ListListings(ctx, &rpc.ListingQuery{
		Text:         f.Text,
		City:         f.City,
		Status:       f.Status,
		PropertyType: f.PropertyType,
		Limit:        f.Limit,
	})
	if err != nil {
		return nil, c.mapError(err)
	}
	out := make([]*models.Listing, 0, len(resp.Listings))
	for _, l := range resp.Listings {
		out = append(out, fromRPCListing(l))
	}
	return out, nil
}

func (c *GRPCClient) GetListing(ctx context.Context, id string) (*models.Listing, error) {
	resp, err := c.client.GetListing(ctx, &rpc.GetListingRequest{ID: id})
	if err != nil {
		return nil, c.mapError(err)
	}
	return fromRPCListing(resp.Listing), nil
}

func (c *GRPCClient) CreateListing(ctx context.Context, l *models.Listing) (*models.Listing, error) {
	resp, err := c.client.CreateListing(ctx, &rpc.CreateListingRequest{Listing: toRPCListing(l)})
	if err != nil {
		return nil, c.mapError(err)
	}
	return fromRPCListing(resp.Listing), nil
}

func (c *GRPCClient) AvatarUploadURL(ctx context.Context) (string, string, error) {
	resp, err := c.client.AvatarUploadURL(ctx, &rpc.Empty{})
	if err != nil {
		return "", "", c.mapError(err)
	}
	return resp.Key, resp.URL, nil
}

func (c *GRPCClient) Ping(ctx context.Context) error {
	resp, err := c.client.Ping(ctx, &rpc.Empty{})
	if err != nil {
		return c.mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

// mapError converts gRPC errors into the package's sentinel errors.
func (c *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	switch st.Code() {
	case codes.Unauthenticated:
		return ErrUnauthorized
	case codes.NotFound:
		return ErrNotFound
	case codes.InvalidArgument, codes.AlreadyExists, codes.FailedPrecondition, codes.PermissionDenied:
		return &RejectedError{Code: st.Code(), Message: st.Message()}
	default:
		return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
	}
}

func isRejected(err error) bool {
	var r *RejectedError
	return errors.As(err, &r)
}
