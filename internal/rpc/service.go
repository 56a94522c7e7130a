package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "codehunt.backend.Backend"

// FullMethod returns the gRPC path of a Backend method, e.g. "/codehunt.backend.Backend/SignIn".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// BackendServer is implemented by the backend service.
type BackendServer interface {
	SignUp(context.Context, *SignUpRequest) (*SignUpResponse, error)
	SignIn(context.Context, *SignInRequest) (*SessionResponse, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*SessionResponse, error)
	SignOut(context.Context, *SignOutRequest) (*Empty, error)
	ResetPasswordForEmail(context.Context, *ResetPasswordRequest) (*Empty, error)
	UpdatePassword(context.Context, *UpdatePasswordRequest) (*Empty, error)
	GetUser(context.Context, *Empty) (*GetUserResponse, error)
	FetchRow(context.Context, *FetchRowRequest) (*FetchRowResponse, error)
	UpsertRow(context.Context, *UpsertRowRequest) (*Empty, error)
	ListListings(context.Context, *ListingQuery) (*ListListingsResponse, error)
	GetListing(context.Context, *GetListingRequest) (*ListingResponse, error)
	CreateListing(context.Context, *CreateListingRequest) (*ListingResponse, error)
	AvatarUploadURL(context.Context, *Empty) (*AvatarUploadURLResponse, error)
	Ping(context.Context, *Empty) (*PingResponse, error)
}

// UnimplementedBackendServer can be embedded to satisfy BackendServer partially.
type UnimplementedBackendServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedBackendServer) SignUp(context.Context, *SignUpRequest) (*SignUpResponse, error) {
	return nil, unimplemented("SignUp")
}
func (UnimplementedBackendServer) SignIn(context.Context, *SignInRequest) (*SessionResponse, error) {
	return nil, unimplemented("SignIn")
}
func (UnimplementedBackendServer) RefreshToken(context.Context, *RefreshTokenRequest) (*SessionResponse, error) {
	return nil, unimplemented("RefreshToken")
}
func (UnimplementedBackendServer) SignOut(context.Context, *SignOutRequest) (*Empty, error) {
	return nil, unimplemented("SignOut")
}
func (UnimplementedBackendServer) ResetPasswordForEmail(context.Context, *ResetPasswordRequest) (*Empty, error) {
	return nil, unimplemented("ResetPasswordForEmail")
}
func (UnimplementedBackendServer) UpdatePassword(context.Context, *UpdatePasswordRequest) (*Empty, error) {
	return nil, unimplemented("UpdatePassword")
}
func (UnimplementedBackendServer) GetUser(context.Context, *Empty) (*GetUserResponse, error) {
	return nil, unimplemented("GetUser")
}
func (UnimplementedBackendServer) FetchRow(context.Context, *FetchRowRequest) (*FetchRowResponse, error) {
	return nil, unimplemented("FetchRow")
}
func (UnimplementedBackendServer) UpsertRow(context.Context, *UpsertRowRequest) (*Empty, error) {
	return nil, unimplemented("UpsertRow")
}
func (UnimplementedBackendServer) ListListings(context.Context, *ListingQuery) (*ListListingsResponse, error) {
	return nil, unimplemented("ListListings")
}
func (UnimplementedBackendServer) GetListing(context.Context, *GetListingRequest) (*ListingResponse, error) {
	return nil, unimplemented("GetListing")
}
func (UnimplementedBackendServer) CreateListing(context.Context, *CreateListingRequest) (*ListingResponse, error) {
	return nil, unimplemented("CreateListing")
}
func (UnimplementedBackendServer) AvatarUploadURL(context.Context, *Empty) (*AvatarUploadURLResponse, error) {
	return nil, unimplemented("AvatarUploadURL")
}
func (UnimplementedBackendServer) Ping(context.Context, *Empty) (*PingResponse, error) {
	return nil, unimplemented("Ping")
}

// unary adapts a typed server method to a grpc.MethodDesc, running the
// server's unary interceptor chain when one is installed.
func unary[Req, Resp any](name string, call func(BackendServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(BackendServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(BackendServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var Backend_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BackendServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("SignUp", BackendServer.SignUp),
		unary("SignIn", BackendServer.SignIn),
		unary("RefreshToken", BackendServer.RefreshToken),
		unary("SignOut", BackendServer.SignOut),
		unary("ResetPasswordForEmail", BackendServer.ResetPasswordForEmail),
		unary("UpdatePassword", BackendServer.UpdatePassword),
		unary("GetUser", BackendServer.GetUser),
		unary("FetchRow", BackendServer.FetchRow),
		unary("UpsertRow", BackendServer.UpsertRow),
		unary("ListListings", BackendServer.ListListings),
		unary("GetListing", BackendServer.GetListing),
		unary("CreateListing", BackendServer.CreateListing),
		unary("AvatarUploadURL", BackendServer.AvatarUploadURL),
		unary("Ping", BackendServer.Ping),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "codehunt/backend",
}

func RegisterBackendServer(s grpc.ServiceRegistrar, srv BackendServer) {
	s.RegisterService(&Backend_ServiceDesc, srv)
}

// BackendClient is the client side of BackendServer.
type BackendClient interface {
	SignUp(ctx context.Context, in *SignUpRequest, opts ...grpc.CallOption) (*SignUpResponse, error)
	SignIn(ctx context.Context, in *SignInRequest, opts ...grpc.CallOption) (*SessionResponse, error)
	RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*SessionResponse, error)
	SignOut(ctx context.Context, in *SignOutRequest, opts ...grpc.CallOption) (*Empty, error)
	ResetPasswordForEmail(ctx context.Context, in *ResetPasswordRequest, opts ...grpc.CallOption) (*Empty, error)
	UpdatePassword(ctx context.Context, in *UpdatePasswordRequest, opts ...grpc.CallOption) (*Empty, error)
	GetUser(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*GetUserResponse, error)
	FetchRow(ctx context.Context, in *FetchRowRequest, opts ...grpc.CallOption) (*FetchRowResponse, error)
	UpsertRow(ctx context.Context, in *UpsertRowRequest, opts ...grpc.CallOption) (*Empty, error)
	ListListings(ctx context.Context, in *ListingQuery, opts ...grpc.CallOption) (*ListListingsResponse, error)
	GetListing(ctx context.Context, in *GetListingRequest, opts ...grpc.CallOption) (*ListingResponse, error)
	CreateListing(ctx context.Context, in *CreateListingRequest, opts ...grpc.CallOption) (*ListingResponse, error)
	AvatarUploadURL(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*AvatarUploadURLResponse, error)
	Ping(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*PingResponse, error)
}

type backendClient struct {
	cc grpc.ClientConnInterface
}

func NewBackendClient(cc grpc.ClientConnInterface) BackendClient {
	return &backendClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *backendClient) SignUp(ctx context.Context, in *SignUpRequest, opts ...grpc.CallOption) (*SignUpResponse, error) {
	return invoke[SignUpResponse](ctx, c.cc, "SignUp", in, opts)
}
func (c *backendClient) SignIn(ctx context.Context, in *SignInRequest, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, c.cc, "SignIn", in, opts)
}
func (c *backendClient) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, c.cc, "RefreshToken", in, opts)
}
func (c *backendClient) SignOut(ctx context.Context, in *SignOutRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "SignOut", in, opts)
}
func (c *backendClient) ResetPasswordForEmail(ctx context.Context, in *ResetPasswordRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "ResetPasswordForEmail", in, opts)
}
func (c *backendClient) UpdatePassword(ctx context.Context, in *UpdatePasswordRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "UpdatePassword", in, opts)
}
func (c *backendClient) GetUser(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*GetUserResponse, error) {
	return invoke[GetUserResponse](ctx, c.cc, "GetUser", in, opts)
}
func (c *backendClient) FetchRow(ctx context.Context, in *FetchRowRequest, opts ...grpc.CallOption) (*FetchRowResponse, error) {
	return invoke[FetchRowResponse](ctx, c.cc, "FetchRow", in, opts)
}
func (c *backendClient) UpsertRow(ctx context.Context, in *UpsertRowRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "UpsertRow", in, opts)
}
func (c *backendClient) ListListings(ctx context.Context, in *ListingQuery, opts ...grpc.CallOption) (*ListListingsResponse, error) {
	return invoke[ListListingsResponse](ctx, c.cc, "ListListings", in, opts)
}
func (c *backendClient) GetListing(ctx context.Context, in *GetListingRequest, opts ...grpc.CallOption) (*ListingResponse, error) {
	return invoke[ListingResponse](ctx, c.cc, "GetListing", in, opts)
}
func (c *backendClient) CreateListing(ctx context.Context, in *CreateListingRequest, opts ...grpc.CallOption) (*ListingResponse, error) {
	return invoke[ListingResponse](ctx, c.cc, "CreateListing", in, opts)
}
func (c *backendClient) AvatarUploadURL(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*AvatarUploadURLResponse, error) {
	return invoke[AvatarUploadURLResponse](ctx, c.cc, "AvatarUploadURL", in, opts)
}
func (c *backendClient) Ping(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, "Ping", in, opts)
}
