package api

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "gophid.v1.IdentityService"

// Full method names.
const (
	MethodRegister   = "/" + ServiceName + "/Register"
	MethodLogin      = "/" + ServiceName + "/Login"
	MethodCreateUser = "/" + ServiceName + "/CreateUser"
	MethodWhoAmI     = "/" + ServiceName + "/WhoAmI"
	MethodCheckToken = "/" + ServiceName + "/CheckToken"
	MethodListUsers  = "/" + ServiceName + "/ListUsers"
)

var protectedMethods = map[string]struct{}{
	MethodWhoAmI:     {},
	MethodCheckToken: {},
	MethodListUsers:  {},
}

// IsProtected reports whether fullMethod requires a bearer token.
func IsProtected(fullMethod string) bool {
	_, ok := protectedMethods[fullMethod]
	return ok
}

// IdentityServer is implemented by the gRPC transport.
type IdentityServer interface {
	Register(context.Context, *RegisterRequest) (*AuthResponse, error)
	Login(context.Context, *LoginRequest) (*AuthResponse, error)
	CreateUser(context.Context, *CreateUserRequest) (*UserResponse, error)
	WhoAmI(context.Context, *WhoAmIRequest) (*UserResponse, error)
	CheckToken(context.Context, *CheckTokenRequest) (*AuthResponse, error)
	ListUsers(context.Context, *ListUsersRequest) (*ListUsersResponse, error)
}

func RegisterIdentityServer(s grpc.ServiceRegistrar, srv IdentityServer) {
	s.RegisterService(&IdentityServiceDesc, srv)
}

// unaryHandler adapts a typed IdentityServer method to grpc.MethodHandler.
func unaryHandler[Req, Resp any](fullMethod string, call func(IdentityServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(IdentityServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(IdentityServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var IdentityServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*IdentityServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unaryHandler(MethodRegister, IdentityServer.Register)},
		{MethodName: "Login", Handler: unaryHandler(MethodLogin, IdentityServer.Login)},
		{MethodName: "CreateUser", Handler: unaryHandler(MethodCreateUser, IdentityServer.CreateUser)},
		{MethodName: "WhoAmI", Handler: unaryHandler(MethodWhoAmI, IdentityServer.WhoAmI)},
		{MethodName: "CheckToken", Handler: unaryHandler(MethodCheckToken, IdentityServer.CheckToken)},
		{MethodName: "ListUsers", Handler: unaryHandler(MethodListUsers, IdentityServer.ListUsers)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gophid/v1/identity.proto",
}

// IdentityClient is the client side of IdentityService.
type IdentityClient struct {
	cc grpc.ClientConnInterface
}

func NewIdentityClient(cc grpc.ClientConnInterface) *IdentityClient {
	return &IdentityClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *IdentityClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, MethodRegister, in, opts)
}

func (c *IdentityClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, MethodLogin, in, opts)
}

func (c *IdentityClient) CreateUser(ctx context.Context, in *CreateUserRequest, opts ...grpc.CallOption) (*UserResponse, error) {
	return invoke[UserResponse](ctx, c.cc, MethodCreateUser, in, opts)
}

func (c *IdentityClient) WhoAmI(ctx context.Context, in *WhoAmIRequest, opts ...grpc.CallOption) (*UserResponse, error) {
	return invoke[UserResponse](ctx, c.cc, MethodWhoAmI, in, opts)
}

func (c *IdentityClient) CheckToken(ctx context.Context, in *CheckTokenRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, MethodCheckToken, in, opts)
}

func (c *IdentityClient) ListUsers(ctx context.Context, in *ListUsersRequest, opts ...grpc.CallOption) (*ListUsersResponse, error) {
	return invoke[ListUsersResponse](ctx, c.cc, MethodListUsers, in, opts)
}
