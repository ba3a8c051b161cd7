package client

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/gophid/internal/api"
	"github.com/dmitrijs2005/gophid/internal/common"
)

// Client is the identity service as seen by the CLI.
type Client interface {
	Close() error
	SetToken(token string)
	Token() string
	Register(ctx context.Context, email, password, name string) (*api.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*api.AuthResponse, error)
	CreateUser(ctx context.Context, email, password, name string) (*api.User, error)
	WhoAmI(ctx context.Context) (*api.User, error)
	CheckToken(ctx context.Context) (*api.AuthResponse, error)
	ListUsers(ctx context.Context) ([]api.User, error)
}

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      *api.IdentityClient

	mu          sync.RWMutex
	accessToken string
}

// NewGRPCClient connects lazily to endpointURL. Extra dial options are
// appended to the defaults (insecure transport, JSON codec, token
// interceptor).
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(api.Codec())),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = api.NewIdentityClient(conn)
	return c, nil
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := s.Token(); token != "" {
		ctx = withAccessToken(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = token
}

func (s *GRPCClient) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) Register(ctx context.Context, email, password, name string) (*api.AuthResponse, error) {
	resp, err := s.client.Register(ctx, &api.RegisterRequest{Email: email, Password: password, Name: name})
	if err != nil {
		return nil, s.mapError(err)
	}
	s.SetToken(resp.Token)
	return resp, nil
}

func (s *GRPCClient) Login(ctx context.Context, email, password string) (*api.AuthResponse, error) {
	resp, err := s.client.Login(ctx, &api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, s.mapError(err)
	}
	s.SetToken(resp.Token)
	return resp, nil
}

func (s *GRPCClient) CreateUser(ctx context.Context, email, password, name string) (*api.User, error) {
	resp, err := s.client.CreateUser(ctx, &api.CreateUserRequest{Email: email, Password: password, Name: name})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.User, nil
}

func (s *GRPCClient) WhoAmI(ctx context.Context) (*api.User, error) {
	resp, err := s.client.WhoAmI(ctx, &api.WhoAmIRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.User, nil
}

// CheckToken asks for a fresh token and keeps it for later calls.
func (s *GRPCClient) CheckToken(ctx context.Context) (*api.AuthResponse, error) {
	resp, err := s.client.CheckToken(ctx, &api.CheckTokenRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	s.SetToken(resp.Token)
	return resp, nil
}

func (s *GRPCClient) ListUsers(ctx context.Context) ([]api.User, error) {
	resp, err := s.client.ListUsers(ctx, &api.ListUsersRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Users, nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.AlreadyExists:
		return common.ErrDuplicateIdentity
	case codes.Unauthenticated:
		if st.Message() == common.ErrInvalidCredentials.Error() {
			return common.ErrInvalidCredentials
		}
		return common.ErrUnauthenticated
	case codes.NotFound:
		return common.ErrNotFound
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", common.ErrInvalidArgument, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
