package client

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/dmitrijs2005/gophid/internal/api"
	"github.com/dmitrijs2005/gophid/internal/common"
)

// fakeIdentity is a scripted IdentityServer that records the authorization
// metadata of every call.
type fakeIdentity struct {
	mu      sync.Mutex
	headers []string

	token string
	err   error
}

func (f *fakeIdentity) record(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	md, _ := metadata.FromIncomingContext(ctx)
	f.headers = append(f.headers, firstOr(md.Get(common.AuthorizationHeaderName), ""))
}

func firstOr(v []string, def string) string {
	if len(v) == 0 {
		return def
	}
	return v[0]
}

func (f *fakeIdentity) lastHeader() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.headers[len(f.headers)-1]
}

func (f *fakeIdentity) auth(ctx context.Context, email string) (*api.AuthResponse, error) {
	f.record(ctx)
	if f.err != nil {
		return nil, f.err
	}
	return &api.AuthResponse{User: api.User{ID: "u-1", Email: email}, Token: f.token}, nil
}

func (f *fakeIdentity) Register(ctx context.Context, in *api.RegisterRequest) (*api.AuthResponse, error) {
	return f.auth(ctx, in.Email)
}

func (f *fakeIdentity) Login(ctx context.Context, in *api.LoginRequest) (*api.AuthResponse, error) {
	return f.auth(ctx, in.Email)
}

func (f *fakeIdentity) CreateUser(ctx context.Context, in *api.CreateUserRequest) (*api.UserResponse, error) {
	f.record(ctx)
	if f.err != nil {
		return nil, f.err
	}
	return &api.UserResponse{User: api.User{ID: "u-2", Email: in.Email, Name: in.Name}}, nil
}

func (f *fakeIdentity) WhoAmI(ctx context.Context, _ *api.WhoAmIRequest) (*api.UserResponse, error) {
	f.record(ctx)
	if f.err != nil {
		return nil, f.err
	}
	return &api.UserResponse{User: api.User{ID: "u-1"}}, nil
}

func (f *fakeIdentity) CheckToken(ctx context.Context, _ *api.CheckTokenRequest) (*api.AuthResponse, error) {
	return f.auth(ctx, "")
}

func (f *fakeIdentity) ListUsers(ctx context.Context, _ *api.ListUsersRequest) (*api.ListUsersResponse, error) {
	f.record(ctx)
	if f.err != nil {
		return nil, f.err
	}
	return &api.ListUsersResponse{Users: []api.User{{ID: "u-1"}, {ID: "u-2"}}}, nil
}

func newTestClient(t *testing.T, srv *fakeIdentity) *GRPCClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	gs := grpc.NewServer(grpc.ForceServerCodec(api.Codec()))
	api.RegisterIdentityServer(gs, srv)
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	c, err := NewGRPCClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestLogin_StoresAndAttachesToken(t *testing.T) {
	srv := &fakeIdentity{token: "tok-1"}
	c := newTestClient(t, srv)
	ctx := context.Background()

	resp, err := c.Login(ctx, "a@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", resp.Token)
	assert.Equal(t, "tok-1", c.Token())
	assert.Empty(t, srv.lastHeader(), "no token before login")

	_, err = c.WhoAmI(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", srv.lastHeader())
}

func TestCheckToken_ReplacesToken(t *testing.T) {
	srv := &fakeIdentity{token: "fresh"}
	c := newTestClient(t, srv)
	c.SetToken("old")

	_, err := c.CheckToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer old", srv.lastHeader())
	assert.Equal(t, "fresh", c.Token())
}

func TestRegisterCreateAndList(t *testing.T) {
	srv := &fakeIdentity{token: "t"}
	c := newTestClient(t, srv)
	ctx := context.Background()

	_, err := c.Register(ctx, "a@example.com", "pw", "A")
	require.NoError(t, err)

	u, err := c.CreateUser(ctx, "b@example.com", "pw", "B")
	require.NoError(t, err)
	assert.Equal(t, "B", u.Name)

	list, err := c.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"duplicate", status.Error(codes.AlreadyExists, "email already registered"), common.ErrDuplicateIdentity},
		{"bad credentials", status.Error(codes.Unauthenticated, "invalid email or password"), common.ErrInvalidCredentials},
		{"no token", status.Error(codes.Unauthenticated, "not authenticated"), common.ErrUnauthenticated},
		{"not found", status.Error(codes.NotFound, "not found"), common.ErrNotFound},
		{"invalid", status.Error(codes.InvalidArgument, "invalid argument: email"), common.ErrInvalidArgument},
		{"unavailable", status.Error(codes.Unavailable, "down"), ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, &fakeIdentity{err: tt.err})
			_, err := c.Login(context.Background(), "a@example.com", "pw")
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, c.Token())
		})
	}

	c := newTestClient(t, &fakeIdentity{err: status.Error(codes.Internal, "internal error")})
	_, err := c.ListUsers(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, common.ErrUnauthenticated))
	assert.Contains(t, err.Error(), "rpc error")
}
