// Package grpc exposes the identity service over gRPC using the JSON codec
// and service description from internal/api.
package grpc

import (
	"context"
	"net"

	"google.golang.org/grpc"

	"github.com/dmitrijs2005/gophid/internal/api"
	"github.com/dmitrijs2005/gophid/internal/logging"
	"github.com/dmitrijs2005/gophid/internal/server/models"
	"github.com/dmitrijs2005/gophid/internal/server/services"
)

// UserService is the subset of services.UserService the handlers call.
type UserService interface {
	Register(ctx context.Context, email, password string, profile models.Profile) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	Create(ctx context.Context, email, password string, profile models.Profile) (*models.PublicUser, error)
	ListAll(ctx context.Context) ([]models.PublicUser, error)
	RenewToken(ctx context.Context, user *models.PublicUser) (*services.AuthResult, error)
}

// Authenticator turns an authorization header value into a user.
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (*models.PublicUser, error)
}

type GRPCServer struct {
	address string
	users   UserService
	gate    Authenticator
	logger  logging.Logger
}

func NewGRPCServer(address string, l logging.Logger, us UserService, gate Authenticator) *GRPCServer {
	return &GRPCServer{
		address: address,
		logger:  l.With("module", "grpc_server"),
		users:   us,
		gate:    gate,
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(
		grpc.ForceServerCodec(api.Codec()),
		grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor),
	)
	api.RegisterIdentityServer(srv, s)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	<-stopped
	return nil
}
