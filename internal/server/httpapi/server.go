// Package httpapi exposes the identity service over HTTP with gin. Routes
// mirror the gRPC methods; protected routes go through the bearer gate.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/gophid/internal/logging"
	"github.com/dmitrijs2005/gophid/internal/server/models"
	"github.com/dmitrijs2005/gophid/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

type UserService interface {
	Register(ctx context.Context, email, password string, profile models.Profile) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	Create(ctx context.Context, email, password string, profile models.Profile) (*models.PublicUser, error)
	FindByID(ctx context.Context, id string) (*models.PublicUser, error)
	ListAll(ctx context.Context) ([]models.PublicUser, error)
	RenewToken(ctx context.Context, user *models.PublicUser) (*services.AuthResult, error)
}

type Authenticator interface {
	Authenticate(ctx context.Context, header string) (*models.PublicUser, error)
}

type HTTPServer struct {
	address string
	engine  *gin.Engine
	users   UserService
	logger  logging.Logger
}

func NewHTTPServer(address string, l logging.Logger, us UserService, gate Authenticator) *HTTPServer {
	s := &HTTPServer{
		address: address,
		engine:  gin.New(),
		users:   us,
		logger:  l.With("module", "http_server"),
	}

	s.engine.Use(gin.Recovery(), RequestID(), RequestLogger(s.logger))

	s.engine.GET("/ping", s.ping)

	a := s.engine.Group("/auth")
	a.POST("/register", s.register)
	a.POST("/login", s.login)
	a.POST("", s.createUser)

	protected := a.Group("", Authenticate(gate, s.logger))
	protected.GET("/check-token", s.checkToken)
	protected.GET("", s.listUsers)
	protected.GET("/:id", s.getUser)

	return s
}

// Handler returns the routed engine.
func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve handles requests on lis until ctx is done, then shuts down.
func (s *HTTPServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-stopped
}
