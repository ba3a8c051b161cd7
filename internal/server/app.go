// Package server wires the identity service together: it opens the user
// store, builds the hasher, token service, user service and gate, and runs
// the gRPC and HTTP transports until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/gophid/internal/logging"
	"github.com/dmitrijs2005/gophid/internal/server/auth"
	"github.com/dmitrijs2005/gophid/internal/server/config"
	"github.com/dmitrijs2005/gophid/internal/server/httpapi"
	"github.com/dmitrijs2005/gophid/internal/server/migrations"
	"github.com/dmitrijs2005/gophid/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophid/internal/server/services"

	gs "github.com/dmitrijs2005/gophid/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	userService *services.UserService
	gate        *auth.Gate
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)
	return newApp(ctx, c, logger)
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	rm, err := repomanager.New(c.StorageDriver)
	if err != nil {
		return nil, err
	}

	migrations.SetLogger(logger)
	db, err := repomanager.Open(ctx, rm, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	hasher, err := auth.NewHasher(c)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	var opts []auth.TokenOption
	if c.TokenIssuer != "" {
		opts = append(opts, auth.WithIssuer(c.TokenIssuer))
	}
	tokens, err := auth.NewTokenService([]byte(c.SecretKey), c.AccessTokenValidityDuration, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	us, err := services.NewUserService(rm.Users(db), hasher, tokens, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		userService: us,
		gate:        auth.NewGate(tokens, us, logger),
	}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case sig := <-sigs:
			app.logger.Info(ctx, "Received signal", "signal", sig.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run serves both transports until ctx is cancelled, a signal arrives or a
// transport fails. It returns the first transport error, if any.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	fail := func(err error) {
		app.logger.Error(ctx, err.Error())
		once.Do(func() { firstErr = err })
		cancelFunc()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService, app.gate)
		if err := s.Run(ctx); err != nil {
			fail(fmt.Errorf("grpc server: %w", err))
		}
	}()

	if app.config.EndpointAddrHTTP != "" {
		if logging.ParseLevel(app.config.LogLevel) > slog.LevelDebug {
			gin.SetMode(gin.ReleaseMode)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.userService, app.gate)
			if err := s.Run(ctx); err != nil {
				fail(fmt.Errorf("http server: %w", err))
			}
		}()
	}

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Warn(context.Background(), "closing database", "error", err.Error())
	}
	app.logger.Info(context.Background(), "App stopped")

	return firstErr
}
