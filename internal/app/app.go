// Package app owns the process-wide resources of the service: the Mongo
// client, the optional Redis client and tracer provider, and the HTTP server.
// Everything is built once in New and released in Close.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	drivermongo "go.mongodb.org/mongo-driver/mongo"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/usermgmt/user-service/internal/api"
	"github.com/usermgmt/user-service/internal/api/handler"
	"github.com/usermgmt/user-service/internal/core/service"
	"github.com/usermgmt/user-service/internal/infrastructure/db/mongo"
	"github.com/usermgmt/user-service/internal/infrastructure/db/redis"
	"github.com/usermgmt/user-service/internal/infrastructure/tracing"
	"github.com/usermgmt/user-service/internal/pkg/config"
	"github.com/usermgmt/user-service/pkg/logger"
)

type App struct {
	cfg    *config.Config
	log    zerolog.Logger
	mongo  *drivermongo.Client
	redis  *goredis.Client
	tracer *sdktrace.TracerProvider
	server *http.Server
	echo   *echo.Echo
}

// New connects to every configured dependency, ensures indexes and wires the
// HTTP stack. Resources acquired before a failure are released.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (_ *App, err error) {
	policy, err := mongo.ParseUniquenessPolicy(cfg.Users.Uniqueness)
	if err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, log: log}
	defer func() {
		if err != nil {
			_ = a.Close(context.Background())
		}
	}()

	mongoCfg := mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, Timeout: cfg.Mongo.Timeout}
	if cfg.Tracing.CollectorHost != "" {
		a.tracer, err = tracing.InitTracing(ctx, cfg.Tracing.CollectorHost, cfg.ServiceName)
		if err != nil {
			return nil, err
		}
		mongoCfg.Monitor = tracing.MongoMonitor(a.tracer)
		log.Info().Str("collector", cfg.Tracing.CollectorHost).Msg("tracing enabled")
	}

	client, db, err := mongo.Connect(ctx, mongoCfg)
	if err != nil {
		return nil, err
	}
	a.mongo = client
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	if err = mongo.EnsureIndexes(ctx, db, policy); err != nil {
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}

	opts := service.Options{
		Pagination: service.Pagination{
			DefaultLimit: cfg.Pagination.DefaultPageSize,
			MaxLimit:     cfg.Pagination.MaxPageSize,
		},
		Hasher: service.NewPasswordHasher(cfg.Users.PasswordHashing),
	}

	deps := map[string]handler.Pinger{
		"mongodb": func(ctx context.Context) error { return mongo.Ping(ctx, client) },
	}

	if cfg.Redis.Addr != "" {
		a.redis, err = redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return nil, err
		}
		opts.Idempotency = redis.NewIdempotencyStore(a.redis, cfg.Redis.IdempotencyTTL)
		deps["redis"] = func(ctx context.Context) error { return a.redis.Ping(ctx).Err() }
		log.Info().Str("addr", cfg.Redis.Addr).Msg("idempotency keys enabled")
	}

	roleRepo := mongo.NewRoleRepository(db)
	userRepo := mongo.NewUserRepository(db)

	roleService := service.NewRoleService(roleRepo, opts, logger.Component("roles"))
	userService := service.NewUserService(userRepo, roleRepo, opts, logger.Component("users"))

	a.echo = api.NewRouter(api.Handlers{
		Roles:     handler.NewRoleHandler(roleService),
		Users:     handler.NewUserHandler(userService),
		Health:    handler.NewHealthHandler(),
		Readiness: handler.NewReadinessHandler(deps),
	}, log, api.RouterOptions{
		Tracing:     a.tracer != nil,
		ServiceName: cfg.ServiceName,
		Debug:       !cfg.IsProduction(),
	})

	a.server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.echo,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return a, nil
}

// Run serves HTTP until ctx is cancelled, then shuts the server down
// gracefully within the configured timeout.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", a.server.Addr).Msg("http server listening")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return <-errCh
}

// Close releases every dependency New acquired. Safe to call on a partially
// built App.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.mongo != nil {
		errs = append(errs, a.mongo.Disconnect(ctx))
	}
	if a.tracer != nil {
		errs = append(errs, a.tracer.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
