package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/usermgmt/user-service/internal/app"
	"github.com/usermgmt/user-service/internal/pkg/config"
	"github.com/usermgmt/user-service/pkg/logger"
)

// @title        User Management API
// @version      1.0
// @description  Roles and users backed by MongoDB, with soft delete and account activation.
// @BasePath     /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.Init(logger.Options{})
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.Log.Level,
		Pretty:  cfg.Log.Pretty,
		Service: cfg.ServiceName,
	})

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start application")
	}

	runErr := application.Run(ctx)

	closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := application.Close(closeCtx); err != nil {
		log.Error().Err(err).Msg("error while releasing resources")
	}

	if runErr != nil {
		log.Error().Err(runErr).Msg("server stopped with error")
		os.Exit(1)
	}
	log.Info().Msg("shutdown complete")
}
