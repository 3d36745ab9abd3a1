// Package main provides the API server entry point for the fraud desk service.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fraud-desk/internal/adapter"
	"github.com/fraud-desk/internal/api"
	"github.com/fraud-desk/internal/circuitbreaker"
	"github.com/fraud-desk/internal/config"
	"github.com/fraud-desk/internal/logging"
	"github.com/fraud-desk/internal/service"
	"github.com/fraud-desk/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logging
	logging.InitGlobalLogger(logging.ParseLogLevel(cfg.Logging.Level), logging.ParseLogFormat(cfg.Logging.Format))

	logger := logging.GetGlobalLogger()
	logger.WithFields(map[string]interface{}{
		"level":  cfg.Logging.Level,
		"format": cfg.Logging.Format,
	}).Info("Structured logging initialized")

	if cfg.Alchemy.APIKey == "" {
		logger.Warn("ALCHEMY_API_KEY is not set; wallet lookups will return empty results")
	}

	ctx := context.Background()

	// Connect to Postgres and make sure the tables exist
	postgres, err := storage.NewPostgresDB(ctx, &cfg.Database.Postgres)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Postgres")
	}
	defer postgres.Close()

	if err := postgres.EnsureSchema(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to ensure database schema")
	}
	logger.Info("Database connection established")

	// Upstream provider
	alchemy, err := adapter.NewAlchemyClient(ctx, &cfg.Alchemy)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create Alchemy client")
	}
	defer alchemy.Close()

	// Repositories and services
	reportService := service.NewReportService(storage.NewReportRepository(postgres))
	investigationService := service.NewInvestigationService(storage.NewInvestigationRepository(postgres))

	var gateway adapter.WalletGateway = alchemy
	if cfg.Alchemy.BreakerMaxFailures > 0 {
		gateway = adapter.NewGuardedGateway(alchemy, circuitbreaker.NewBreaker(circuitbreaker.Config{
			Name:        adapter.ProviderAlchemy,
			MaxFailures: cfg.Alchemy.BreakerMaxFailures,
			Cooldown:    cfg.Alchemy.BreakerCooldown,
		}))
	}
	walletService := service.NewWalletService(gateway, cfg.Alchemy.MaxTransfers)

	// The wallet cache is optional; Redis is only dialed when it is enabled
	if cfg.Cache.Enabled() {
		redis, err := storage.NewRedisCache(ctx, &cfg.Database.Redis)
		if err != nil {
			logger.WithError(err).Warn("Redis unavailable; wallet cache disabled")
		} else {
			defer func() {
				if err := redis.Close(); err != nil {
					logger.WithError(err).Warn("Failed to close Redis connection")
				}
			}()
			walletService.WithCache(storage.NewWalletCache(redis, cfg.Cache.WalletTTL))
			logger.WithField("ttl", cfg.Cache.WalletTTL.String()).Info("Wallet cache enabled")
		}
	}

	serverConfig := &api.ServerConfig{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}

	server := api.NewServer(serverConfig, reportService, investigationService, walletService, postgres, alchemy)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	logger.WithFields(map[string]interface{}{
		"host": cfg.Server.Host,
		"port": cfg.Server.Port,
	}).Info("Server started successfully")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverConfig.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server exited")
}
