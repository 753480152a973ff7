package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/spraitoken/presale-tracker/internal/adapter"
	"github.com/spraitoken/presale-tracker/internal/api/middleware"
	"github.com/spraitoken/presale-tracker/internal/api/server"
	"github.com/spraitoken/presale-tracker/internal/chain"
	"github.com/spraitoken/presale-tracker/internal/config"
	"github.com/spraitoken/presale-tracker/internal/logger"
	"github.com/spraitoken/presale-tracker/internal/presale"
	"github.com/spraitoken/presale-tracker/internal/stats"
	"github.com/spraitoken/presale-tracker/internal/store"
	"github.com/spraitoken/presale-tracker/internal/validator"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:     cfg.Debug,
		SentryDSN: cfg.SentryDSN,
		Tags: map[string]string{
			"service": "presale-api",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.Info("Starting presale tracker API",
		zap.String("network", string(cfg.Chain.Network)))

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.Fatal("Failed to configure connection pool", zap.Error(err))
	}

	// Run migrations
	if err := store.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.Info("Connected to database",
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName),
	)

	dataStore := store.NewPGStore(db)

	// Dial the chain
	dialer := adapter.NewEthClientDialer()
	ethClient, err := dialer.Dial(ctx, cfg.Chain.RPCURL())
	if err != nil {
		logger.Fatal("Failed to dial RPC endpoint", zap.Error(err))
	}
	logger.Info("Connected to RPC endpoint", zap.String("network", string(cfg.Chain.Network)))

	clock := adapter.NewClock()
	reader := chain.NewReader(ethClient, clock, chain.Config{
		PresaleContract: cfg.Chain.PresaleContract,
		TokenDecimals:   cfg.Chain.TokenDecimals,
		RequestTimeout:  cfg.Chain.RequestTimeout,
	})
	defer reader.Close()

	txValidator := validator.New(reader, validator.Config{
		PresaleContract: cfg.Chain.PresaleContract,
	})
	aggregator := stats.New(dataStore, clock, stats.Config{
		CacheTTL: cfg.Stats.CacheTTL,
	})
	service := presale.NewService(reader, txValidator, dataStore, aggregator)

	serverConfig := server.Config{
		Debug:          cfg.Debug,
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:    time.Duration(cfg.Server.IdleTimeout) * time.Second,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Auth: middleware.AuthConfig{
			JWTPublicKey: cfg.Auth.JWTPublicKey,
			APIKeys:      cfg.Auth.APIKeys,
		},
		RateLimit: middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		},
	}

	srv := server.New(serverConfig, service)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error(err, zap.String("component", "server"))
	}
	cancel()

	// Fresh context for shutdown, the run context is already canceled
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("API server stopped")
}
