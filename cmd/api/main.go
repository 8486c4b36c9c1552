package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/autostock/dealership-api/internal/api"
	"github.com/autostock/dealership-api/internal/api/handler"
	"github.com/autostock/dealership-api/internal/core/domain"
	"github.com/autostock/dealership-api/internal/core/ports"
	"github.com/autostock/dealership-api/internal/core/service"
	"github.com/autostock/dealership-api/internal/infrastructure/config"
	mongodb "github.com/autostock/dealership-api/internal/infrastructure/db/mongo"
	redisdb "github.com/autostock/dealership-api/internal/infrastructure/db/redis"
	"github.com/autostock/dealership-api/internal/infrastructure/ledger"
	"github.com/autostock/dealership-api/internal/infrastructure/queue"
	"github.com/autostock/dealership-api/internal/infrastructure/telemetry"
	"github.com/autostock/dealership-api/internal/infrastructure/token"
	"github.com/autostock/dealership-api/pkg/logger"
)

const (
	serviceName     = "dealership-api"
	shutdownTimeout = 15 * time.Second
)

// @title                       Dealership API
// @version                     1.0
// @description                 Authentication and contract integrity service for vehicle sales.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the session token.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: serviceName,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Options{
		Enabled:     cfg.Telemetry.Enabled,
		Endpoint:    cfg.Telemetry.Endpoint,
		ServiceName: serviceName,
		Environment: cfg.Env,
	})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn().Err(err).Msg("tracer shutdown failed")
		}
	}()

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  serviceName,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	accounts := mongodb.NewAccountRepository(db)
	contracts := mongodb.NewContractRepository(db)
	auditRepo := mongodb.NewAuditRepository(db)

	digestLedger, err := ledger.New(cfg.LedgerBackend, rdb, db)
	if err != nil {
		return err
	}

	indexers := []mongodb.Indexer{accounts, contracts, auditRepo}
	if ix, ok := digestLedger.(mongodb.Indexer); ok {
		indexers = append(indexers, ix)
	}
	if err := mongodb.EnsureIndexes(ctx, indexers...); err != nil {
		return err
	}

	// --- Audit trail ---
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, auditRepo, log)
	dispatcher.Start()
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := dispatcher.Close(closeCtx); err != nil {
			log.Warn().Err(err).Msg("audit dispatcher did not drain")
		}
	}()

	// --- Services ---
	issuer, err := token.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.JWTExpiresIn)
	if err != nil {
		return err
	}
	authService := service.NewAuthService(accounts, issuer, dispatcher, service.LockoutPolicy{
		MaxAttempts: cfg.Auth.MaxLoginAttempts,
		Window:      cfg.Auth.LockoutWindow,
	}, cfg.Auth.BcryptCost, log)
	contractService := service.NewContractService(contracts, digestLedger, dispatcher, log)

	if err := bootstrapAdmin(ctx, authService, cfg.Bootstrap, log); err != nil {
		return err
	}

	e := api.NewRouter(api.RouterDeps{
		Auth:            authService,
		Contracts:       contractService,
		LoginLimiter:    redisdb.NewRateLimiter(rdb, "login"),
		LoginRateLimit:  cfg.Auth.LoginRateLimit,
		LoginRateWindow: cfg.Auth.LoginRateWindow,
		TrustProxy:      cfg.TrustProxy,
		MaxUploadBytes:  cfg.MaxUploadBytes,
		HealthChecks: map[string]handler.HealthCheck{
			"mongo": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		Log: log,
	})

	srvErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("ledger", cfg.LedgerBackend).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
		close(srvErr)
	}()

	select {
	case err := <-srvErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// bootstrapAdmin creates the configured admin account on first start.
func bootstrapAdmin(ctx context.Context, auth ports.AuthService, cfg config.BootstrapConfig, log zerolog.Logger) error {
	if cfg.AdminEmail == "" {
		return nil
	}

	_, err := auth.Register(ctx, ports.RegisterInput{
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		Name:     "Administrator",
		Role:     domain.RoleAdmin,
		Actor:    "system",
	})
	switch {
	case errors.Is(err, domain.ErrAccountExists):
		log.Debug().Str("email", cfg.AdminEmail).Msg("admin account already present")
		return nil
	case err != nil:
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	log.Info().Str("email", cfg.AdminEmail).Msg("admin account created")
	return nil
}
