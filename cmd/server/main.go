package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/giftbridge/settlement-service/internal/adapters/logging"
	adapterports "github.com/giftbridge/settlement-service/internal/adapters/ports"
	"github.com/giftbridge/settlement-service/internal/adapters/postgres"
	"github.com/giftbridge/settlement-service/internal/adapters/secrets"
	"github.com/giftbridge/settlement-service/internal/config"
	brandHandler "github.com/giftbridge/settlement-service/internal/handlers/brand"
	settlementHandler "github.com/giftbridge/settlement-service/internal/handlers/settlement"
	brandService "github.com/giftbridge/settlement-service/internal/services/brand"
	settlementService "github.com/giftbridge/settlement-service/internal/services/settlement"
	"github.com/giftbridge/settlement-service/pkg/middleware"
	"github.com/giftbridge/settlement-service/pkg/observability"
	"github.com/giftbridge/settlement-service/pkg/shutdown"
)

func main() {
	// .env is optional; real deployments use the environment directly
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		panic(err)
	}

	zapLogger, err := logging.NewLogger(cfg.Logger)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		panic(err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting settlement service",
		zap.String("version", "0.1.0"),
	)

	ctx := context.Background()

	// Resolve the database password before opening the pool
	if err := resolveDBPassword(ctx, cfg, zapLogger); err != nil {
		zapLogger.Fatal("Failed to resolve database credentials", zap.Error(err))
	}

	dbPool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbPool.Close()

	zapLogger.Info("Database connection established",
		zap.String("database", cfg.Database.Database),
	)

	logger := logging.NewZapLogger(zapLogger)

	// Repositories and services
	db := postgres.NewDBExecutor(dbPool)
	settlementRepo := postgres.NewSettlementRepository(db)
	brandRepo := postgres.NewBrandRepository(db)
	voucherRepo := postgres.NewVoucherRepository(db)

	brandSvc := brandService.NewService(db, brandRepo, logger)
	settlementSvc := settlementService.NewService(db, settlementRepo, brandRepo, voucherRepo, logger)

	brandH := brandHandler.NewHandler(brandSvc)
	settlementH := settlementHandler.NewHandler(settlementSvc)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(logger))
	r.Use(observability.Middleware)
	r.Use(rateLimiter.Handler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/brands", brandH.Routes())
		r.Get("/brands/{id}/activity", settlementH.ActivityRoute)
		r.Mount("/settlements", settlementH.Routes())
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	healthChecker := observability.NewHealthChecker(dbPool)
	metricsServer := observability.StartMetricsServer(fmt.Sprintf("%d", cfg.Server.MetricsPort), healthChecker)
	zapLogger.Info("Metrics server started", zap.Int("port", cfg.Server.MetricsPort))

	// LIFO shutdown: servers first, then rate limiter, then the pool
	shutdownManager := shutdown.NewManager(zapLogger, 30*time.Second)
	shutdownManager.Register("database", func(ctx context.Context) error {
		dbPool.Close()
		return nil
	})
	shutdownManager.Register("rate_limiter", func(ctx context.Context) error {
		rateLimiter.Stop()
		return nil
	})
	shutdownManager.Register("metrics_server", func(ctx context.Context) error {
		return observability.ShutdownMetricsServer(metricsServer)
	})
	shutdownManager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown(ctx)
	})

	go func() {
		zapLogger.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	shutdownManager.WaitForShutdown()
}

// resolveDBPassword fills cfg.Database.Password from the configured secret
// backend. With SECRET_MANAGER=env the secret is the DB_PASSWORD variable
// itself, which LoadFromEnv has already validated is set.
func resolveDBPassword(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	var (
		manager adapterports.SecretManagerAdapter
		err     error
	)

	secretPath := cfg.Secrets.DBSecretName
	switch cfg.Secrets.Manager {
	case "env":
		manager = secrets.NewEnvSecretManager(logger)
		secretPath = "DB_PASSWORD"
	case "aws":
		manager, err = secrets.NewAWSSecretsManager(ctx, &secrets.AWSSecretsManagerConfig{
			Region: cfg.Secrets.AWSRegion,
		}, logger)
	case "vault":
		manager, err = secrets.NewVaultAdapter(&secrets.VaultConfig{
			Address:   cfg.Secrets.VaultAddr,
			Token:     cfg.Secrets.VaultToken,
			MountPath: cfg.Secrets.VaultMount,
		}, logger)
	default:
		return fmt.Errorf("unknown secret manager %q", cfg.Secrets.Manager)
	}
	if err != nil {
		return fmt.Errorf("initialize %s secret manager: %w", cfg.Secrets.Manager, err)
	}

	secret, err := manager.GetSecret(ctx, secretPath)
	if err != nil {
		return fmt.Errorf("fetch database secret: %w", err)
	}

	cfg.Database.Password = secret.Value
	return nil
}
