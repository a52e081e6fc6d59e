package main

import (
	"context"
	"log/slog"
	"os"

	portsrepo "github.com/SscSPs/travel_settlement/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/travel_settlement/internal/core/ports/services"
	"github.com/SscSPs/travel_settlement/internal/core/services"
	"github.com/SscSPs/travel_settlement/internal/events/kafka"
	"github.com/SscSPs/travel_settlement/internal/handlers"
	"github.com/SscSPs/travel_settlement/internal/middleware"
	"github.com/SscSPs/travel_settlement/internal/platform/config"
	"github.com/SscSPs/travel_settlement/internal/platform/otel"
	"github.com/SscSPs/travel_settlement/internal/repositories/database/pgsql"
	"github.com/SscSPs/travel_settlement/internal/repositories/database/sqlite"
	"github.com/SscSPs/travel_settlement/internal/repositories/memory"
	"github.com/SscSPs/travel_settlement/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitermemory "github.com/ulule/limiter/v3/drivers/store/memory"
)

// @title Travel Settlement API
// @version 1.0
// @description Posts balanced ledger settlements for bookings, vouchers, agent deposits and provider payments.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	shutdownTracing, err := otel.Setup(ctx, cfg.OTELServiceName, cfg.OTELEndpoint)
	if err != nil {
		logger.Error("Failed to set up tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("Error shutting down tracer provider", slog.String("error", err.Error()))
		}
	}()

	repos, closeStorage, err := openStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open storage", slog.String("driver", cfg.StorageDriver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStorage()

	publisher, closePublisher := newPublisher(cfg, logger)
	defer closePublisher()

	container := services.NewContainer(repos, services.ContainerConfig{
		System:          cfg.SystemAccounts,
		DefaultCurrency: cfg.DefaultCurrency,
		MaxAttempts:     cfg.SettlementMaxAttempts,
		ApplyRetries:    cfg.LedgerApplyRetries,
		Publisher:       publisher,
		PublishTimeout:  cfg.KafkaPublishTimeout,
	})

	if err := container.Account.EnsureSystemAccounts(ctx, cfg.SystemAccounts, cfg.DefaultCurrency); err != nil {
		logger.Error("Failed to provision system accounts", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("System accounts ready")

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid rate limit", slog.String("rate_limit", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}
	settlementLimiter := limiter.New(limitermemory.NewStore(), rate)

	handlers.RegisterRoutes(r, cfg, container, middleware.RateLimit(settlementLimiter))

	logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageDriver))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// openStorage builds the repositories for the configured driver. The returned
// func releases whatever the driver holds open.
func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*portsrepo.RepositoryProvider, func(), error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Database connection pool established.")

		logger.Info("Running database migrations...")
		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			database.ClosePgxPool(dbPool)
			return nil, nil, err
		}
		return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil

	case config.StorageSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("SQLite store opened", slog.String("path", cfg.SQLitePath))
		return store.Provider(), func() {
			if err := store.Close(); err != nil {
				logger.Error("Error closing SQLite store", slog.String("error", err.Error()))
			}
		}, nil

	default:
		logger.Warn("Using in-memory storage; balances are lost on restart")
		return memory.NewStore().Provider(), func() {}, nil
	}
}

// newPublisher returns the Kafka publisher when brokers are configured.
func newPublisher(cfg *config.Config, logger *slog.Logger) (portssvc.SettlementPublisher, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		return kafka.NoopPublisher{}, func() {}
	}

	publisher := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaSettlementTopic)
	logger.Info("Publishing settlements to Kafka", slog.String("topic", cfg.KafkaSettlementTopic))
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			logger.Error("Error closing Kafka publisher", slog.String("error", err.Error()))
		}
	}
}
