package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	coreport "github.com/amirhossein-jamali/property-purchase/internal/domain/port/core"
	"github.com/amirhossein-jamali/property-purchase/internal/domain/port/persistence"
	transactionUseCase "github.com/amirhossein-jamali/property-purchase/internal/domain/usecase/transaction"
	"github.com/amirhossein-jamali/property-purchase/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/property-purchase/internal/infrastructure/adapter/api/routes"
	"github.com/amirhossein-jamali/property-purchase/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/property-purchase/internal/infrastructure/adapter/id"
	"github.com/amirhossein-jamali/property-purchase/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/property-purchase/internal/infrastructure/adapter/memory"
	"github.com/amirhossein-jamali/property-purchase/internal/infrastructure/adapter/metrics"
	"github.com/amirhossein-jamali/property-purchase/internal/infrastructure/adapter/redislock"
	timeProvider "github.com/amirhossein-jamali/property-purchase/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/property-purchase/internal/infrastructure/config"
)

type storage struct {
	repo   persistence.TransactionRepository
	locks  persistence.TransactionLockRepository
	health handler.StorageChecker
	close  func() error
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger, err := logger.NewZapLogger(cfg.Logger.Format == "json", coreport.ParseLogLevel(cfg.Logger.Level))
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = appLogger.Flush() }()

	for _, warning := range cfg.ProductionWarnings() {
		appLogger.Warn("Potentially unsafe production configuration", map[string]any{"warning": warning})
	}

	tp := timeProvider.NewRealTimeProvider()

	listings, err := cfg.Catalog.Listings()
	if err != nil {
		appLogger.Error("Invalid property catalog", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	propertyCatalog := memory.NewPropertyCatalog(listings...)

	store, err := openStorage(context.Background(), cfg, appLogger, tp)
	if err != nil {
		appLogger.Error("Failed to initialize storage", map[string]any{
			"driver": cfg.Storage.Driver,
			"error":  err.Error(),
		})
		os.Exit(1)
	}
	defer func() {
		if err := store.close(); err != nil {
			appLogger.Error("Failed to close storage", map[string]any{"error": err.Error()})
		}
	}()

	var lockChecker handler.LockChecker
	if cfg.Locks.Driver == config.LocksRedis {
		redisClient, err := redislock.NewClient(context.Background(), redislock.Config{
			Addr:     cfg.Locks.Redis.Addr,
			Password: cfg.Locks.Redis.Password,
			DB:       cfg.Locks.Redis.DB,
		})
		if err != nil {
			appLogger.Error("Failed to connect to redis for leases", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		defer func() { _ = redisClient.Close() }()
		redisLocks := redislock.NewLockRepository(redisClient, cfg.Locks.Redis.KeyPrefix, appLogger)
		store.locks = redisLocks
		lockChecker = redisLocks
		appLogger.Info("Write leases held in redis", map[string]any{"addr": cfg.Locks.Redis.Addr})
	}

	var recorder coreport.MetricsRecorder = metrics.NoopRecorder{}
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		prom := metrics.NewPrometheusRecorder(cfg.Metrics.Namespace)
		recorder = prom
		metricsHandler = prom.Handler()
	}

	service := transactionUseCase.NewTransactionService(
		store.repo,
		store.locks,
		propertyCatalog,
		id.NewUUIDGenerator(),
		tp,
		appLogger,
		recorder,
		transactionUseCase.RetryConfig{
			MaxRetries:    cfg.Transaction.MaxRetries,
			RetryInterval: cfg.Transaction.RetryInterval,
			MaxInterval:   cfg.Transaction.MaxRetryInterval,
			JitterFactor:  cfg.Transaction.JitterFactor,
			LockTTL:       cfg.Transaction.LockTTL,
		},
	)

	healthHandler := handler.NewHealthHandler(cfg.Storage.Driver, store.health)
	if lockChecker != nil {
		healthHandler.WithLocks(cfg.Locks.Driver, lockChecker)
	}

	router := gin.New()
	routes.SetupMiddlewares(router, appLogger, tp)
	routes.SetupRoutes(
		router,
		handler.NewTransactionHandler(service, appLogger),
		healthHandler,
		cfg.Metrics.Path,
		metricsHandler,
	)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		appLogger.Info("Starting server", map[string]any{
			"addr":       server.Addr,
			"env":        cfg.Environment,
			"storage":    cfg.Storage.Driver,
			"properties": len(listings),
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		appLogger.Info("Shutting down server...", map[string]any{"signal": sig.String()})
	case err := <-serverErr:
		appLogger.Error("Server failed", map[string]any{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{"error": err.Error()})
	}

	appLogger.Info("Server exited gracefully", nil)
}

// openStorage builds the repositories for the configured driver
func openStorage(ctx context.Context, cfg *config.Config, appLogger coreport.Logger, tp coreport.TimeProvider) (*storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		appLogger.Warn("Using in-memory storage; transactions do not survive a restart", nil)
		return &storage{
			repo:  memory.NewTransactionRepository(appLogger),
			locks: memory.NewLockRepository(tp),
			close: func() error { return nil },
		}, nil

	case config.StoragePostgres:
		dbConfig := database.DefaultConfig()
		dbConfig.Host = cfg.Database.Host
		dbConfig.Port = cfg.Database.Port
		dbConfig.Username = cfg.Database.Username
		dbConfig.Password = cfg.Database.Password
		dbConfig.Database = cfg.Database.Database
		dbConfig.SSLMode = cfg.Database.SSLMode
		dbConfig.MaxOpenConns = cfg.Database.MaxOpenConns
		dbConfig.MaxIdleConns = cfg.Database.MaxIdleConns
		dbConfig.ConnMaxLifetime = cfg.Database.ConnMaxLifetime
		dbConfig.ConnMaxIdleTime = cfg.Database.ConnMaxIdleTime
		dbConfig.QueryTimeout = cfg.Database.QueryTimeout
		dbConfig.LogLevel = cfg.Database.LogLevel
		dbConfig.SlowThreshold = cfg.Database.SlowThreshold
		dbConfig.RetryAttempts = cfg.Database.RetryAttempts
		dbConfig.RetryDelay = cfg.Database.RetryDelay

		dbManager := database.NewManager(dbConfig, appLogger, tp)
		if _, err := dbManager.Connect(ctx); err != nil {
			return nil, err
		}
		if err := dbManager.Migrate(ctx); err != nil {
			_ = dbManager.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return &storage{
			repo:   dbManager.TransactionRepository(),
			locks:  dbManager.LockRepository(),
			health: dbManager,
			close:  dbManager.Close,
		}, nil
	}
	return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Storage.Driver)
}
