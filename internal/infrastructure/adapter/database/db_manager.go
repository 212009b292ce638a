package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	coreport "github.com/amirhossein-jamali/property-purchase/internal/domain/port/core"
	"github.com/amirhossein-jamali/property-purchase/internal/infrastructure/adapter/database/migration"
	"github.com/amirhossein-jamali/property-purchase/internal/infrastructure/adapter/repository"
)

// Manager owns the GORM connection, its pool monitor and schema migrations
type Manager struct {
	config            *Config
	db                *gorm.DB
	logger            coreport.Logger
	timeProvider      coreport.TimeProvider
	connectionMonitor *ConnectionPoolMonitor
}

// NewManager creates a new database manager
func NewManager(config *Config, logger coreport.Logger, timeProvider coreport.TimeProvider) *Manager {
	return &Manager{
		config:       config,
		logger:       logger,
		timeProvider: timeProvider,
	}
}

// Connect opens and pings the database, retrying while the server is unreachable
func (m *Manager) Connect(ctx context.Context) (*gorm.DB, error) {
	if err := m.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid database configuration: %w", err)
	}

	m.logger.Info("Connecting to database", map[string]any{
		"driver": m.config.Driver,
		"host":   m.config.Host,
		"port":   m.config.Port,
		"name":   m.config.Database,
	})

	retry := RetryConfig{
		MaxAttempts:   m.config.RetryAttempts,
		RetryInterval: m.config.RetryDelay,
		MaxInterval:   m.config.RetryDelay * 8,
		JitterFactor:  0.2,
	}
	err := RetryOnTransientError(ctx, retry, m.open, m.timeProvider, m.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", m.config.RetryAttempts, err)
	}

	m.logger.Info("Successfully connected to database", map[string]any{
		"host":           m.config.Host,
		"name":           m.config.Database,
		"max_open_conns": m.config.MaxOpenConns,
		"max_idle_conns": m.config.MaxIdleConns,
	})

	m.connectionMonitor = NewConnectionPoolMonitor(m, m.logger)
	if err := m.connectionMonitor.Start(m.config.MonitorInterval); err != nil {
		m.logger.Warn("Failed to start connection pool monitoring", map[string]any{"error": err.Error()})
	}

	return m.db, nil
}

func (m *Manager) open(ctx context.Context) error {
	gormDB, err := gorm.Open(postgres.Open(m.config.DSN()), &gorm.Config{
		Logger:      NewDatabaseLogger(m.logger, m.timeProvider, m.config.LogLevel, m.config.SlowThreshold),
		NowFunc:     m.timeProvider.Now,
		PrepareStmt: true,
	})
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(m.config.MaxOpenConns)
	sqlDB.SetMaxIdleConns(m.config.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(m.config.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(m.config.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, m.config.QueryTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	m.db = gormDB
	return nil
}

// DB returns the GORM database instance
func (m *Manager) DB() *gorm.DB {
	return m.db
}

// Migrate brings the schema up to date and clears leases left by earlier processes
func (m *Manager) Migrate(ctx context.Context) error {
	if m.db == nil {
		return errors.New("database is not connected")
	}
	if err := migration.NewMigrationManager(m.db, m.logger, m.timeProvider).MigrateAll(ctx); err != nil {
		return err
	}
	_, err := m.LockRepository().CleanupExpiredLocks(ctx)
	return err
}

// TransactionRepository returns the GORM backed transaction store
func (m *Manager) TransactionRepository() *repository.TransactionRepository {
	return repository.NewTransactionRepository(m.db, m.logger)
}

// LockRepository returns the GORM backed lock store
func (m *Manager) LockRepository() *repository.TransactionLockRepository {
	return repository.NewTransactionLockRepository(m.db, m.timeProvider, m.logger)
}

// PoolMetrics returns the latest pool snapshot
func (m *Manager) PoolMetrics() ConnectionPoolMetrics {
	if m.connectionMonitor == nil {
		return ConnectionPoolMetrics{}
	}
	return m.connectionMonitor.GetMetrics()
}

// Stats renders the latest pool snapshot for the readiness check
func (m *Manager) Stats() map[string]any {
	metrics := m.PoolMetrics()
	return map[string]any{
		"open_connections": metrics.OpenConnections,
		"idle_connections": metrics.IdleConnections,
		"in_use":           metrics.InUse,
		"max_open":         metrics.MaxOpenConnections,
		"wait_count":       metrics.WaitCount,
		"wait_ms":          metrics.WaitDuration.Milliseconds(),
		"healthy":          metrics.Healthy,
	}
}

// Ping reports whether the database answers within the query timeout
func (m *Manager) Ping(ctx context.Context) error {
	if m.db == nil {
		return errors.New("database is not connected")
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, m.config.QueryTimeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (m *Manager) Close() error {
	m.logger.Info("Closing database connection", nil)

	if m.connectionMonitor != nil {
		m.connectionMonitor.Stop()
	}
	if m.db == nil {
		return nil
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	return sqlDB.Close()
}
