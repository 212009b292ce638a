package database

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"gorm.io/gorm"

	coreport "github.com/amirhossein-jamali/property-purchase/internal/domain/port/core"
	timeprovider "github.com/amirhossein-jamali/property-purchase/internal/infrastructure/adapter/time"
)

// TestDBManager provides utilities for integration tests against PostgreSQL.
// PPE_TEST_DB_HOST selects an existing server; otherwise builds tagged
// integration start a disposable container and all others skip.
type TestDBManager struct {
	Manager      *Manager
	Config       *Config
	Logger       coreport.Logger
	TimeProvider coreport.TimeProvider
}

// NewTestDBManager connects to the test database, resets its schema and
// registers cleanup with t
func NewTestDBManager(t *testing.T, logger coreport.Logger) *TestDBManager {
	t.Helper()

	config := DefaultConfig()
	if host, ok := os.LookupEnv("PPE_TEST_DB_HOST"); ok && host != "" {
		config.Host = host
		config.Port = getEnvIntOrDefault("PPE_TEST_DB_PORT", 5432)
		config.Username = getEnvOrDefault("PPE_TEST_DB_USERNAME", "postgres")
		config.Password = getEnvOrDefault("PPE_TEST_DB_PASSWORD", "postgres")
		config.Database = getEnvOrDefault("PPE_TEST_DB_NAME", "property_purchase_test")
	} else {
		startPostgresContainer(t, config)
	}
	config.LogLevel = "silent"
	config.RetryAttempts = 1
	config.MonitorInterval = time.Minute

	timeProvider := timeprovider.NewRealTimeProvider()
	manager := NewManager(config, logger, timeProvider)

	ctx := context.Background()
	if _, err := manager.Connect(ctx); err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(func() {
		if err := manager.Close(); err != nil {
			t.Logf("Warning: Failed to close test database connection: %v", err)
		}
	})

	if err := dropAllTables(manager.DB()); err != nil {
		t.Fatalf("Failed to drop tables: %v", err)
	}
	if err := manager.Migrate(ctx); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return &TestDBManager{
		Manager:      manager,
		Config:       config,
		Logger:       logger,
		TimeProvider: timeProvider,
	}
}

// TruncateAllTables empties every table while keeping the schema
func (m *TestDBManager) TruncateAllTables(t *testing.T) {
	t.Helper()

	if err := m.Manager.DB().Exec("TRUNCATE TABLE transactions, transaction_locks").Error; err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
}

func dropAllTables(db *gorm.DB) error {
	return db.Exec(`
		DO $$ DECLARE
			r RECORD;
		BEGIN
			FOR r IN (SELECT tablename FROM pg_tables WHERE schemaname = current_schema()) LOOP
				EXECUTE 'DROP TABLE IF EXISTS ' || quote_ident(r.tablename) || ' CASCADE';
			END LOOP;
		END $$;
	`).Error
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if result, err := strconv.Atoi(value); err == nil {
			return result
		}
	}
	return defaultValue
}
