package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amirhossein-jamali/property-purchase/internal/domain/entity"
)

// Storage drivers
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Lock drivers. LocksFromStorage keeps leases in the transaction store.
const (
	LocksFromStorage = "storage"
	LocksRedis       = "redis"
)

// MaxRetriesLimit is the largest accepted transaction.maxRetries
const MaxRetriesLimit = 100

// Config holds all configuration for the application
type Config struct {
	Environment string            `mapstructure:"environment"`
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Logger      LoggerConfig      `mapstructure:"logger"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Locks       LocksConfig       `mapstructure:"locks"`
	Transaction TransactionConfig `mapstructure:"transaction"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	Catalog     CatalogConfig     `mapstructure:"catalog"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"readTimeout"`       // seconds
	WriteTimeout      time.Duration `mapstructure:"writeTimeout"`      // seconds
	IdleTimeout       time.Duration `mapstructure:"idleTimeout"`       // seconds
	ReadHeaderTimeout time.Duration `mapstructure:"readHeaderTimeout"` // seconds
	ShutdownTimeout   time.Duration `mapstructure:"shutdownTimeout"`   // seconds
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"sslMode"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"` // minutes
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"` // minutes
	QueryTimeout    time.Duration `mapstructure:"queryTimeout"`    // seconds
	LogLevel        string        `mapstructure:"logLevel"`
	SlowThreshold   time.Duration `mapstructure:"slowThresholdMs"` // milliseconds
	RetryAttempts   int           `mapstructure:"retryAttempts"`
	RetryDelay      time.Duration `mapstructure:"retryDelay"` // seconds
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// StorageConfig selects the transaction store
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
}

// LocksConfig selects where write leases live
type LocksConfig struct {
	Driver string      `mapstructure:"driver"`
	Redis  RedisConfig `mapstructure:"redis"`
}

// RedisConfig contains the redis connection used for leases
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"keyPrefix"`
}

// TransactionConfig contains optimistic write and lock settings
type TransactionConfig struct {
	MaxRetries       int           `mapstructure:"maxRetries"`
	RetryInterval    time.Duration `mapstructure:"retryIntervalMs"`    // milliseconds
	MaxRetryInterval time.Duration `mapstructure:"maxRetryIntervalMs"` // milliseconds
	JitterFactor     float64       `mapstructure:"jitterFactor"`
	LockTTL          time.Duration `mapstructure:"lockTtlMs"` // milliseconds
}

// MetricsConfig contains the prometheus endpoint settings
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Path      string `mapstructure:"path"`
	Namespace string `mapstructure:"namespace"`
}

// CatalogConfig seeds the in-memory property catalog
type CatalogConfig struct {
	Properties []PropertyConfig `mapstructure:"properties"`
}

// PropertyConfig is one catalog listing
type PropertyConfig struct {
	ID                string   `mapstructure:"id"`
	AgentID           string   `mapstructure:"agentId"`
	Price             string   `mapstructure:"price"`
	Status            string   `mapstructure:"status"`
	RequiredDocuments []string `mapstructure:"requiredDocuments"`
}

// Listings converts the configured catalog into property listings
func (c CatalogConfig) Listings() ([]entity.PropertyListing, error) {
	listings := make([]entity.PropertyListing, 0, len(c.Properties))
	seen := make(map[string]bool, len(c.Properties))
	for i, p := range c.Properties {
		if p.ID == "" || p.AgentID == "" {
			return nil, fmt.Errorf("catalog.properties[%d]: id and agentId are required", i)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("catalog.properties[%d]: duplicate id %q", i, p.ID)
		}
		seen[p.ID] = true

		price, err := entity.ParsePrice(p.Price)
		if err != nil {
			return nil, fmt.Errorf("catalog.properties[%d]: %w", i, err)
		}
		status := entity.PropertyStatus(strings.ToLower(p.Status))
		switch status {
		case entity.PropertyPending, entity.PropertyValidated, entity.PropertySold:
		default:
			return nil, fmt.Errorf("catalog.properties[%d]: invalid status %q", i, p.Status)
		}
		required, err := entity.ParseDocumentTypes(p.RequiredDocuments)
		if err != nil {
			return nil, fmt.Errorf("catalog.properties[%d]: %w", i, err)
		}

		listings = append(listings, entity.PropertyListing{
			ID:                p.ID,
			AgentID:           p.AgentID,
			Price:             price,
			RequiredDocuments: required,
			Status:            status,
		})
	}
	return listings, nil
}

// Validate ensures all required configuration values are present
func (c *Config) Validate() error {
	var problems []string

	switch c.Environment {
	case Development, Production, Test:
	default:
		return fmt.Errorf("invalid environment value: %s, must be one of: %s, %s, or %s",
			c.Environment, Development, Production, Test)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		problems = append(problems, "server.port")
	}
	if c.Server.ReadTimeout <= 0 {
		problems = append(problems, "server.readTimeout")
	}
	if c.Server.WriteTimeout <= 0 {
		problems = append(problems, "server.writeTimeout")
	}
	if c.Server.ShutdownTimeout <= 0 {
		problems = append(problems, "server.shutdownTimeout")
	}
	if c.Logger.Level == "" {
		problems = append(problems, "logger.level")
	}

	switch c.Storage.Driver {
	case StorageMemory:
	case StoragePostgres:
		if c.Database.Host == "" {
			problems = append(problems, "database.host (or PPE_DATABASE_HOST)")
		}
		if c.Database.Username == "" {
			problems = append(problems, "database.username (or PPE_DATABASE_USERNAME)")
		}
		if c.Database.Database == "" {
			problems = append(problems, "database.database (or PPE_DATABASE_DATABASE)")
		}
	default:
		problems = append(problems, fmt.Sprintf("storage.driver (%q is not memory or postgres)", c.Storage.Driver))
	}

	switch c.Locks.Driver {
	case LocksFromStorage:
	case LocksRedis:
		if c.Locks.Redis.Addr == "" {
			problems = append(problems, "locks.redis.addr (or PPE_LOCKS_REDIS_ADDR)")
		}
	default:
		problems = append(problems, fmt.Sprintf("locks.driver (%q is not storage or redis)", c.Locks.Driver))
	}

	if c.Transaction.MaxRetries < 0 || c.Transaction.MaxRetries > MaxRetriesLimit {
		problems = append(problems, "transaction.maxRetries")
	}
	if c.Transaction.RetryInterval <= 0 {
		problems = append(problems, "transaction.retryIntervalMs")
	}
	if c.Transaction.MaxRetryInterval < c.Transaction.RetryInterval {
		problems = append(problems, "transaction.maxRetryIntervalMs")
	}
	if c.Transaction.JitterFactor < 0 || c.Transaction.JitterFactor > 1 {
		problems = append(problems, "transaction.jitterFactor")
	}
	if c.Transaction.LockTTL <= 0 {
		problems = append(problems, "transaction.lockTtlMs")
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		problems = append(problems, "metrics.path")
	}

	if len(problems) > 0 {
		return fmt.Errorf("missing or invalid configurations: %v", problems)
	}

	if _, err := c.Catalog.Listings(); err != nil {
		return err
	}
	return nil
}

// ProductionWarnings lists settings that are legal but unsafe in production
func (c *Config) ProductionWarnings() []string {
	if c.Environment != Production {
		return nil
	}
	var warnings []string
	if c.Storage.Driver == StorageMemory {
		warnings = append(warnings, "storage.driver is memory; transactions are lost on restart")
	}
	if c.Storage.Driver == StoragePostgres {
		switch strings.ToLower(c.Database.SSLMode) {
		case "require", "verify-ca", "verify-full":
		default:
			warnings = append(warnings, "database.sslMode should be 'require', 'verify-ca' or 'verify-full'")
		}
	}
	if c.Storage.Driver == StorageMemory && c.Locks.Driver == LocksRedis {
		warnings = append(warnings, "redis leases with memory storage do not coordinate separate processes")
	}
	if c.Server.ReadTimeout < 5*time.Second {
		warnings = append(warnings, "server.readTimeout is too low for production")
	}
	return warnings
}

// ErrNoDotEnv is returned when no .env file exists in the search paths
var ErrNoDotEnv = errors.New("no .env file found in search paths")
