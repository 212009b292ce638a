package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/property-purchase/internal/domain/entity"
)

const testYAML = `
server:
  port: 9090
  readTimeout: 5
  writeTimeout: 5
  shutdownTimeout: 3
storage:
  driver: memory
transaction:
  maxRetries: 5
  retryIntervalMs: 10
  maxRetryIntervalMs: 100
  lockTtlMs: 2000
catalog:
  properties:
    - id: p-1
      agentId: a-1
      price: "1000.5"
      status: validated
      requiredDocuments: [identity, contract, identity]
`

func writeConfig(t *testing.T, env, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, env+".yaml"), []byte(content), 0o600))
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeConfig(t, Test, testYAML)

	cfg, err := Load(Test, dir)
	require.NoError(t, err)

	assert.Equal(t, Test, cfg.Environment)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout, "default applies")
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, 5, cfg.Transaction.MaxRetries)
	assert.Equal(t, 10*time.Millisecond, cfg.Transaction.RetryInterval)
	assert.Equal(t, 100*time.Millisecond, cfg.Transaction.MaxRetryInterval)
	assert.Equal(t, 2*time.Second, cfg.Transaction.LockTTL)
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 200*time.Millisecond, cfg.Database.SlowThreshold)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, LocksFromStorage, cfg.Locks.Driver)
	assert.Equal(t, "ppe:lock:", cfg.Locks.Redis.KeyPrefix)
	require.Len(t, cfg.Catalog.Properties, 1)

	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := writeConfig(t, Test, testYAML)
	t.Setenv("PPE_SERVER_PORT", "7070")
	t.Setenv("PPE_STORAGE_DRIVER", "postgres")
	t.Setenv("PPE_DATABASE_HOST", "db.internal")

	cfg, err := Load(Test, dir)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, StoragePostgres, cfg.Storage.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Host)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.username")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(Test, t.TempDir())
	assert.Error(t, err)
}

func TestCatalogListings(t *testing.T) {
	catalog := CatalogConfig{Properties: []PropertyConfig{{
		ID:                "p-1",
		AgentID:           "a-1",
		Price:             "1000.5",
		Status:            "Validated",
		RequiredDocuments: []string{"identity", "contract", "identity"},
	}}}

	listings, err := catalog.Listings()
	require.NoError(t, err)
	require.Len(t, listings, 1)

	l := listings[0]
	assert.True(t, l.Price.Equal(decimal.RequireFromString("1000.50")))
	assert.Equal(t, entity.PropertyValidated, l.Status)
	assert.Equal(t, []entity.DocumentType{entity.DocumentContract, entity.DocumentIdentity}, l.RequiredDocuments)
}

func TestCatalogListings_Invalid(t *testing.T) {
	valid := PropertyConfig{ID: "p-1", AgentID: "a-1", Price: "10", Status: "validated"}

	tests := []struct {
		name  string
		props []PropertyConfig
	}{
		{"missing agent", []PropertyConfig{{ID: "p-1", Price: "10", Status: "validated"}}},
		{"bad price", []PropertyConfig{{ID: "p-1", AgentID: "a-1", Price: "-1", Status: "validated"}}},
		{"bad status", []PropertyConfig{{ID: "p-1", AgentID: "a-1", Price: "10", Status: "listed"}}},
		{"bad document", []PropertyConfig{{ID: "p-1", AgentID: "a-1", Price: "10", Status: "validated", RequiredDocuments: []string{"passport"}}}},
		{"duplicate id", []PropertyConfig{valid, valid}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CatalogConfig{Properties: tt.props}.Listings()
			assert.Error(t, err)
		})
	}
}

func validConfig() *Config {
	return &Config{
		Environment: Development,
		Server:      ServerConfig{Port: 8080, ReadTimeout: time.Second, WriteTimeout: time.Second, ShutdownTimeout: time.Second},
		Logger:      LoggerConfig{Level: "info"},
		Storage:     StorageConfig{Driver: StorageMemory},
		Locks:       LocksConfig{Driver: LocksFromStorage},
		Transaction: TransactionConfig{
			MaxRetries:       3,
			RetryInterval:    10 * time.Millisecond,
			MaxRetryInterval: 100 * time.Millisecond,
			JitterFactor:     0.2,
			LockTTL:          time.Second,
		},
		Metrics: MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"environment", func(c *Config) { c.Environment = "staging" }, "invalid environment"},
		{"port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"storage driver", func(c *Config) { c.Storage.Driver = "sqlite" }, "storage.driver"},
		{"lock driver", func(c *Config) { c.Locks.Driver = "etcd" }, "locks.driver"},
		{"redis addr", func(c *Config) { c.Locks.Driver = LocksRedis }, "locks.redis.addr"},
		{"negative retries", func(c *Config) { c.Transaction.MaxRetries = -1 }, "transaction.maxRetries"},
		{"too many retries", func(c *Config) { c.Transaction.MaxRetries = MaxRetriesLimit + 1 }, "transaction.maxRetries"},
		{"retry limit", func(c *Config) { c.Transaction.MaxRetries = MaxRetriesLimit }, ""},
		{"retry interval", func(c *Config) { c.Transaction.RetryInterval = 0 }, "transaction.retryIntervalMs"},
		{"max below base", func(c *Config) { c.Transaction.MaxRetryInterval = time.Millisecond }, "transaction.maxRetryIntervalMs"},
		{"jitter", func(c *Config) { c.Transaction.JitterFactor = 2 }, "transaction.jitterFactor"},
		{"lock ttl", func(c *Config) { c.Transaction.LockTTL = 0 }, "transaction.lockTtlMs"},
		{"metrics path", func(c *Config) { c.Metrics.Path = "metrics" }, "metrics.path"},
		{"catalog", func(c *Config) {
			c.Catalog.Properties = []PropertyConfig{{ID: "p", AgentID: "a", Price: "x", Status: "validated"}}
		}, "catalog.properties[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestProductionWarnings(t *testing.T) {
	cfg := validConfig()
	assert.Empty(t, cfg.ProductionWarnings())

	cfg.Environment = Production
	cfg.Server.ReadTimeout = time.Second
	warnings := cfg.ProductionWarnings()
	assert.Len(t, warnings, 2)
}
