package migration

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	coreport "github.com/amirhossein-jamali/property-purchase/internal/domain/port/core"
	"github.com/amirhossein-jamali/property-purchase/internal/infrastructure/adapter/model"
)

// CurrentSchemaVersion represents the current database schema version
const CurrentSchemaVersion = "1.1.0"

// step upgrades the schema from the previous version to version
type step struct {
	version string
	details string
	run     func(ctx context.Context, db *gorm.DB) error
}

// MigrationManager manages database migrations
type MigrationManager struct {
	db           *gorm.DB
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
	indexMgr     *IndexManager
	steps        []step
}

// NewMigrationManager creates a new migration manager
func NewMigrationManager(db *gorm.DB, logger coreport.Logger, timeProvider coreport.TimeProvider) *MigrationManager {
	indexMgr := NewIndexManager(db, logger)
	return &MigrationManager{
		db:           db,
		logger:       logger,
		timeProvider: timeProvider,
		indexMgr:     indexMgr,
		steps: []step{
			{version: "1.0.0", details: "Transaction and lock tables", run: autoMigrateModels},
			{version: "1.1.0", details: "Lifecycle indexes and status constraint", run: func(ctx context.Context, _ *gorm.DB) error {
				return indexMgr.CreateIndexes(ctx)
			}},
		},
	}
}

// MigrateAll brings the schema to CurrentSchemaVersion, applying only missing steps
func (m *MigrationManager) MigrateAll(ctx context.Context) error {
	m.logger.Info("Starting database migrations", map[string]any{
		"target_version": CurrentSchemaVersion,
	})

	if err := m.db.WithContext(ctx).AutoMigrate(&model.MigrationVersion{}); err != nil {
		return fmt.Errorf("failed to create migration version table: %w", err)
	}

	currentVersion, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to check current schema version: %w", err)
	}
	if currentVersion == CurrentSchemaVersion {
		m.logger.Info("Database already at target version, skipping migration", map[string]any{
			"version": currentVersion,
		})
		return nil
	}

	for _, s := range m.pendingSteps(currentVersion) {
		m.logger.Info("Applying migration", map[string]any{
			"version": s.version,
			"details": s.details,
		})
		if err := s.run(ctx, m.db.WithContext(ctx)); err != nil {
			m.logger.Error("Migration failed", map[string]any{
				"version": s.version,
				"error":   err.Error(),
			})
			return fmt.Errorf("migration %s: %w", s.version, err)
		}
		if err := m.setVersion(ctx, s.version, s.details); err != nil {
			return fmt.Errorf("failed to record schema version %s: %w", s.version, err)
		}
	}

	m.logger.Info("Database migrations completed successfully", map[string]any{
		"version": CurrentSchemaVersion,
	})
	return nil
}

// pendingSteps returns the steps after currentVersion. An unknown version
// replays every step; each one is idempotent.
func (m *MigrationManager) pendingSteps(currentVersion string) []step {
	for i, s := range m.steps {
		if s.version == currentVersion {
			return m.steps[i+1:]
		}
	}
	return m.steps
}

// GetCurrentVersion gets the current migration version
func (m *MigrationManager) GetCurrentVersion(ctx context.Context) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	var version model.MigrationVersion
	result := m.db.WithContext(ctx).Order("applied_at desc, id desc").First(&version)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", result.Error
	}
	return version.Version, nil
}

func (m *MigrationManager) setVersion(ctx context.Context, version string, details string) error {
	migrationVersion := model.MigrationVersion{
		Version:   version,
		AppliedAt: m.timeProvider.Now(),
		Details:   details,
	}
	return m.db.WithContext(ctx).Create(&migrationVersion).Error
}

func autoMigrateModels(_ context.Context, db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Transaction{},
		&model.TransactionLock{},
	)
}
