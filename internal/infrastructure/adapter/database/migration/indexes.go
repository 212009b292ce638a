package migration

import (
	"context"

	"gorm.io/gorm"

	coreport "github.com/amirhossein-jamali/property-purchase/internal/domain/port/core"
)

// IndexManager creates the PostgreSQL specific indexes and constraints that
// AutoMigrate cannot express
type IndexManager struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewIndexManager creates a new index manager
func NewIndexManager(db *gorm.DB, logger coreport.Logger) *IndexManager {
	return &IndexManager{
		db:     db,
		logger: logger,
	}
}

type statement struct {
	name string
	sql  string
}

var lifecycleStatements = []statement{
	{
		// Reservation checks look for a live transaction on the property
		name: "idx_transactions_active_property",
		sql: `CREATE INDEX IF NOT EXISTS idx_transactions_active_property
			ON transactions (property_id, created_at)
			WHERE status NOT IN ('completed', 'cancelled')`,
	},
	{
		name: "idx_transactions_notary_queue",
		sql: `CREATE INDEX IF NOT EXISTS idx_transactions_notary_queue
			ON transactions (status, created_at)
			WHERE notary_id = ''`,
	},
	{
		name: "idx_transactions_created_id",
		sql:  `CREATE INDEX IF NOT EXISTS idx_transactions_created_id ON transactions (created_at, id)`,
	},
	{
		name: "chk_transactions_status",
		sql: `DO $$ BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_transactions_status') THEN
				ALTER TABLE transactions ADD CONSTRAINT chk_transactions_status
				CHECK (status IN ('pending', 'documents_pending', 'under_review', 'completed', 'cancelled'));
			END IF;
		END $$;`,
	},
	{
		name: "chk_transactions_version",
		sql: `DO $$ BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_transactions_version') THEN
				ALTER TABLE transactions ADD CONSTRAINT chk_transactions_version CHECK (version >= 1);
			END IF;
		END $$;`,
	},
}

// CreateIndexes applies every lifecycle index and constraint
func (m *IndexManager) CreateIndexes(ctx context.Context) error {
	m.logger.Info("Creating lifecycle indexes", map[string]any{
		"count": len(lifecycleStatements),
	})

	for _, s := range lifecycleStatements {
		if err := m.db.WithContext(ctx).Exec(s.sql).Error; err != nil {
			m.logger.Error("Failed to apply index statement", map[string]any{
				"name":  s.name,
				"error": err.Error(),
			})
			return err
		}
	}
	return nil
}
