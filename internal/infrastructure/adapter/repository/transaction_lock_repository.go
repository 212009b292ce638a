package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	errs "github.com/amirhossein-jamali/property-purchase/internal/domain/error"
	coreport "github.com/amirhossein-jamali/property-purchase/internal/domain/port/core"
	"github.com/amirhossein-jamali/property-purchase/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/property-purchase/internal/infrastructure/adapter/model"
)

var _ persistence.TransactionLockRepository = (*TransactionLockRepository)(nil)

// TransactionLockRepository stores expiring write leases in the transaction_locks table
type TransactionLockRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewTransactionLockRepository creates a new TransactionLockRepository instance
func NewTransactionLockRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *TransactionLockRepository {
	return &TransactionLockRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// AcquireLock takes the lease in a single upsert. An existing row is only
// overwritten when it has expired or already belongs to owner.
func (r *TransactionLockRepository) AcquireLock(ctx context.Context, key, owner string, duration time.Duration) error {
	now := r.timeProvider.Now()
	expiresAt := now.Add(duration)

	result := r.db.WithContext(ctx).Exec(`
		INSERT INTO transaction_locks (key, owner, locked_at, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (key) DO UPDATE
		SET owner = EXCLUDED.owner,
		    locked_at = EXCLUDED.locked_at,
		    expires_at = EXCLUDED.expires_at,
		    updated_at = EXCLUDED.updated_at
		WHERE transaction_locks.expires_at <= ? OR transaction_locks.owner = ?`,
		key, owner, now, expiresAt, now, now,
		now, owner,
	)

	if result.Error != nil {
		if isContextError(result.Error) {
			r.logger.Warn("Context timeout acquiring lock", map[string]any{
				"key":   key,
				"error": result.Error.Error(),
			})
			return fmt.Errorf("lock acquisition timeout: %w", result.Error)
		}
		if r.errorClassifier.IsDuplicateKeyError(result.Error) || r.errorClassifier.IsLockError(result.Error) {
			return errs.NewLockConflictError(key)
		}

		r.logger.Error("Database error acquiring lock", map[string]any{
			"key":   key,
			"error": result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	if result.RowsAffected == 0 {
		r.logger.Debug("Lock is held by another owner", map[string]any{
			"key": key,
		})
		return errs.NewLockConflictError(key)
	}

	r.logger.Debug("Lock acquired", map[string]any{
		"key":        key,
		"owner":      owner,
		"expires_at": expiresAt,
	})
	return nil
}

// ReleaseLock deletes the lease only while owner still holds it
func (r *TransactionLockRepository) ReleaseLock(ctx context.Context, key, owner string) error {
	result := r.db.WithContext(ctx).Where("key = ? AND owner = ?", key, owner).Delete(&model.TransactionLock{})

	// The lease expires on its own, so a timed out release is not fatal
	if result.Error != nil && isContextError(result.Error) {
		r.logger.Warn("Context timeout when releasing lock, lock will expire automatically", map[string]any{
			"key":   key,
			"error": result.Error.Error(),
		})
		return nil
	}
	if result.Error != nil {
		r.logger.Error("Failed to release lock", map[string]any{
			"key":   key,
			"error": result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	if result.RowsAffected == 0 {
		r.logger.Debug("No lock found to release, it may have expired", map[string]any{
			"key": key,
		})
	}
	return nil
}

// CleanupExpiredLocks removes leases left behind by crashed processes
func (r *TransactionLockRepository) CleanupExpiredLocks(ctx context.Context) (int64, error) {
	now := r.timeProvider.Now()

	result := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&model.TransactionLock{})
	if result.Error != nil {
		r.logger.Error("Failed to clean up expired locks", map[string]any{
			"error": result.Error.Error(),
		})
		return 0, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	r.logger.Info("Expired locks cleanup completed", map[string]any{
		"locks_removed": result.RowsAffected,
	})
	return result.RowsAffected, nil
}

// isContextError checks if an error is related to context timeout or cancellation
func isContextError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}

	errStr := err.Error()
	return strings.Contains(errStr, "context deadline exceeded") ||
		strings.Contains(errStr, "context canceled")
}
