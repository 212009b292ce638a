package persistence

import (
	"context"
	"time"
)

// TransactionLockRepository provides expiring write exclusion per key.
// Keys are transaction ids or "property:<id>" for reservations.
type TransactionLockRepository interface {
	// AcquireLock takes the lock for owner until it is released or the duration passes
	//
	// Possible errors:
	// - ErrTransactionLocked: If an unexpired lock is held by another owner
	// - ErrDatabaseConnection: If the storage backend fails
	AcquireLock(ctx context.Context, key, owner string, duration time.Duration) error

	// ReleaseLock drops the lock if owner still holds it
	ReleaseLock(ctx context.Context, key, owner string) error
}
