package memory

import (
	"context"
	"sync"
	"time"

	errs "github.com/amirhossein-jamali/property-purchase/internal/domain/error"
	coreport "github.com/amirhossein-jamali/property-purchase/internal/domain/port/core"
	"github.com/amirhossein-jamali/property-purchase/internal/domain/port/persistence"
)

var _ persistence.TransactionLockRepository = (*LockRepository)(nil)

type lease struct {
	owner     string
	expiresAt time.Time
}

// LockRepository is an expiring mutex table keyed by string
type LockRepository struct {
	mu           sync.Mutex
	leases       map[string]lease
	timeProvider coreport.TimeProvider
}

// NewLockRepository creates an empty lock table
func NewLockRepository(timeProvider coreport.TimeProvider) *LockRepository {
	return &LockRepository{
		leases:       make(map[string]lease),
		timeProvider: timeProvider,
	}
}

// AcquireLock takes key for owner unless another owner holds an unexpired lease
func (r *LockRepository) AcquireLock(ctx context.Context, key, owner string, duration time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.timeProvider.Now()
	if current, held := r.leases[key]; held && current.owner != owner && now.Before(current.expiresAt) {
		return errs.NewLockConflictError(key)
	}
	r.leases[key] = lease{owner: owner, expiresAt: now.Add(duration)}
	return nil
}

// ReleaseLock drops key if owner still holds it
func (r *LockRepository) ReleaseLock(_ context.Context, key, owner string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, held := r.leases[key]; held && current.owner == owner {
		delete(r.leases, key)
	}
	return nil
}
