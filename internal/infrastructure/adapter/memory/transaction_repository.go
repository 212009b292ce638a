// Package memory holds process-local adapters for the persistence and catalog
// ports. They are used by the memory storage driver and by tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/amirhossein-jamali/property-purchase/internal/domain/entity"
	errs "github.com/amirhossein-jamali/property-purchase/internal/domain/error"
	coreport "github.com/amirhossein-jamali/property-purchase/internal/domain/port/core"
	"github.com/amirhossein-jamali/property-purchase/internal/domain/port/persistence"
)

var _ persistence.TransactionRepository = (*TransactionRepository)(nil)

// TransactionRepository keeps deep copies of transactions keyed by id.
// Callers never share memory with the store.
type TransactionRepository struct {
	mu      sync.RWMutex
	records map[string]*entity.Transaction
	logger  coreport.Logger
}

// NewTransactionRepository creates an empty repository
func NewTransactionRepository(logger coreport.Logger) *TransactionRepository {
	return &TransactionRepository{
		records: make(map[string]*entity.Transaction),
		logger:  logger,
	}
}

// Create stores a new transaction with version 1
func (r *TransactionRepository) Create(ctx context.Context, transaction *entity.Transaction) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[transaction.ID]; exists {
		return "", fmt.Errorf("%w: %s", errs.ErrDuplicateTransaction, transaction.ID)
	}

	transaction.Version = 1
	r.records[transaction.ID] = transaction.Clone()

	r.logger.Debug("Transaction stored", map[string]any{
		"transaction_id": transaction.ID,
		"property_id":    transaction.PropertyID,
	})
	return transaction.ID, nil
}

// Get returns a copy of the stored transaction
func (r *TransactionRepository) Get(ctx context.Context, id string) (*entity.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrTransactionNotFound, id)
	}
	return stored.Clone(), nil
}

// Save replaces the record when the stored version matches
func (r *TransactionRepository) Save(ctx context.Context, transaction *entity.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.records[transaction.ID]
	if !ok {
		return fmt.Errorf("%w: %s", errs.ErrTransactionNotFound, transaction.ID)
	}
	if stored.Version != transaction.Version {
		r.logger.Warn("Stale transaction version on save", map[string]any{
			"transaction_id":   transaction.ID,
			"expected_version": transaction.Version,
			"stored_version":   stored.Version,
		})
		return errs.NewWriteConflictError(transaction.ID, transaction.Version, "stored version has moved on")
	}

	transaction.Version++
	r.records[transaction.ID] = transaction.Clone()
	return nil
}

// Delete removes a transaction
func (r *TransactionRepository) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return false, nil
	}
	delete(r.records, id)
	return true, nil
}

// ListByRole returns the transactions the actor is party to
func (r *TransactionRepository) ListByRole(ctx context.Context, role entity.Role, actorID string) ([]*entity.Transaction, error) {
	return r.filter(ctx, func(tx *entity.Transaction) bool {
		return persistence.PartyOf(tx, role, actorID)
	})
}

// ListByProperty returns every transaction for a property
func (r *TransactionRepository) ListByProperty(ctx context.Context, propertyID string) ([]*entity.Transaction, error) {
	return r.filter(ctx, func(tx *entity.Transaction) bool {
		return tx.PropertyID == propertyID
	})
}

// ListActive returns transactions that are not completed or cancelled
func (r *TransactionRepository) ListActive(ctx context.Context) ([]*entity.Transaction, error) {
	return r.filter(ctx, func(tx *entity.Transaction) bool {
		return tx.IsActive()
	})
}

func (r *TransactionRepository) filter(ctx context.Context, keep func(*entity.Transaction) bool) ([]*entity.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	out := make([]*entity.Transaction, 0)
	for _, tx := range r.records {
		if keep(tx) {
			out = append(out, tx.Clone())
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
