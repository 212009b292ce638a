package persistence

import (
	"context"

	"github.com/amirhossein-jamali/property-purchase/internal/domain/entity"
)

// TransactionRepository is durable keyed storage of transaction aggregates.
// Role and property queries are derived views over the same records.
type TransactionRepository interface {
	// Create stores a new transaction and sets its Version to 1
	//
	// Possible errors:
	// - ErrDuplicateTransaction: If a transaction with the same ID already exists
	// - ErrDatabaseConnection: If the storage backend fails
	Create(ctx context.Context, transaction *entity.Transaction) (string, error)

	// Get loads the full record, never a default one
	//
	// Possible errors:
	// - ErrTransactionNotFound: If no transaction has the given ID
	// - ErrDatabaseConnection: If the storage backend fails
	Get(ctx context.Context, id string) (*entity.Transaction, error)

	// Save replaces the whole record if the stored version still equals
	// transaction.Version, then increments transaction.Version in place
	//
	// Possible errors:
	// - ErrTransactionNotFound: If the transaction was deleted
	// - ErrWriteConflict: If another writer saved first
	// - ErrDatabaseConnection: If the storage backend fails
	Save(ctx context.Context, transaction *entity.Transaction) error

	// Delete removes the aggregate and reports whether it existed
	Delete(ctx context.Context, id string) (bool, error)

	// ListByRole returns the transactions an actor is party to. For notaries this
	// includes unbound transactions waiting in the review queue.
	ListByRole(ctx context.Context, role entity.Role, actorID string) ([]*entity.Transaction, error)

	// ListByProperty returns every transaction for a property, oldest first
	ListByProperty(ctx context.Context, propertyID string) ([]*entity.Transaction, error)

	// ListActive returns transactions not in a terminal status, oldest first
	ListActive(ctx context.Context) ([]*entity.Transaction, error)
}

// QueueStatuses are the statuses in which an unbound transaction appears in
// every notary's review queue
var QueueStatuses = []entity.Status{entity.StatusDocumentsPending, entity.StatusUnderReview}

// PartyOf is the ListByRole predicate shared by repository implementations
func PartyOf(tx *entity.Transaction, role entity.Role, actorID string) bool {
	switch role {
	case entity.RoleBuyer:
		return tx.BuyerID == actorID
	case entity.RoleAgent:
		return tx.AgentID == actorID
	case entity.RoleNotary:
		if tx.NotaryID == actorID {
			return true
		}
		if tx.HasNotary() {
			return false
		}
		for _, s := range QueueStatuses {
			if tx.Status == s {
				return true
			}
		}
	}
	return false
}
