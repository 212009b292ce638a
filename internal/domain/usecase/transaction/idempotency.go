package transaction

import (
	"context"
	"fmt"

	"github.com/amirhossein-jamali/property-purchase/internal/domain/entity"
	errs "github.com/amirhossein-jamali/property-purchase/internal/domain/error"
	"github.com/amirhossein-jamali/property-purchase/internal/domain/port/persistence"
)

// IdempotencyHandler makes reservations repeatable: one active transaction
// per property, returned again to the buyer who holds it
type IdempotencyHandler struct {
	transactionRepo persistence.TransactionRepository
}

// NewIdempotencyHandler creates a new IdempotencyHandler
func NewIdempotencyHandler(transactionRepo persistence.TransactionRepository) *IdempotencyHandler {
	return &IdempotencyHandler{
		transactionRepo: transactionRepo,
	}
}

// CheckReservation looks for an active transaction on the property.
// It returns the existing transaction and true when buyerID already holds it,
// and ErrPropertyUnavailable when another buyer does.
// Callers hold the property lock.
func (h *IdempotencyHandler) CheckReservation(
	ctx context.Context,
	propertyID string,
	buyerID string,
) (*entity.Transaction, bool, error) {
	existing, err := h.transactionRepo.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check existing reservations: %w", err)
	}

	for _, tx := range existing {
		if !tx.IsActive() {
			continue
		}
		if tx.BuyerID == buyerID {
			return tx, true, nil
		}
		return nil, false, fmt.Errorf("%w: property %s is reserved by another buyer", errs.ErrPropertyUnavailable, propertyID)
	}

	return nil, false, nil
}
