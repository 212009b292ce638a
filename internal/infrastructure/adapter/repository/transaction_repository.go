package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/amirhossein-jamali/property-purchase/internal/domain/entity"
	errs "github.com/amirhossein-jamali/property-purchase/internal/domain/error"
	coreport "github.com/amirhossein-jamali/property-purchase/internal/domain/port/core"
	"github.com/amirhossein-jamali/property-purchase/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/property-purchase/internal/infrastructure/adapter/model"
)

var _ persistence.TransactionRepository = (*TransactionRepository)(nil)

// TransactionRepository implements TransactionRepository interface using GORM
type TransactionRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewTransactionRepository creates a new TransactionRepository instance
func NewTransactionRepository(db *gorm.DB, logger coreport.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// Create inserts a new transaction row with version 1
func (r *TransactionRepository) Create(ctx context.Context, transaction *entity.Transaction) (string, error) {
	r.logger.Debug("Creating transaction", map[string]any{
		"transaction_id": transaction.ID,
		"property_id":    transaction.PropertyID,
	})

	transactionModel := entityToModel(transaction)
	transactionModel.Version = 1

	result := r.db.WithContext(ctx).Create(&transactionModel)
	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			r.logger.Warn("Duplicate transaction detected", map[string]any{
				"transaction_id": transaction.ID,
			})
			return "", fmt.Errorf("%w: %s", errs.ErrDuplicateTransaction, transaction.ID)
		}
		return "", r.storageError("create", transaction.ID, result.Error)
	}

	transaction.Version = 1
	r.logger.Info("Transaction created successfully", map[string]any{
		"transaction_id": transaction.ID,
		"property_id":    transaction.PropertyID,
		"buyer_id":       transaction.BuyerID,
	})
	return transaction.ID, nil
}

// Get loads one transaction by id
func (r *TransactionRepository) Get(ctx context.Context, id string) (*entity.Transaction, error) {
	var transactionModel model.Transaction
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&transactionModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", errs.ErrTransactionNotFound, id)
		}
		return nil, r.storageError("get", id, result.Error)
	}
	return modelToEntity(&transactionModel)
}

// saveColumns is every column except the primary key and created_at
var saveColumns = []string{
	"property_id", "buyer_id", "agent_id", "notary_id", "status", "final_price",
	"required_documents", "documents", "validations", "meetings", "notes", "history",
	"completed_at", "version", "updated_at",
}

// Save rewrites every column of the row guarded by the version the caller loaded
func (r *TransactionRepository) Save(ctx context.Context, transaction *entity.Transaction) error {
	transactionModel := entityToModel(transaction)
	expected := transaction.Version
	transactionModel.Version = expected + 1

	// struct updates run the json serializer; Select writes zero values too
	result := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("id = ? AND version = ?", transaction.ID, expected).
		Select(saveColumns).
		Updates(&transactionModel)
	if result.Error != nil {
		return r.storageError("save", transaction.ID, result.Error)
	}

	if result.RowsAffected == 0 {
		exists, err := r.exists(ctx, transaction.ID)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: %s", errs.ErrTransactionNotFound, transaction.ID)
		}
		r.logger.Debug("Stale transaction version", map[string]any{
			"transaction_id":   transaction.ID,
			"expected_version": expected,
		})
		return errs.NewWriteConflictError(transaction.ID, expected, "stored version changed")
	}

	transaction.Version = expected + 1
	return nil
}

// Delete removes the row and reports whether it existed
func (r *TransactionRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Transaction{})
	if result.Error != nil {
		return false, r.storageError("delete", id, result.Error)
	}
	if result.RowsAffected > 0 {
		r.logger.Info("Transaction deleted", map[string]any{
			"transaction_id": id,
		})
	}
	return result.RowsAffected > 0, nil
}

// ListByRole returns the transactions the actor is party to
func (r *TransactionRepository) ListByRole(ctx context.Context, role entity.Role, actorID string) ([]*entity.Transaction, error) {
	query := r.db.WithContext(ctx).Model(&model.Transaction{})
	switch role {
	case entity.RoleBuyer:
		query = query.Where("buyer_id = ?", actorID)
	case entity.RoleAgent:
		query = query.Where("agent_id = ?", actorID)
	case entity.RoleNotary:
		query = query.Where("notary_id = ? OR (notary_id = '' AND status IN ?)", actorID, statusStrings(persistence.QueueStatuses))
	default:
		return []*entity.Transaction{}, nil
	}
	return r.list(query, "list_by_role")
}

// ListByProperty returns every transaction on the property
func (r *TransactionRepository) ListByProperty(ctx context.Context, propertyID string) ([]*entity.Transaction, error) {
	return r.list(r.db.WithContext(ctx).Where("property_id = ?", propertyID), "list_by_property")
}

// ListActive returns every transaction outside the terminal statuses
func (r *TransactionRepository) ListActive(ctx context.Context) ([]*entity.Transaction, error) {
	terminal := []string{string(entity.StatusCompleted), string(entity.StatusCancelled)}
	return r.list(r.db.WithContext(ctx).Where("status NOT IN ?", terminal), "list_active")
}

func (r *TransactionRepository) list(query *gorm.DB, operation string) ([]*entity.Transaction, error) {
	var models []model.Transaction
	if err := query.Order("created_at ASC, id ASC").Find(&models).Error; err != nil {
		return nil, r.storageError(operation, "", err)
	}

	transactions := make([]*entity.Transaction, 0, len(models))
	for i := range models {
		tx, err := modelToEntity(&models[i])
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

func (r *TransactionRepository) exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Transaction{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, r.storageError("exists", id, err)
	}
	return count > 0, nil
}

// storageError keeps context errors intact and maps everything else to ErrDatabaseConnection
func (r *TransactionRepository) storageError(operation, id string, err error) error {
	if isContextError(err) {
		r.logger.Warn("Context ended during transaction query", map[string]any{
			"operation":      operation,
			"transaction_id": id,
			"error":          err.Error(),
		})
		return fmt.Errorf("transaction %s: %w", operation, err)
	}

	r.logger.Error("Transaction query failed", map[string]any{
		"operation":      operation,
		"transaction_id": id,
		"error_type":     string(r.errorClassifier.Classify(err)),
		"error":          err.Error(),
	})
	return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
}

func statusStrings(statuses []entity.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
