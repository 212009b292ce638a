package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/property-purchase/internal/domain/entity"
	errs "github.com/amirhossein-jamali/property-purchase/internal/domain/error"
	"github.com/amirhossein-jamali/property-purchase/internal/infrastructure/adapter/logger"
)

var baseTime = time.Date(2024, 5, 1, 10, 0, 0, 123456789, time.UTC)

func newTransaction(t *testing.T, id, propertyID string, created time.Time) *entity.Transaction {
	t.Helper()
	tx, err := entity.NewTransaction(entity.NewTransactionParams{
		ID:                id,
		PropertyID:        propertyID,
		BuyerID:           "B1",
		AgentID:           "A1",
		FinalPrice:        decimal.NullDecimal{Decimal: decimal.New(12345678, -2), Valid: true},
		RequiredDocuments: []entity.DocumentType{entity.DocumentContract},
	}, created)
	require.NoError(t, err)
	return tx
}

func TestTransactionRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository(logger.NewNoopLogger())

	tx := newTransaction(t, "tx-1", "P1", baseTime)
	id, err := repo.Create(ctx, tx)
	require.NoError(t, err)
	assert.Equal(t, "tx-1", id)
	assert.Equal(t, uint64(1), tx.Version)

	now := baseTime.Add(time.Hour)
	require.NoError(t, tx.AttachDocument(entity.DocumentContract, "ref", "B1", now))
	require.NoError(t, tx.ValidateDocument(entity.DocumentContract, "N1", true, "ok", now))
	_, err = tx.ScheduleMeeting(entity.MeetingInput{Type: entity.MeetingFinalSigning, ScheduledAt: now.Add(time.Hour)}, "A1", now)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, tx))
	assert.Equal(t, uint64(2), tx.Version)

	loaded, err := repo.Get(ctx, "tx-1")
	require.NoError(t, err)
	assert.Equal(t, tx, loaded)

	loaded.Notes[0].Body = "mutated"
	again, err := repo.Get(ctx, "tx-1")
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", again.Notes[0].Body)
}

func TestTransactionRepository_Errors(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository(logger.NewNoopLogger())

	_, err := repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, errs.ErrTransactionNotFound)

	tx := newTransaction(t, "tx-1", "P1", baseTime)
	_, err = repo.Create(ctx, tx)
	require.NoError(t, err)

	_, err = repo.Create(ctx, newTransaction(t, "tx-1", "P1", baseTime))
	assert.ErrorIs(t, err, errs.ErrDuplicateTransaction)

	stale, err := repo.Get(ctx, "tx-1")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, tx))

	err = repo.Save(ctx, stale)
	assert.ErrorIs(t, err, errs.ErrWriteConflict)

	deleted, err := repo.Delete(ctx, "tx-1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, "tx-1")
	require.NoError(t, err)
	assert.False(t, deleted)

	assert.ErrorIs(t, repo.Save(ctx, tx), errs.ErrTransactionNotFound)
}

func TestTransactionRepository_ConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository(logger.NewNoopLogger())
	_, err := repo.Create(ctx, newTransaction(t, "tx-1", "P1", baseTime))
	require.NoError(t, err)

	const writers = 10
	copies := make([]*entity.Transaction, writers)
	for i := range copies {
		copies[i], err = repo.Get(ctx, "tx-1")
		require.NoError(t, err)
		_, err = copies[i].AddNote("B1", "writer", entity.NoteGeneral, baseTime)
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	results := make([]error, writers)
	for i := range copies {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = repo.Save(ctx, copies[i])
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, errs.ErrWriteConflict)
	}
	assert.Equal(t, 1, succeeded)

	stored, err := repo.Get(ctx, "tx-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), stored.Version)
	assert.Len(t, stored.Notes, 1)
}

func TestTransactionRepository_Queries(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository(logger.NewNoopLogger())

	pending := newTransaction(t, "tx-a", "P1", baseTime)
	queued := newTransaction(t, "tx-b", "P2", baseTime.Add(time.Minute))
	require.NoError(t, queued.AttachDocument(entity.DocumentInspectionReport, "r", "B1", baseTime))
	bound := newTransaction(t, "tx-c", "P1", baseTime.Add(2*time.Minute))
	bound.NotaryID = "N1"
	bound.Status = entity.StatusUnderReview
	cancelled := newTransaction(t, "tx-d", "P3", baseTime.Add(3*time.Minute))
	cancelled.Status = entity.StatusCancelled
	cancelled.BuyerID = "B2"

	for _, tx := range []*entity.Transaction{cancelled, bound, pending, queued} {
		_, err := repo.Create(ctx, tx)
		require.NoError(t, err)
	}

	ids := func(txs []*entity.Transaction) []string {
		out := make([]string, len(txs))
		for i, tx := range txs {
			out[i] = tx.ID
		}
		return out
	}

	byBuyer, err := repo.ListByRole(ctx, entity.RoleBuyer, "B1")
	require.NoError(t, err)
	assert.Equal(t, []string{"tx-a", "tx-b", "tx-c"}, ids(byBuyer))

	byAgent, err := repo.ListByRole(ctx, entity.RoleAgent, "A1")
	require.NoError(t, err)
	assert.Len(t, byAgent, 4)

	n1, err := repo.ListByRole(ctx, entity.RoleNotary, "N1")
	require.NoError(t, err)
	assert.Equal(t, []string{"tx-b", "tx-c"}, ids(n1))

	n2, err := repo.ListByRole(ctx, entity.RoleNotary, "N2")
	require.NoError(t, err)
	assert.Equal(t, []string{"tx-b"}, ids(n2))

	admin, err := repo.ListByRole(ctx, entity.RoleAdmin, "root")
	require.NoError(t, err)
	assert.Empty(t, admin)

	byProperty, err := repo.ListByProperty(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, []string{"tx-a", "tx-c"}, ids(byProperty))

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"tx-a", "tx-b", "tx-c"}, ids(active))
}

func TestTransactionRepository_CancelledContext(t *testing.T) {
	repo := NewTransactionRepository(logger.NewNoopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Get(ctx, "tx-1")
	assert.ErrorIs(t, err, context.Canceled)
}
