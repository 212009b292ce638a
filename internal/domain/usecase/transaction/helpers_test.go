package transaction

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/amirhossein-jamali/property-purchase/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/property-purchase/internal/domain/port/core"
	"github.com/amirhossein-jamali/property-purchase/internal/infrastructure/adapter/memory"
	mockcore "github.com/amirhossein-jamali/property-purchase/mocks/port/core"
)

var fixedTime = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

var (
	buyer   = entity.Actor{ID: "B1", Role: entity.RoleBuyer}
	buyer2  = entity.Actor{ID: "B2", Role: entity.RoleBuyer}
	agent   = entity.Actor{ID: "A1", Role: entity.RoleAgent}
	notary  = entity.Actor{ID: "N1", Role: entity.RoleNotary}
	notary2 = entity.Actor{ID: "N2", Role: entity.RoleNotary}
	admin   = entity.Actor{ID: "root", Role: entity.RoleAdmin}
)

type testEnv struct {
	service *Service
	repo    *memory.TransactionRepository
	locks   *memory.LockRepository
	catalog *memory.PropertyCatalog
}

func quietLogger(t *testing.T) *mockcore.MockLogger {
	logger := mockcore.NewMockLogger(t)
	logger.EXPECT().Debug(mock.Anything, mock.Anything).Return().Maybe()
	logger.EXPECT().Info(mock.Anything, mock.Anything).Return().Maybe()
	logger.EXPECT().Warn(mock.Anything, mock.Anything).Return().Maybe()
	logger.EXPECT().Error(mock.Anything, mock.Anything).Return().Maybe()
	return logger
}

func fixedClock(t *testing.T) *mockcore.MockTimeProvider {
	clock := mockcore.NewMockTimeProvider(t)
	clock.EXPECT().Now().Return(fixedTime).Maybe()
	clock.EXPECT().Since(mock.Anything).Return(coreport.Duration(0)).Maybe()
	clock.EXPECT().Sleep(mock.Anything, mock.Anything).RunAndReturn(func(ctx context.Context, _ coreport.Duration) error {
		time.Sleep(time.Millisecond)
		return ctx.Err()
	}).Maybe()
	clock.EXPECT().WithTimeout(mock.Anything, mock.Anything).RunAndReturn(
		func(ctx context.Context, d coreport.Duration) (context.Context, context.CancelFunc) {
			return context.WithTimeout(ctx, d.Std())
		}).Maybe()
	return clock
}

func sequentialIDs(t *testing.T) *mockcore.MockIDGenerator {
	var counter atomic.Int64
	ids := mockcore.NewMockIDGenerator(t)
	ids.EXPECT().NewID().RunAndReturn(func() string {
		return fmt.Sprintf("id-%d", counter.Add(1))
	}).Maybe()
	return ids
}

func quietMetrics(t *testing.T) *mockcore.MockMetricsRecorder {
	metrics := mockcore.NewMockMetricsRecorder(t)
	metrics.EXPECT().ObserveOperation(mock.Anything, mock.Anything, mock.Anything).Return().Maybe()
	metrics.EXPECT().IncTransition(mock.Anything, mock.Anything).Return().Maybe()
	metrics.EXPECT().IncWriteConflict(mock.Anything).Return().Maybe()
	return metrics
}

func listing(id string, status entity.PropertyStatus, required ...entity.DocumentType) entity.PropertyListing {
	return entity.PropertyListing{
		ID:                id,
		AgentID:           "A1",
		Price:             decimal.New(25000000, -2),
		RequiredDocuments: required,
		Status:            status,
	}
}

func newTestEnv(t *testing.T, config RetryConfig) *testEnv {
	t.Helper()
	logger := quietLogger(t)
	clock := fixedClock(t)

	repo := memory.NewTransactionRepository(logger)
	locks := memory.NewLockRepository(clock)
	properties := memory.NewPropertyCatalog(
		listing("P1", entity.PropertyValidated, entity.DocumentContract, entity.DocumentProofOfFunds),
		listing("P2", entity.PropertyPending, entity.DocumentContract),
		listing("P3", entity.PropertyValidated),
	)

	service := NewTransactionService(repo, locks, properties, sequentialIDs(t), clock, logger, quietMetrics(t), config)
	return &testEnv{service: service, repo: repo, locks: locks, catalog: properties}
}
