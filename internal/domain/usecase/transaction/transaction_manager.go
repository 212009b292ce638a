package transaction

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/property-purchase/internal/domain/entity"
	errs "github.com/amirhossein-jamali/property-purchase/internal/domain/error"
	coreport "github.com/amirhossein-jamali/property-purchase/internal/domain/port/core"
	"github.com/amirhossein-jamali/property-purchase/internal/domain/port/persistence"
)

const (
	releaseTimeout = 2 * time.Second

	// maxBackoff bounds the doubling when no MaxInterval is configured
	maxBackoff = time.Minute
)

// RetryConfig controls how write conflicts are retried
type RetryConfig struct {
	MaxRetries    int
	RetryInterval time.Duration
	MaxInterval   time.Duration
	JitterFactor  float64 // 0.0-1.0
	LockTTL       time.Duration
}

// DefaultRetryConfig returns the default retry configuration
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:    3,
		RetryInterval: 20 * time.Millisecond,
		MaxInterval:   500 * time.Millisecond,
		JitterFactor:  0.2,
		LockTTL:       10 * time.Second,
	}
}

// MutationFunc applies one change to a freshly loaded transaction.
// Returning an error discards the change.
type MutationFunc func(tx *entity.Transaction, now time.Time) error

// TransactionManager serializes writers per key. Every write runs as
// lock, load, apply, versioned save, release; a lost race is retried
// with a fresh read up to MaxRetries times.
type TransactionManager struct {
	repo         persistence.TransactionRepository
	locks        persistence.TransactionLockRepository
	ids          coreport.IDGenerator
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	metrics      coreport.MetricsRecorder
	config       RetryConfig
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager(
	repo persistence.TransactionRepository,
	locks persistence.TransactionLockRepository,
	ids coreport.IDGenerator,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	metrics coreport.MetricsRecorder,
	config RetryConfig,
) *TransactionManager {
	if config.LockTTL <= 0 {
		config.LockTTL = DefaultRetryConfig().LockTTL
	}
	return &TransactionManager{
		repo:         repo,
		locks:        locks,
		ids:          ids,
		timeProvider: timeProvider,
		logger:       logger,
		metrics:      metrics,
		config:       config,
	}
}

// Now returns the clock reading stored on records
func (m *TransactionManager) Now() time.Time {
	return entity.Timestamp(m.timeProvider.Now())
}

// Mutate loads the transaction, applies fn and saves the result under the
// transaction's lock. On any error nothing is persisted.
func (m *TransactionManager) Mutate(
	ctx context.Context,
	operation string,
	transactionID string,
	fn MutationFunc,
) (*entity.Transaction, error) {
	var result *entity.Transaction

	err := m.retry(ctx, operation, transactionID, func(ctx context.Context) error {
		tx, err := m.repo.Get(ctx, transactionID)
		if err != nil {
			return err
		}

		historyBefore := len(tx.History)
		if err := fn(tx, m.Now()); err != nil {
			return err
		}

		if err := m.repo.Save(ctx, tx); err != nil {
			return err
		}

		for _, change := range tx.History[historyBefore:] {
			m.metrics.IncTransition(string(change.From), string(change.To))
			m.logger.Info("Transaction status changed", map[string]any{
				"transaction_id": tx.ID,
				"from":           change.From,
				"to":             change.To,
				"actor_id":       change.ActorID,
			})
		}
		result = tx
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// WithLock runs fn while holding the lock for key, retrying lock contention
func (m *TransactionManager) WithLock(
	ctx context.Context,
	operation string,
	key string,
	fn func(ctx context.Context) error,
) error {
	return m.retry(ctx, operation, key, fn)
}

func (m *TransactionManager) retry(
	ctx context.Context,
	operation string,
	key string,
	fn func(ctx context.Context) error,
) error {
	var err error
	for attempt := 0; attempt <= m.config.MaxRetries; attempt++ {
		err = m.locked(ctx, key, fn)
		if err == nil || !errs.IsWriteConflictError(err) {
			return err
		}

		m.metrics.IncWriteConflict(operation)
		if attempt == m.config.MaxRetries {
			break
		}

		backoff := calculateBackoffWithJitter(attempt, m.config, m.timeProvider.Now())
		m.logger.Warn("Write conflict, retrying with a fresh read", map[string]any{
			"operation":   operation,
			"key":         key,
			"attempt":     attempt + 1,
			"max_retries": m.config.MaxRetries,
			"retry_after": backoff.String(),
		})
		if sleepErr := m.timeProvider.Sleep(ctx, coreport.Duration(backoff)); sleepErr != nil {
			return sleepErr
		}
	}

	m.logger.Error("Write conflict persisted after retries", map[string]any{
		"operation":   operation,
		"key":         key,
		"max_retries": m.config.MaxRetries,
		"error":       err.Error(),
	})
	return err
}

func (m *TransactionManager) locked(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	owner := m.ids.NewID()
	if err := m.locks.AcquireLock(ctx, key, owner, m.config.LockTTL); err != nil {
		return err
	}

	defer func() {
		// release even when the caller's context is already cancelled
		releaseCtx, cancel := m.timeProvider.WithTimeout(context.WithoutCancel(ctx), coreport.Duration(releaseTimeout))
		defer cancel()
		if err := m.locks.ReleaseLock(releaseCtx, key, owner); err != nil {
			m.logger.Warn("Failed to release transaction lock", map[string]any{
				"key":   key,
				"owner": owner,
				"error": err.Error(),
			})
		}
	}()

	return fn(ctx)
}

// calculateBackoffWithJitter computes the backoff duration with exponential increase and jitter
func calculateBackoffWithJitter(attempt int, config RetryConfig, now time.Time) time.Duration {
	backoff := config.RetryInterval
	for i := 0; i < attempt && backoff < maxBackoff; i++ {
		if config.MaxInterval > 0 && backoff >= config.MaxInterval {
			break
		}
		backoff *= 2
	}
	if backoff > maxBackoff {
		backoff = maxBackoff
	}
	if config.MaxInterval > 0 && backoff > config.MaxInterval {
		backoff = config.MaxInterval
	}

	if config.JitterFactor > 0 {
		jitter := time.Duration(float64(backoff) * config.JitterFactor * (float64(now.UnixNano()%100) / 100.0))
		backoff += jitter
	}
	return backoff
}
