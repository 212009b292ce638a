package database

import (
	"context"
	"time"

	coreport "github.com/amirhossein-jamali/property-purchase/internal/domain/port/core"
	"github.com/amirhossein-jamali/property-purchase/internal/infrastructure/adapter/repository"
)

// RetryConfig holds configuration for retry operations
type RetryConfig struct {
	MaxAttempts   int
	RetryInterval time.Duration
	MaxInterval   time.Duration
	JitterFactor  float64 // 0.0-1.0
}

// RetryOnTransientError runs operation until it succeeds, fails with a
// non-transient error or runs out of attempts
func RetryOnTransientError(
	ctx context.Context,
	config RetryConfig,
	operation func(ctx context.Context) error,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) error {
	classifier := repository.NewErrorClassifier()

	var err error
	attempts := max(config.MaxAttempts, 1)
	for attempt := 0; attempt < attempts; attempt++ {
		if err = operation(ctx); err == nil {
			return nil
		}
		if !isTransientError(classifier, err) || attempt == attempts-1 {
			break
		}

		backoff := calculateBackoffWithJitter(attempt, config, timeProvider.Now())
		logger.Warn("Transient database error, retrying operation", map[string]any{
			"attempt":      attempt + 1,
			"max_attempts": attempts,
			"error":        err.Error(),
			"retry_after":  backoff.String(),
		})

		if sleepErr := timeProvider.Sleep(ctx, coreport.Duration(backoff)); sleepErr != nil {
			logger.Warn("Retry operation canceled by context", map[string]any{
				"attempts": attempt + 1,
				"error":    sleepErr.Error(),
			})
			return sleepErr
		}
	}

	logger.Error("Database operation failed", map[string]any{
		"max_attempts": attempts,
		"error":        err.Error(),
	})
	return err
}

// calculateBackoffWithJitter computes interval * 2^attempt capped at MaxInterval plus clock derived jitter
func calculateBackoffWithJitter(attempt int, config RetryConfig, now time.Time) time.Duration {
	backoff := config.RetryInterval * (1 << uint(attempt))
	if config.MaxInterval > 0 && backoff > config.MaxInterval {
		backoff = config.MaxInterval
	}

	if config.JitterFactor > 0 {
		jitter := time.Duration(float64(backoff) * config.JitterFactor * (float64(now.UnixNano()%100) / 100.0))
		backoff += jitter
	}
	return backoff
}

func isTransientError(classifier *repository.ErrorClassifier, err error) bool {
	return classifier.IsConnectionError(err) || classifier.IsLockError(err)
}
