package redislock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	errs "github.com/amirhossein-jamali/property-purchase/internal/domain/error"
	coreport "github.com/amirhossein-jamali/property-purchase/internal/domain/port/core"
	"github.com/amirhossein-jamali/property-purchase/internal/domain/port/persistence"
)

// DefaultKeyPrefix namespaces lock keys inside a shared redis
const DefaultKeyPrefix = "ppe:lock:"

var _ persistence.TransactionLockRepository = (*LockRepository)(nil)

// acquireScript takes the key when it is free and refreshes it when the caller already owns it
var acquireScript = redis.NewScript(`
local current = redis.call("GET", KEYS[1])
if current == false then
	redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
	return 1
end
if current == ARGV[1] then
	redis.call("PEXPIRE", KEYS[1], ARGV[2])
	return 1
end
return 0
`)

// releaseScript deletes the key only for its owner
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Config holds the redis connection settings
type Config struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// LockRepository keeps expiring leases in redis so several API processes
// sharing one store exclude each other
type LockRepository struct {
	client redis.UniversalClient
	prefix string
	logger coreport.Logger
}

// NewClient opens a redis client and verifies it answers
func NewClient(ctx context.Context, config Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: redis %s: %v", errs.ErrDatabaseConnection, config.Addr, err)
	}
	return client, nil
}

// NewLockRepository wraps client; an empty prefix means DefaultKeyPrefix
func NewLockRepository(client redis.UniversalClient, prefix string, logger coreport.Logger) *LockRepository {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &LockRepository{client: client, prefix: prefix, logger: logger}
}

// AcquireLock takes key for owner unless another owner holds an unexpired lease
func (r *LockRepository) AcquireLock(ctx context.Context, key, owner string, duration time.Duration) error {
	ttl := duration.Milliseconds()
	if ttl < 1 {
		ttl = 1
	}

	acquired, err := acquireScript.Run(ctx, r.client, []string{r.prefix + key}, owner, ttl).Int()
	if err != nil {
		return r.storageError("acquire", key, err)
	}
	if acquired == 0 {
		return errs.NewLockConflictError(key)
	}
	return nil
}

// ReleaseLock drops key if owner still holds it. Leases lost to expiry are ignored.
func (r *LockRepository) ReleaseLock(ctx context.Context, key, owner string) error {
	released, err := releaseScript.Run(ctx, r.client, []string{r.prefix + key}, owner).Int()
	if err != nil {
		return r.storageError("release", key, err)
	}
	if released == 0 {
		r.logger.Debug("Lock was no longer held at release", map[string]any{
			"lock_key": key,
			"owner":    owner,
		})
	}
	return nil
}

// Ping reports whether redis answers
func (r *LockRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *LockRepository) storageError(operation, key string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	r.logger.Error("Redis lock operation failed", map[string]any{
		"operation": operation,
		"lock_key":  key,
		"error":     err.Error(),
	})
	return fmt.Errorf("%w: redis lock %s: %v", errs.ErrDatabaseConnection, operation, err)
}
