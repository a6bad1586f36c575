package lock

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dimasprakoso/loansystem/pkg/common"
)

// releaseScript deletes the lock only if the caller still owns it, so a lock
// that expired and was re-acquired by someone else is never released by the
// original holder.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// IssuanceLock is the mutual-exclusion capability the loan service needs;
// CustomerLock is the Redis-backed implementation.
type IssuanceLock interface {
	Acquire(ctx context.Context, customerID uint64) (func(), error)
}

// CustomerLock serializes loan issuance per customer. Two concurrent
// issuances could otherwise both pass the affordability check against the
// same stale loan snapshot and oversubscribe the affordability cap.
type CustomerLock struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCustomerLock(client *redis.Client, ttl time.Duration) *CustomerLock {
	if client == nil {
		zap.L().Error("Redis client passed to NewCustomerLock is nil")
		panic("Redis client passed to NewCustomerLock is nil")
	}

	if ttl <= 0 {
		ttl = 10 * time.Second
		zap.L().Warn("Invalid TTL provided to NewCustomerLock, defaulting", zap.Duration("default_ttl", ttl))
	}

	return &CustomerLock{client: client, ttl: ttl}
}

func key(customerID uint64) string {
	return fmt.Sprintf("issuance:lock:%d", customerID)
}

// Acquire takes the issuance lock for the customer, returning a release
// function. It fails with common.ErrIssuanceLocked when another issuance
// already holds the lock.
func (l *CustomerLock) Acquire(ctx context.Context, customerID uint64) (func(), error) {
	token := strconv.FormatInt(time.Now().UnixNano(), 10)
	lockKey := key(customerID)

	ok, err := l.client.SetNX(ctx, lockKey, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquiring issuance lock: %w", err)
	}

	if !ok {
		zap.L().Warn("Issuance lock contention",
			zap.Uint64("customer_id", customerID),
		)
		return nil, common.ErrIssuanceLocked
	}

	release := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := releaseScript.Run(releaseCtx, l.client, []string{lockKey}, token).Err(); err != nil && err != redis.Nil {
			zap.L().Error("Error releasing issuance lock",
				zap.Uint64("customer_id", customerID),
				zap.Error(err),
			)
		}
	}

	return release, nil
}
