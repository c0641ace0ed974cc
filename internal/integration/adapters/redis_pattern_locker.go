package adapters

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/budget-planner/backend/internal/application/adapter"
)

const (
	lockTTL        = 10 * time.Second
	lockRetryDelay = 50 * time.Millisecond
)

// releaseScript deletes the lock only if it still holds our token, so an
// expired lock taken over by another process is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisPatternLocker implements the PatternLocker interface with a Redis
// SET NX lock per pattern identity.
type RedisPatternLocker struct {
	client *redis.Client
}

// NewRedisPatternLocker creates a new Redis-backed pattern locker.
func NewRedisPatternLocker(client *redis.Client) *RedisPatternLocker {
	return &RedisPatternLocker{
		client: client,
	}
}

// WithLock runs fn while holding the lock for key. It blocks until the lock
// is acquired or ctx is done. The lock carries a TTL so a crashed holder
// cannot block the identity forever.
func (l *RedisPatternLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	token := uuid.New().String()

	for {
		acquired, err := l.client.SetNX(ctx, key, token, lockTTL).Result()
		if err != nil {
			return fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if acquired {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockRetryDelay):
		}
	}

	defer func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err()
	}()

	return fn(ctx)
}

var _ adapter.PatternLocker = (*RedisPatternLocker)(nil)
