package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Locker serializes work on a key across replicas. Acquire returns
// ErrAnalysisInProgress when another holder has the key.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// NopLocker always succeeds. Single-replica deployments rely on KeyedGroup
// and the storage uniqueness constraints alone.
type NopLocker struct{}

func (NopLocker) Acquire(context.Context, string) (func(), error) {
	return func() {}, nil
}

// releaseScript deletes the lease only if it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker holds a SET NX PX lease per key. The TTL bounds how long a
// crashed holder can block the key.
type RedisLocker struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisLocker creates a locker with the given lease TTL.
func NewRedisLocker(rdb *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{rdb: rdb, ttl: ttl, prefix: "cg:lock:"}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	lockKey := l.prefix + key

	ok, err := l.rdb.SetNX(ctx, lockKey, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, ErrAnalysisInProgress
	}

	release := func() {
		// The caller's context may already be done; release on a fresh one.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, l.rdb, []string{lockKey}, token).Err(); err != nil && err != redis.Nil {
			slog.Warn("failed to release lock", slog.String("key", key), slog.Any("error", err))
		}
	}
	return release, nil
}
