package videos

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a two-tier lookup cache: L1 in memory, L2 in Redis when configured.
// L1 is lost on restart; L2 is shared by all replicas.
type Cache struct {
	l1  sync.Map // key -> cacheEntry
	rdb *redis.Client
	ttl time.Duration
	now func() time.Time
}

type cacheEntry struct {
	value     string
	expiresAt time.Time
}

// NewCache creates a cache. rdb may be nil to disable L2.
func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl, now: time.Now}
}

// Key builds a deterministic cache key from a search query.
func Key(query string) string {
	hash := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(query))))
	return fmt.Sprintf("cg:yt:%x", hash[:12])
}

// Get tries L1, then L2. An L2 hit populates L1.
func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	if c == nil {
		return "", false
	}

	if val, ok := c.l1.Load(key); ok {
		entry := val.(cacheEntry)
		if c.now().Before(entry.expiresAt) {
			return entry.value, true
		}
		c.l1.Delete(key)
	}

	if c.rdb != nil {
		value, err := c.rdb.Get(ctx, key).Result()
		if err == nil {
			c.l1.Store(key, cacheEntry{value: value, expiresAt: c.now().Add(c.ttl)})
			return value, true
		}
		if err != redis.Nil {
			slog.Debug("video cache: L2 get failed", slog.Any("error", err))
		}
	}
	return "", false
}

// Set stores value in both tiers. L2 failures are logged and ignored.
func (c *Cache) Set(ctx context.Context, key, value string) {
	if c == nil {
		return
	}

	c.l1.Store(key, cacheEntry{value: value, expiresAt: c.now().Add(c.ttl)})

	if c.rdb != nil {
		if err := c.rdb.Set(ctx, key, value, c.ttl).Err(); err != nil {
			slog.Debug("video cache: L2 set failed", slog.Any("error", err))
		}
	}
}
