//go:build integration

package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("redis container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Ping(ctx).Err())
	return rdb
}

func TestIntegration_RedisLocker(t *testing.T) {
	rdb := startRedis(t)
	locker := NewRedisLocker(rdb, time.Minute)
	ctx := context.Background()

	release, err := locker.Acquire(ctx, "compatibility:a:b")
	require.NoError(t, err)

	_, err = locker.Acquire(ctx, "compatibility:a:b")
	assert.ErrorIs(t, err, ErrAnalysisInProgress)

	other, err := locker.Acquire(ctx, "compatibility:a:c")
	require.NoError(t, err)
	other()

	release()
	again, err := locker.Acquire(ctx, "compatibility:a:b")
	require.NoError(t, err)
	again()
}

func TestIntegration_RedisLocker_LeaseExpires(t *testing.T) {
	rdb := startRedis(t)
	locker := NewRedisLocker(rdb, 100*time.Millisecond)
	ctx := context.Background()

	stale, err := locker.Acquire(ctx, "roadmap:a:b")
	require.NoError(t, err)
	time.Sleep(200 * time.Millisecond)

	fresh, err := locker.Acquire(ctx, "roadmap:a:b")
	require.NoError(t, err)

	// The expired holder must not delete the new holder's lease.
	stale()
	_, err = locker.Acquire(ctx, "roadmap:a:b")
	assert.ErrorIs(t, err, ErrAnalysisInProgress)
	fresh()
}
