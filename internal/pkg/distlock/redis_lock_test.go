package distlock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRedisLock_AcquireExcludesConcurrentHolder(t *testing.T) {
	client := setupRedis(t)
	ctx := context.Background()

	first := NewRedisLock(client, "scheduler-run:acme", time.Minute)
	acquired, err := first.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, acquired)

	second := NewRedisLock(client, "scheduler-run:acme", time.Minute)
	acquired, err = second.Acquire(ctx)
	require.NoError(t, err)
	require.False(t, acquired, "a second holder must not acquire the same key")

	require.NoError(t, first.Release(ctx))

	acquired, err = second.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, acquired, "the key must be acquirable again after release")
}

func TestNewLock_PrefersRedisWhenClientProvided(t *testing.T) {
	client := setupRedis(t)
	lock := NewLock(client, nil, "scheduler-run:acme", time.Minute)

	_, ok := lock.(*RedisLock)
	require.True(t, ok, "NewLock must return a RedisLock when a redis client is supplied")
}
