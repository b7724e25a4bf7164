package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestSweepLock_MutualExclusion(t *testing.T) {
	_, client := newTestClient(t)
	ctx := context.Background()

	a := NewSweepLock(client, "stockledger:sweep", time.Minute)
	b := NewSweepLock(client, "stockledger:sweep", time.Minute)

	unlock, ok, err := a.TryLock(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	// 其他实例拿不到锁
	_, ok, err = b.TryLock(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	// 释放后可以重新获取
	require.NoError(t, unlock(ctx))
	unlockB, ok, err := b.TryLock(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, unlockB(ctx))
}

func TestSweepLock_ExpiresAndDoesNotDeleteOthers(t *testing.T) {
	mr, client := newTestClient(t)
	ctx := context.Background()

	a := NewSweepLock(client, "stockledger:sweep", time.Second)
	b := NewSweepLock(client, "stockledger:sweep", time.Minute)

	unlockA, ok, err := a.TryLock(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	// A的锁过期，B拿到锁
	mr.FastForward(2 * time.Second)
	_, ok, err = b.TryLock(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	// A迟到的释放不能删掉B的锁
	require.NoError(t, unlockA(ctx))
	assert.True(t, mr.Exists("stockledger:sweep"))
}

func TestSweepLock_RedisDown(t *testing.T) {
	mr, client := newTestClient(t)
	mr.Close()

	lock := NewSweepLock(client, "stockledger:sweep", time.Minute)
	_, ok, err := lock.TryLock(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)
}
