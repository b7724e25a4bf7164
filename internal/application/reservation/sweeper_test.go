package reservation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appreservation "github.com/xiebiao/stockledger/internal/application/reservation"
	"github.com/xiebiao/stockledger/internal/domain/reservation"
	"github.com/xiebiao/stockledger/internal/infrastructure/persistence/redis"
)

type stubLock struct {
	ok       bool
	err      error
	unlocked int
}

func (l *stubLock) TryLock(context.Context) (func(context.Context) error, bool, error) {
	if l.err != nil || !l.ok {
		return nil, false, l.err
	}
	return func(context.Context) error {
		l.unlocked++
		return nil
	}, true, nil
}

func expiredReservation(t *testing.T, e *env) *reservation.Reservation {
	t.Helper()
	e.stockItem(t, "P1", 10, 2, false)
	r, err := e.reserve(context.Background(), "O1", "P1", 1, time.Millisecond)
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)
	return r
}

func TestSweeper_RunOnce(t *testing.T) {
	tests := []struct {
		name     string
		lock     *stubLock
		expected int
	}{
		{"无锁直接扫描", nil, 1},
		{"抢到锁", &stubLock{ok: true}, 1},
		{"其他副本持有锁", &stubLock{ok: false}, 0},
		{"Redis故障跳过", &stubLock{err: errors.New("redis down")}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			r := expiredReservation(t, e)

			var lock appreservation.LeaderLock
			if tt.lock != nil {
				lock = tt.lock
			}
			sweeper := appreservation.NewSweeper(e.manager, time.Hour, lock, zap.NewNop())

			assert.Equal(t, tt.expected, sweeper.RunOnce(context.Background()))

			stored, err := e.manager.Get(context.Background(), r.ID)
			require.NoError(t, err)
			if tt.expected == 1 {
				assert.Equal(t, reservation.StatusExpired, stored.Status)
			} else {
				assert.Equal(t, reservation.StatusReserved, stored.Status)
			}
			if tt.lock != nil && tt.lock.ok {
				assert.Equal(t, 1, tt.lock.unlocked)
			}
		})
	}
}

func TestSweeper_StartStopsOnCancel(t *testing.T) {
	e := newEnv(t)
	r := expiredReservation(t, e)

	sweeper := appreservation.NewSweeper(e.manager, 10*time.Millisecond, nil, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	sweeper.Start(ctx)

	assert.Eventually(t, func() bool {
		stored, err := e.manager.Get(context.Background(), r.ID)
		return err == nil && stored.Status == reservation.StatusExpired
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	done := make(chan struct{})
	go func() {
		sweeper.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper未在取消后退出")
	}
}

func TestSweeper_WithRedisLock(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	e := newEnv(t)
	expiredReservation(t, e)

	// 另一个副本持有锁
	other := redis.NewSweepLock(client, "stockledger:sweep", time.Minute)
	unlock, ok, err := other.TryLock(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	lock := redis.NewSweepLock(client, "stockledger:sweep", time.Minute)
	sweeper := appreservation.NewSweeper(e.manager, time.Hour, lock, zap.NewNop())
	assert.Zero(t, sweeper.RunOnce(context.Background()))

	require.NoError(t, unlock(context.Background()))
	assert.Equal(t, 1, sweeper.RunOnce(context.Background()))
	assert.False(t, mr.Exists("stockledger:sweep"), "扫描结束后释放锁")
}
