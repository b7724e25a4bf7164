package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/stockledger/internal/infrastructure/config"
	"github.com/xiebiao/stockledger/pkg/circuitbreaker"
)

type fakeSender struct {
	calls  int
	err    error
	ctx    context.Context
	ctxErr error // 调用时ctx的状态，Publish返回后超时ctx已被cancel
}

func (s *fakeSender) Publish(ctx context.Context, _ string, _ interface{}) error {
	s.calls++
	s.ctx = ctx
	s.ctxErr = ctx.Err()
	return s.err
}

func TestEventPublisher_Success(t *testing.T) {
	sender := &fakeSender{}
	p := NewEventPublisher(sender, nil, zap.NewNop())

	require.NoError(t, p.Publish(context.Background(), "stock.adjusted", map[string]int{"a": 1}))
	assert.Equal(t, 1, sender.calls)

	_, hasDeadline := sender.ctx.Deadline()
	assert.True(t, hasDeadline, "发布应带超时")
}

func TestEventPublisher_CanceledRequestContextStillPublishes(t *testing.T) {
	sender := &fakeSender{}
	p := NewEventPublisher(sender, nil, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, p.Publish(ctx, "reservation.created", nil))
	require.Equal(t, 1, sender.calls)
	assert.NoError(t, sender.ctxErr, "请求ctx取消不应影响事件发布")
}

func TestEventPublisher_BreakerOpens(t *testing.T) {
	sender := &fakeSender{err: errors.New("broker down")}
	cb := circuitbreaker.NewCircuitBreaker("test", circuitbreaker.Config{
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(c circuitbreaker.Counts) bool { return c.ConsecutiveFailures >= 2 },
	})
	p := NewEventPublisher(sender, cb, zap.NewNop())

	for i := 0; i < 2; i++ {
		assert.Error(t, p.Publish(context.Background(), "stock.adjusted", nil))
	}

	err := p.Publish(context.Background(), "stock.adjusted", nil)
	assert.ErrorIs(t, err, circuitbreaker.ErrOpenState)
	assert.Equal(t, 2, sender.calls, "熔断后不应再调用broker")
}

func TestNewPublisher_Disabled(t *testing.T) {
	cfg := &config.Config{MQ: config.MQConfig{Enabled: false}}

	p, cleanup, err := NewPublisher(cfg, zap.NewNop())
	require.NoError(t, err)
	defer cleanup()

	assert.IsType(t, NoopPublisher{}, p)
	assert.NoError(t, p.Publish(context.Background(), "any", nil))
}
