// Package messaging 事件发布适配器
package messaging

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/stockledger/internal/application/event"
	"github.com/xiebiao/stockledger/internal/infrastructure/config"
	"github.com/xiebiao/stockledger/pkg/circuitbreaker"
	"github.com/xiebiao/stockledger/pkg/mq"
)

// publishTimeout 单条事件发布超时
const publishTimeout = 3 * time.Second

// Sender 底层消息发送(*mq.Publisher实现)
type Sender interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// EventPublisher 熔断保护的事件发布器
// 教学要点:
// 1. Broker故障时熔断器打开,后续发布直接失败返回,不再阻塞业务请求
// 2. 发布超时独立于请求ctx(请求结束后ctx已取消,但事件仍需发出)
type EventPublisher struct {
	sender  Sender
	breaker *circuitbreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewEventPublisher 创建事件发布器
func NewEventPublisher(sender Sender, breaker *circuitbreaker.CircuitBreaker, logger *zap.Logger) *EventPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if breaker == nil {
		breaker = NewBreaker(logger)
	}
	return &EventPublisher{
		sender:  sender,
		breaker: breaker,
		logger:  logger.Named("publisher"),
	}
}

// NewBreaker 创建事件发布熔断器:连续5次失败熔断30秒
func NewBreaker(logger *zap.Logger) *circuitbreaker.CircuitBreaker {
	cb := circuitbreaker.NewCircuitBreaker("event-publisher", circuitbreaker.Config{
		MaxRequests: 1,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	if logger != nil {
		cb.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
			logger.Warn("熔断器状态变化",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		})
	}
	return cb
}

// Publish 实现event.Publisher
func (p *EventPublisher) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	return p.breaker.Execute(func() error {
		return p.sender.Publish(ctx, routingKey, payload)
	})
}

// NoopPublisher 未启用消息队列时使用
type NoopPublisher struct{}

// Publish 丢弃事件
func (NoopPublisher) Publish(context.Context, string, interface{}) error { return nil }

// NewPublisher 根据配置创建事件发布器
// mq.enabled=false时返回NoopPublisher;返回的cleanup用于关闭连接
func NewPublisher(cfg *config.Config, logger *zap.Logger) (event.Publisher, func(), error) {
	if !cfg.MQ.Enabled {
		logger.Info("消息队列未启用,事件不会发布")
		return NoopPublisher{}, func() {}, nil
	}

	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, logger.Named("mq"))
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("关闭消息发布者失败", zap.Error(err))
		}
	}
	return NewEventPublisher(publisher, NewBreaker(logger), logger), cleanup, nil
}
