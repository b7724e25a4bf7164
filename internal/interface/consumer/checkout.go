// Package consumer 消费结算服务发来的预占命令
package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	appreservation "github.com/xiebiao/stockledger/internal/application/reservation"
	"github.com/xiebiao/stockledger/internal/domain/stock"
	apperrors "github.com/xiebiao/stockledger/pkg/errors"
	"github.com/xiebiao/stockledger/pkg/mq"
)

// 结算命令路由键
const (
	KeyReserve      = "checkout.reserve"
	KeyCommit       = "checkout.commit"
	KeyRelease      = "checkout.release"
	KeyReleaseOrder = "checkout.release_order"
)

// checkoutActor 通过消息队列操作时记录的操作人
var checkoutActor = stock.Actor{Type: "ORDER_SERVICE", ID: "checkout-mq"}

// ReserveCommand checkout.reserve 消息体
type ReserveCommand struct {
	OrderID    string        `json:"orderId"`
	Lines      []ReserveLine `json:"lines"`
	TTLSeconds int           `json:"ttlSeconds"`
}

// ReserveLine 预占行
type ReserveLine struct {
	ProductID   string `json:"productId"`
	WarehouseID string `json:"warehouseId"`
	Quantity    int    `json:"quantity"`
}

// ReservationCommand checkout.commit / checkout.release 消息体
type ReservationCommand struct {
	ReservationID uint   `json:"reservationId"`
	Reason        string `json:"reason"`
}

// OrderCommand checkout.release_order 消息体
type OrderCommand struct {
	OrderID string `json:"orderId"`
	Reason  string `json:"reason"`
}

// errMalformed 消息无法解析
var errMalformed = errors.New("malformed checkout command")

// CheckoutConsumer 结算命令消费者
//
// 确认策略：
// 1. 消息格式错误：记录日志后确认丢弃（重投也不会成功）
// 2. 业务拒绝（库存不足、状态非法、记录不存在）：确认，结算服务通过事件得知结果
// 3. 并发冲突、数据库等基础设施错误：返回错误，首次重新入队
type CheckoutConsumer struct {
	manager *appreservation.Manager
	logger  *zap.Logger
}

// NewCheckoutConsumer 创建结算命令消费者
func NewCheckoutConsumer(manager *appreservation.Manager, logger *zap.Logger) *CheckoutConsumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutConsumer{manager: manager, logger: logger.Named("checkout-consumer")}
}

// Run 阻塞消费直到ctx取消
func (c *CheckoutConsumer) Run(ctx context.Context, consumer *mq.Consumer) error {
	return consumer.Consume(ctx, c.Handle)
}

// Handle 处理单条消息，返回nil表示确认
func (c *CheckoutConsumer) Handle(ctx context.Context, msg mq.Message) error {
	log := c.logger.With(zap.String("routing_key", msg.RoutingKey), zap.String("message_id", msg.MessageID))

	err := c.dispatch(ctx, msg)
	switch {
	case err == nil:
		log.Debug("结算命令处理成功")
		return nil
	case errors.Is(err, errMalformed):
		log.Warn("结算命令格式错误，丢弃", zap.Error(err))
		return nil
	case retryable(err):
		return err
	default:
		log.Info("结算命令被业务拒绝", zap.Error(err))
		return nil
	}
}

func (c *CheckoutConsumer) dispatch(ctx context.Context, msg mq.Message) error {
	switch msg.RoutingKey {
	case KeyReserve:
		var cmd ReserveCommand
		if err := decode(msg.Body, &cmd); err != nil {
			return err
		}
		lines := make([]appreservation.OrderLine, len(cmd.Lines))
		for i, l := range cmd.Lines {
			lines[i] = appreservation.OrderLine{ProductID: l.ProductID, WarehouseID: l.WarehouseID, Quantity: l.Quantity}
		}
		_, err := c.manager.ReserveOrder(ctx, appreservation.ReserveOrderCommand{
			OrderID: cmd.OrderID,
			Lines:   lines,
			TTL:     time.Duration(cmd.TTLSeconds) * time.Second,
			Actor:   checkoutActor,
		})
		return err

	case KeyCommit:
		var cmd ReservationCommand
		if err := decode(msg.Body, &cmd); err != nil {
			return err
		}
		_, err := c.manager.Commit(ctx, cmd.ReservationID, checkoutActor)
		return err

	case KeyRelease:
		var cmd ReservationCommand
		if err := decode(msg.Body, &cmd); err != nil {
			return err
		}
		_, err := c.manager.Release(ctx, cmd.ReservationID, cmd.Reason, checkoutActor)
		return err

	case KeyReleaseOrder:
		var cmd OrderCommand
		if err := decode(msg.Body, &cmd); err != nil {
			return err
		}
		_, err := c.manager.ReleaseOrder(ctx, cmd.OrderID, cmd.Reason, checkoutActor)
		return err

	default:
		return fmt.Errorf("%w: unknown routing key %q", errMalformed, msg.RoutingKey)
	}
}

func decode(body []byte, v interface{}) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}
	return nil
}

// retryable 并发冲突与非业务错误需要重投
func retryable(err error) bool {
	if errors.Is(err, stock.ErrConcurrentModification) {
		return true
	}
	return !apperrors.IsClientError(err)
}
