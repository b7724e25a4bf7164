// Package event 领域事件定义与发布端口
//
// 事件在事务提交后发布,发布失败只记录日志,不影响业务结果
package event

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xiebiao/stockledger/internal/domain/reservation"
	"github.com/xiebiao/stockledger/internal/domain/stock"
)

// 路由键
const (
	ReservationCreated   = "reservation.created"
	ReservationConfirmed = "reservation.confirmed"
	ReservationReleased  = "reservation.released"
	ReservationExpired   = "reservation.expired"
	StockAdjusted        = "stock.adjusted"
	StockStatusChanged   = "stock.status_changed"
)

// Publisher 事件发布端口
// 实现方:infrastructure/messaging(RabbitMQ)或Noop
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
}

// Envelope 事件外层结构
type Envelope struct {
	EventID    string      `json:"eventId"`
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurredAt"`
	Data       interface{} `json:"data"`
}

// ReservationEvent 预占状态变化事件
type ReservationEvent struct {
	ReservationID uint       `json:"reservationId"`
	OrderID       string     `json:"orderId"`
	ProductID     string     `json:"productId"`
	WarehouseID   string     `json:"warehouseId"`
	StockItemID   uint       `json:"stockItemId"`
	Quantity      int        `json:"quantity"`
	Status        string     `json:"status"`
	ExpiresAt     time.Time  `json:"expiresAt"`
	ConfirmedAt   *time.Time `json:"confirmedAt,omitempty"`
	ReleasedAt    *time.Time `json:"releasedAt,omitempty"`
	ReleaseReason string     `json:"releaseReason,omitempty"`
}

// NewReservationEvent 从预占实体构造事件
func NewReservationEvent(r *reservation.Reservation) ReservationEvent {
	return ReservationEvent{
		ReservationID: r.ID,
		OrderID:       r.OrderID,
		ProductID:     r.ProductID,
		WarehouseID:   r.WarehouseID,
		StockItemID:   r.StockItemID,
		Quantity:      r.Quantity,
		Status:        string(r.Status),
		ExpiresAt:     r.ExpiresAt,
		ConfirmedAt:   r.ConfirmedAt,
		ReleasedAt:    r.ReleasedAt,
		ReleaseReason: r.ReleaseReason,
	}
}

// StockAdjustedEvent 在库数量调整事件
type StockAdjustedEvent struct {
	StockItemID    uint   `json:"stockItemId"`
	ProductID      string `json:"productId"`
	WarehouseID    string `json:"warehouseId"`
	MovementID     uint   `json:"movementId"`
	MovementType   string `json:"movementType"`
	QuantityChange int    `json:"quantityChange"`
	QuantityOnHand int    `json:"quantityOnHand"`
	Available      int    `json:"quantityAvailable"`
	Reason         string `json:"reason,omitempty"`
	ActorType      string `json:"actorType"`
	ActorID        string `json:"actorId"`
}

// StockStatusChangedEvent 库存展示状态变化事件(如进入LOW_STOCK/OUT_OF_STOCK)
type StockStatusChangedEvent struct {
	StockItemID uint   `json:"stockItemId"`
	ProductID   string `json:"productId"`
	WarehouseID string `json:"warehouseId"`
	From        string `json:"from"`
	To          string `json:"to"`
	Available   int    `json:"quantityAvailable"`
	Threshold   int    `json:"lowStockThreshold"`
}

// Notifier 尽力而为的事件通知器
// 教学要点:
// 1. 业务已经提交,事件发布失败不能让调用方看到错误
// 2. 失败只打WARN日志,由下游对账或重放补齐
type Notifier struct {
	publisher Publisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewNotifier 创建通知器;publisher为nil时不发布
func NewNotifier(publisher Publisher, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{
		publisher: publisher,
		logger:    logger.Named("event"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Emit 发布一个事件
func (n *Notifier) Emit(ctx context.Context, routingKey string, data interface{}) {
	if n == nil || n.publisher == nil {
		return
	}

	envelope := Envelope{
		EventID:    uuid.NewString(),
		Type:       routingKey,
		OccurredAt: n.now(),
		Data:       data,
	}
	if err := n.publisher.Publish(ctx, routingKey, envelope); err != nil {
		n.logger.Warn("事件发布失败",
			zap.String("routing_key", routingKey),
			zap.String("event_id", envelope.EventID),
			zap.Error(err),
		)
	}
}

// Reservation 发布预占事件
func (n *Notifier) Reservation(ctx context.Context, routingKey string, r *reservation.Reservation) {
	n.Emit(ctx, routingKey, NewReservationEvent(r))
}

// StockChange 根据账本变更发布状态变化事件
// 调整类变更(STOCK_IN/STOCK_OUT/ADJUSTMENT)额外发布stock.adjusted
func (n *Notifier) StockChange(ctx context.Context, change *stock.Change) {
	if change == nil {
		return
	}

	switch change.Movement.Type {
	case stock.MovementStockIn, stock.MovementStockOut, stock.MovementAdjustment:
		n.Emit(ctx, StockAdjusted, StockAdjustedEvent{
			StockItemID:    change.After.ID,
			ProductID:      change.After.ProductID,
			WarehouseID:    change.After.WarehouseID,
			MovementID:     change.Movement.ID,
			MovementType:   string(change.Movement.Type),
			QuantityChange: change.Movement.QuantityChange,
			QuantityOnHand: change.After.QuantityOnHand,
			Available:      change.After.Available(),
			Reason:         change.Movement.Note,
			ActorType:      change.Movement.ActorType,
			ActorID:        change.Movement.ActorID,
		})
	}

	if change.StatusChanged() {
		n.Emit(ctx, StockStatusChanged, StockStatusChangedEvent{
			StockItemID: change.After.ID,
			ProductID:   change.After.ProductID,
			WarehouseID: change.After.WarehouseID,
			From:        string(change.Before.Status()),
			To:          string(change.After.Status()),
			Available:   change.After.Available(),
			Threshold:   change.After.LowStockThreshold,
		})
	}
}
