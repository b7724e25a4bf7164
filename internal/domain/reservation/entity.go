package reservation

import (
	"time"
)

// Status 预占状态
// 教学要点:
// 1. RESERVED是唯一的非终态
// 2. CONFIRMED/RELEASED/EXPIRED都是终态,不允许再流转
type Status string

const (
	StatusReserved  Status = "RESERVED"  // 已预占
	StatusConfirmed Status = "CONFIRMED" // 已确认(出库)
	StatusReleased  Status = "RELEASED"  // 已释放
	StatusExpired   Status = "EXPIRED"   // 已过期
)

// IsValid 校验状态值
func (s Status) IsValid() bool {
	switch s {
	case StatusReserved, StatusConfirmed, StatusReleased, StatusExpired:
		return true
	default:
		return false
	}
}

// IsTerminal 是否为终态
func (s Status) IsTerminal() bool {
	return s == StatusConfirmed || s == StatusReleased || s == StatusExpired
}

// 释放原因
const (
	ReasonExpired            = "expired"
	ReasonOrderCancelled     = "order_cancelled"
	ReasonOrderReserveFailed = "order_reserve_failed"
)

// transitions 合法的状态流转
var transitions = map[Status][]Status{
	StatusReserved:  {StatusConfirmed, StatusReleased, StatusExpired},
	StatusConfirmed: {},
	StatusReleased:  {},
	StatusExpired:   {},
}

// Reservation 库存预占(结账时创建的限时占用)
type Reservation struct {
	ID            uint
	OrderID       string
	ProductID     string
	StockItemID   uint
	WarehouseID   string
	Quantity      int // 预占数量
	Status        Status
	ReservedAt    time.Time
	ExpiresAt     time.Time
	ConfirmedAt   *time.Time
	ReleasedAt    *time.Time
	ReleaseReason string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// New 创建预占(工厂方法)
func New(orderID, productID, warehouseID string, stockItemID uint, quantity int, now time.Time, ttl time.Duration) *Reservation {
	return &Reservation{
		OrderID:     orderID,
		ProductID:   productID,
		StockItemID: stockItemID,
		WarehouseID: warehouseID,
		Quantity:    quantity,
		Status:      StatusReserved,
		ReservedAt:  now,
		ExpiresAt:   now.Add(ttl),
	}
}

// CanTransitionTo 检查是否可以转换到目标状态
func (r *Reservation) CanTransitionTo(target Status) bool {
	for _, allowed := range transitions[r.Status] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsExpired 是否已过期
func (r *Reservation) IsExpired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// Confirm 确认预占
func (r *Reservation) Confirm(now time.Time) error {
	if !r.CanTransitionTo(StatusConfirmed) {
		return invalidTransition(r.Status, StatusConfirmed)
	}
	r.Status = StatusConfirmed
	r.ConfirmedAt = &now
	r.UpdatedAt = now
	return nil
}

// Release 释放预占
func (r *Reservation) Release(now time.Time, reason string) error {
	if !r.CanTransitionTo(StatusReleased) {
		return invalidTransition(r.Status, StatusReleased)
	}
	r.Status = StatusReleased
	r.ReleasedAt = &now
	r.ReleaseReason = reason
	r.UpdatedAt = now
	return nil
}

// Expire 过期释放
func (r *Reservation) Expire(now time.Time) error {
	if !r.CanTransitionTo(StatusExpired) {
		return invalidTransition(r.Status, StatusExpired)
	}
	r.Status = StatusExpired
	r.ReleasedAt = &now
	r.ReleaseReason = ReasonExpired
	r.UpdatedAt = now
	return nil
}
