package reservation

import (
	"context"
	"time"
)

// Repository 预占仓储接口
type Repository interface {
	// Create 创建预占
	Create(ctx context.Context, r *Reservation) error

	// FindByID 根据ID查询
	FindByID(ctx context.Context, id uint) (*Reservation, error)

	// LockByID 事务内加锁读取
	LockByID(ctx context.Context, id uint) (*Reservation, error)

	// Transition 条件更新状态:仅当当前状态等于from时生效
	// 未命中(已被其他请求流转)返回ErrInvalidTransition
	Transition(ctx context.Context, r *Reservation, from Status) error

	// ListExpired 查询已到期但仍为RESERVED的预占,按(到期时间, ID)升序
	// after不为nil时只返回排在游标之后的记录
	ListExpired(ctx context.Context, now time.Time, after *Cursor, limit int) ([]*Reservation, error)

	// ListActiveByOrder 查询订单下仍为RESERVED的预占
	ListActiveByOrder(ctx context.Context, orderID string) ([]*Reservation, error)

	// ListHeldByOrder 查询订单下RESERVED或CONFIRMED的预占(按ID升序)
	ListHeldByOrder(ctx context.Context, orderID string) ([]*Reservation, error)

	// List 分页查询
	List(ctx context.Context, params ListParams) ([]*Reservation, int64, error)
}

// Cursor 过期扫描的翻页位置
type Cursor struct {
	ExpiresAt time.Time
	ID        uint
}

// CursorOf 以r为最后一条记录的游标
func CursorOf(r *Reservation) *Cursor {
	return &Cursor{ExpiresAt: r.ExpiresAt, ID: r.ID}
}

// ListParams 预占列表查询参数
type ListParams struct {
	Page      int
	PageSize  int
	Status    Status
	OrderID   string
	ProductID string
}
