package stock

import (
	"time"
)

// StockItem 库存记录实体(聚合根)
// 教学要点:
// 1. 一个(商品, 仓库)组合对应一条记录
// 2. QuantityOnHand/QuantityReserved只能由Ledger修改,其他组件只读
// 3. Version是乐观锁版本号,每次写入+1
// 4. 可用数量与状态都是推导值,不落库
type StockItem struct {
	ID                uint
	ProductID         string // 商品ID
	VendorID          string // 商家ID
	WarehouseID       string // 仓库ID
	SKU               string
	QuantityOnHand    int   // 在库数量(>=0)
	QuantityReserved  int   // 已预占数量(>=0,等于所有有效预占之和)
	LowStockThreshold int   // 低库存阈值
	Backorderable     bool  // 是否允许缺货预订
	Version           int64 // 乐观锁版本号
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Available 可用数量 = 在库 - 已预占
// 注意:仅当Backorderable=true时允许为负数
func (s *StockItem) Available() int {
	return s.QuantityOnHand - s.QuantityReserved
}

// Status 读取时实时计算展示状态
func (s *StockItem) Status() Status {
	return Classify(s.Available(), s.LowStockThreshold, s.Backorderable)
}

// CanReserve 检查是否可以预占指定数量
func (s *StockItem) CanReserve(quantity int) bool {
	return s.Backorderable || s.Available() >= quantity
}

// IsLowStock 是否处于低库存或缺货(用于告警)
func (s *StockItem) IsLowStock() bool {
	switch s.Status() {
	case StatusLowStock, StatusOutOfStock:
		return true
	default:
		return false
	}
}

// Change 一次账本变更的结果
// Before/After是变更前后的快照,Movement是同一事务内写入的流水
type Change struct {
	Before   StockItem
	After    StockItem
	Movement Movement
}

// StatusChanged 变更是否导致展示状态变化(用于发布状态变更事件)
func (c *Change) StatusChanged() bool {
	return c.Before.Status() != c.After.Status()
}
