package stock

import (
	"time"

	"github.com/xiebiao/stockledger/internal/domain/stock"
)

// timeLayout 响应中的时间格式(UTC, RFC3339)
const timeLayout = time.RFC3339

// StockItemDTO 库存记录响应DTO
// 可用数量与状态在读取时由数量推导
type StockItemDTO struct {
	ID                uint   `json:"id"`
	ProductID         string `json:"productId"`
	VendorID          string `json:"vendorId"`
	WarehouseID       string `json:"warehouseId"`
	SKU               string `json:"sku"`
	QuantityOnHand    int    `json:"quantityOnHand"`
	QuantityReserved  int    `json:"quantityReserved"`
	QuantityAvailable int    `json:"quantityAvailable"`
	LowStockThreshold int    `json:"lowStockThreshold"`
	Backorderable     bool   `json:"backorderable"`
	StockStatus       string `json:"stockStatus"`
	Version           int64  `json:"version"`
	CreatedAt         string `json:"createdAt"`
	UpdatedAt         string `json:"updatedAt"`
}

// ToStockItemDTO 实体转DTO
func ToStockItemDTO(item *stock.StockItem) StockItemDTO {
	return StockItemDTO{
		ID:                item.ID,
		ProductID:         item.ProductID,
		VendorID:          item.VendorID,
		WarehouseID:       item.WarehouseID,
		SKU:               item.SKU,
		QuantityOnHand:    item.QuantityOnHand,
		QuantityReserved:  item.QuantityReserved,
		QuantityAvailable: item.Available(),
		LowStockThreshold: item.LowStockThreshold,
		Backorderable:     item.Backorderable,
		StockStatus:       string(item.Status()),
		Version:           item.Version,
		CreatedAt:         formatTime(item.CreatedAt),
		UpdatedAt:         formatTime(item.UpdatedAt),
	}
}

// MovementDTO 库存流水响应DTO
type MovementDTO struct {
	ID             uint   `json:"id"`
	StockItemID    uint   `json:"stockItemId"`
	ProductID      string `json:"productId"`
	WarehouseID    string `json:"warehouseId"`
	MovementType   string `json:"movementType"`
	Dimension      string `json:"dimension"`
	QuantityChange int    `json:"quantityChange"`
	QuantityBefore int    `json:"quantityBefore"`
	QuantityAfter  int    `json:"quantityAfter"`
	ReservedBefore int    `json:"reservedBefore"`
	ReservedAfter  int    `json:"reservedAfter"`
	ReferenceType  string `json:"referenceType,omitempty"`
	ReferenceID    string `json:"referenceId,omitempty"`
	ActorType      string `json:"actorType"`
	ActorID        string `json:"actorId"`
	Note           string `json:"note,omitempty"`
	CreatedAt      string `json:"createdAt"`
}

// ToMovementDTO 实体转DTO
func ToMovementDTO(m *stock.Movement) MovementDTO {
	return MovementDTO{
		ID:             m.ID,
		StockItemID:    m.StockItemID,
		ProductID:      m.ProductID,
		WarehouseID:    m.WarehouseID,
		MovementType:   string(m.Type),
		Dimension:      string(m.Type.Dimension()),
		QuantityChange: m.QuantityChange,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
		ReservedBefore: m.ReservedBefore,
		ReservedAfter:  m.ReservedAfter,
		ReferenceType:  m.ReferenceType,
		ReferenceID:    m.ReferenceID,
		ActorType:      m.ActorType,
		ActorID:        m.ActorID,
		Note:           m.Note,
		CreatedAt:      formatTime(m.CreatedAt),
	}
}

// PageResult 分页结果
type PageResult[T any] struct {
	List     []T
	Total    int64
	Page     int
	PageSize int
}

// normalizePage 分页参数默认值与范围限制(page默认1, pageSize默认20, 最大100)
func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}
