package stock

import (
	"context"

	"github.com/xiebiao/stockledger/internal/application/event"
	"github.com/xiebiao/stockledger/internal/domain/stock"
)

// CreateStockUseCase 创建库存记录用例
// 初始数量>0时同一事务写入STOCK_IN流水
type CreateStockUseCase struct {
	ledger   *stock.Ledger
	notifier *event.Notifier
}

// NewCreateStockUseCase 创建用例
func NewCreateStockUseCase(ledger *stock.Ledger, notifier *event.Notifier) *CreateStockUseCase {
	return &CreateStockUseCase{ledger: ledger, notifier: notifier}
}

// CreateStockRequest 创建请求
type CreateStockRequest struct {
	ProductID         string
	VendorID          string
	WarehouseID       string
	SKU               string
	QuantityOnHand    int
	LowStockThreshold *int
	Backorderable     bool
	Actor             stock.Actor
}

// Execute 执行创建
func (uc *CreateStockUseCase) Execute(ctx context.Context, req CreateStockRequest) (*StockItemDTO, error) {
	item, err := uc.ledger.Create(ctx, stock.CreateCommand{
		ProductID:         req.ProductID,
		VendorID:          req.VendorID,
		WarehouseID:       req.WarehouseID,
		SKU:               req.SKU,
		Quantity:          req.QuantityOnHand,
		LowStockThreshold: req.LowStockThreshold,
		Backorderable:     req.Backorderable,
		Source:            stock.MovementStockIn,
		Actor:             req.Actor,
	})
	if err != nil {
		return nil, err
	}

	// 新建即处于低库存/缺货时通知下游
	if item.IsLowStock() {
		uc.notifier.Emit(ctx, event.StockStatusChanged, event.StockStatusChangedEvent{
			StockItemID: item.ID,
			ProductID:   item.ProductID,
			WarehouseID: item.WarehouseID,
			To:          string(item.Status()),
			Available:   item.Available(),
			Threshold:   item.LowStockThreshold,
		})
	}

	dto := ToStockItemDTO(item)
	return &dto, nil
}
