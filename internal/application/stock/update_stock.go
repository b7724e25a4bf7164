package stock

import (
	"context"

	"github.com/xiebiao/stockledger/internal/application/event"
	"github.com/xiebiao/stockledger/internal/domain/stock"
)

// UpdateStockUseCase 更新SKU/低库存阈值/可预订标记
// 在库数量不能通过此用例修改,必须走Adjust
type UpdateStockUseCase struct {
	ledger   *stock.Ledger
	items    stock.Repository
	notifier *event.Notifier
}

// NewUpdateStockUseCase 创建用例
func NewUpdateStockUseCase(ledger *stock.Ledger, items stock.Repository, notifier *event.Notifier) *UpdateStockUseCase {
	return &UpdateStockUseCase{ledger: ledger, items: items, notifier: notifier}
}

// UpdateStockRequest 更新请求(nil字段不修改)
type UpdateStockRequest struct {
	ID                uint
	SKU               *string
	LowStockThreshold *int
	Backorderable     *bool
}

// Execute 执行更新
func (uc *UpdateStockUseCase) Execute(ctx context.Context, req UpdateStockRequest) (*StockItemDTO, error) {
	before, err := uc.items.FindByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	item, err := uc.ledger.UpdateAttributes(ctx, req.ID, stock.AttributeUpdate{
		SKU:               req.SKU,
		LowStockThreshold: req.LowStockThreshold,
		Backorderable:     req.Backorderable,
	})
	if err != nil {
		return nil, err
	}

	// 阈值或可预订标记变化也可能改变展示状态
	uc.notifier.StockChange(ctx, &stock.Change{Before: *before, After: *item})

	dto := ToStockItemDTO(item)
	return &dto, nil
}
