package stock

import (
	"context"

	"github.com/xiebiao/stockledger/internal/application/event"
	"github.com/xiebiao/stockledger/internal/domain/stock"
)

// AdjustStockUseCase 调整在库数量用例
// 教学要点:
// 1. 数量变更与流水写入由Ledger在一个事务内完成
// 2. 事件在事务提交后发布,发布失败不影响结果
type AdjustStockUseCase struct {
	ledger   *stock.Ledger
	notifier *event.Notifier
}

// NewAdjustStockUseCase 创建用例
func NewAdjustStockUseCase(ledger *stock.Ledger, notifier *event.Notifier) *AdjustStockUseCase {
	return &AdjustStockUseCase{ledger: ledger, notifier: notifier}
}

// AdjustStockRequest 调整请求
type AdjustStockRequest struct {
	StockItemID    uint
	QuantityChange int
	MovementType   string // STOCK_IN / STOCK_OUT / ADJUSTMENT,为空时为ADJUSTMENT
	Reason         string
	ReferenceType  string
	ReferenceID    string
	Actor          stock.Actor
}

// AdjustStockResponse 调整结果
type AdjustStockResponse struct {
	Item     StockItemDTO `json:"item"`
	Movement MovementDTO  `json:"movement"`
}

// Execute 执行调整
func (uc *AdjustStockUseCase) Execute(ctx context.Context, req AdjustStockRequest) (*AdjustStockResponse, error) {
	change, err := uc.ledger.Adjust(ctx, stock.AdjustCommand{
		StockItemID: req.StockItemID,
		Delta:       req.QuantityChange,
		Type:        stock.MovementType(req.MovementType),
		Reason:      req.Reason,
		Reference:   stock.Reference{Type: req.ReferenceType, ID: req.ReferenceID},
		Actor:       req.Actor,
	})
	if err != nil {
		return nil, err
	}

	uc.notifier.StockChange(ctx, change)

	return &AdjustStockResponse{
		Item:     ToStockItemDTO(&change.After),
		Movement: ToMovementDTO(&change.Movement),
	}, nil
}
