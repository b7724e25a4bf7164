package stock

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/stockledger/internal/domain/stock"
)

// VerifyStockUseCase 流水回放核对用例
type VerifyStockUseCase struct {
	ledger *stock.Ledger
	logger *zap.Logger
}

// NewVerifyStockUseCase 创建用例
func NewVerifyStockUseCase(ledger *stock.Ledger, logger *zap.Logger) *VerifyStockUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VerifyStockUseCase{ledger: ledger, logger: logger}
}

// VerifyStockResponse 核对结果
type VerifyStockResponse struct {
	StockItemID      uint   `json:"stockItemId"`
	Consistent       bool   `json:"consistent"`
	MovementCount    int    `json:"movementCount"`
	QuantityOnHand   int    `json:"quantityOnHand"`
	QuantityReserved int    `json:"quantityReserved"`
	ReplayedOnHand   int    `json:"replayedOnHand"`
	ReplayedReserved int    `json:"replayedReserved"`
	BrokenAt         uint   `json:"brokenAt,omitempty"`
	Problem          string `json:"problem,omitempty"`
}

// Execute 执行核对
func (uc *VerifyStockUseCase) Execute(ctx context.Context, id uint) (*VerifyStockResponse, error) {
	report, err := uc.ledger.Verify(ctx, id)
	if err != nil {
		return nil, err
	}

	if !report.Consistent {
		uc.logger.Error("库存流水核对不一致",
			zap.Uint("stock_item_id", id),
			zap.Uint("broken_at", report.BrokenAt),
			zap.String("problem", report.Problem),
			zap.Int("on_hand", report.QuantityOnHand),
			zap.Int("replayed_on_hand", report.ReplayedOnHand),
		)
	}

	return &VerifyStockResponse{
		StockItemID:      report.StockItemID,
		Consistent:       report.Consistent,
		MovementCount:    report.MovementCount,
		QuantityOnHand:   report.QuantityOnHand,
		QuantityReserved: report.QuantityReserved,
		ReplayedOnHand:   report.ReplayedOnHand,
		ReplayedReserved: report.ReplayedReserved,
		BrokenAt:         report.BrokenAt,
		Problem:          report.Problem,
	}, nil
}
