package stock

import (
	"context"

	"github.com/xiebiao/stockledger/internal/domain/stock"
	apperrors "github.com/xiebiao/stockledger/pkg/errors"
)

// ListMovementsUseCase 审计流水查询用例(按时间倒序)
type ListMovementsUseCase struct {
	items     stock.Repository
	movements stock.MovementRepository
}

// NewListMovementsUseCase 创建用例
func NewListMovementsUseCase(items stock.Repository, movements stock.MovementRepository) *ListMovementsUseCase {
	return &ListMovementsUseCase{items: items, movements: movements}
}

// ListMovementsRequest 查询请求
type ListMovementsRequest struct {
	Page         int
	PageSize     int
	StockItemID  uint // GET /stock/{id}/movements
	MovementType string
	ProductID    string
	WarehouseID  string
}

// Execute 执行查询
func (uc *ListMovementsUseCase) Execute(ctx context.Context, req ListMovementsRequest) (*PageResult[MovementDTO], error) {
	req.Page, req.PageSize = normalizePage(req.Page, req.PageSize)

	movementType := stock.MovementType(req.MovementType)
	if movementType != "" && !movementType.IsValid() {
		return nil, apperrors.WithDetailf(stock.ErrValidation, "无效的流水类型: %s", req.MovementType)
	}

	// 按库存记录查询时,记录不存在返回404而不是空列表
	if req.StockItemID != 0 {
		if _, err := uc.items.FindByID(ctx, req.StockItemID); err != nil {
			return nil, err
		}
	}

	movements, total, err := uc.movements.List(ctx, stock.MovementListParams{
		Page:         req.Page,
		PageSize:     req.PageSize,
		StockItemID:  req.StockItemID,
		MovementType: movementType,
		ProductID:    req.ProductID,
		WarehouseID:  req.WarehouseID,
	})
	if err != nil {
		return nil, err
	}

	list := make([]MovementDTO, len(movements))
	for i, m := range movements {
		list[i] = ToMovementDTO(m)
	}

	return &PageResult[MovementDTO]{
		List:     list,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}
