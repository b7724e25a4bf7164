package stock

import (
	"context"

	"github.com/xiebiao/stockledger/internal/domain/stock"
	apperrors "github.com/xiebiao/stockledger/pkg/errors"
)

// GetStockUseCase 查询单条库存记录
type GetStockUseCase struct {
	items stock.Repository
}

// NewGetStockUseCase 创建用例
func NewGetStockUseCase(items stock.Repository) *GetStockUseCase {
	return &GetStockUseCase{items: items}
}

// Execute 执行查询
func (uc *GetStockUseCase) Execute(ctx context.Context, id uint) (*StockItemDTO, error) {
	item, err := uc.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := ToStockItemDTO(item)
	return &dto, nil
}

// ListStockUseCase 库存列表查询用例
// 设计说明:
// 1. 状态是推导值,按状态过滤时由仓储转换为数量条件,分页总数仍然准确
// 2. LowStock=true对应GET /stock/low-stock:LOW_STOCK与OUT_OF_STOCK,与StockItem.IsLowStock一致
type ListStockUseCase struct {
	items stock.Repository
}

// NewListStockUseCase 创建用例
func NewListStockUseCase(items stock.Repository) *ListStockUseCase {
	return &ListStockUseCase{items: items}
}

// ListStockRequest 列表查询请求
type ListStockRequest struct {
	Page        int
	PageSize    int
	ProductID   string
	WarehouseID string
	SKU         string
	Status      string
	LowStock    bool
}

// Execute 执行列表查询
func (uc *ListStockUseCase) Execute(ctx context.Context, req ListStockRequest) (*PageResult[StockItemDTO], error) {
	// 1. 参数默认值与范围限制
	req.Page, req.PageSize = normalizePage(req.Page, req.PageSize)

	status := stock.Status(req.Status)
	if status != "" && !status.IsValid() {
		return nil, apperrors.WithDetailf(stock.ErrValidation, "无效的库存状态: %s", req.Status)
	}

	// 2. 查询
	items, total, err := uc.items.List(ctx, stock.ListParams{
		Page:        req.Page,
		PageSize:    req.PageSize,
		ProductID:   req.ProductID,
		WarehouseID: req.WarehouseID,
		SKU:         req.SKU,
		Status:      status,
		LowStock:    req.LowStock,
	})
	if err != nil {
		return nil, err
	}

	// 3. 转换为DTO
	list := make([]StockItemDTO, len(items))
	for i, item := range items {
		list[i] = ToStockItemDTO(item)
	}

	return &PageResult[StockItemDTO]{
		List:     list,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}
