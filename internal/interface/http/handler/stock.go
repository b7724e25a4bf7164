package handler

import (
	"github.com/gin-gonic/gin"

	appstock "github.com/xiebiao/stockledger/internal/application/stock"
	"github.com/xiebiao/stockledger/internal/domain/stock"
	"github.com/xiebiao/stockledger/internal/interface/http/dto"
	"github.com/xiebiao/stockledger/internal/interface/http/middleware"
	"github.com/xiebiao/stockledger/pkg/response"
)

// StockHandler 库存HTTP处理器
type StockHandler struct {
	createUseCase *appstock.CreateStockUseCase
	updateUseCase *appstock.UpdateStockUseCase
	adjustUseCase *appstock.AdjustStockUseCase
	getUseCase    *appstock.GetStockUseCase
	listUseCase   *appstock.ListStockUseCase
	importUseCase *appstock.BulkImportUseCase
	verifyUseCase *appstock.VerifyStockUseCase
}

// NewStockHandler 创建库存处理器
func NewStockHandler(
	createUseCase *appstock.CreateStockUseCase,
	updateUseCase *appstock.UpdateStockUseCase,
	adjustUseCase *appstock.AdjustStockUseCase,
	getUseCase *appstock.GetStockUseCase,
	listUseCase *appstock.ListStockUseCase,
	importUseCase *appstock.BulkImportUseCase,
	verifyUseCase *appstock.VerifyStockUseCase,
) *StockHandler {
	return &StockHandler{
		createUseCase: createUseCase,
		updateUseCase: updateUseCase,
		adjustUseCase: adjustUseCase,
		getUseCase:    getUseCase,
		listUseCase:   listUseCase,
		importUseCase: importUseCase,
		verifyUseCase: verifyUseCase,
	}
}

// ListStock 库存列表
// @Summary      库存列表
// @Description  分页查询库存记录,可按商品、仓库、SKU、状态过滤
// @Tags         库存
// @Produce      json
// @Param        page        query int    false "页码" default(1)
// @Param        pageSize    query int    false "每页条数" default(20)
// @Param        productId   query string false "商品ID"
// @Param        warehouseId query string false "仓库ID"
// @Param        sku         query string false "SKU"
// @Param        status      query string false "库存状态" Enums(IN_STOCK, LOW_STOCK, OUT_OF_STOCK, BACKORDER)
// @Success      200 {object} response.Response{data=response.PageData{list=[]appstock.StockItemDTO}}
// @Failure      400 {object} response.Response "参数错误"
// @Router       /api/v1/stock [get]
func (h *StockHandler) ListStock(c *gin.Context) {
	h.list(c, false)
}

// ListLowStock 低库存列表
// @Summary      低库存列表
// @Description  低库存或缺货的记录(可预订的记录不在其中)
// @Tags         库存
// @Produce      json
// @Param        page        query int    false "页码" default(1)
// @Param        pageSize    query int    false "每页条数" default(20)
// @Param        productId   query string false "商品ID"
// @Param        warehouseId query string false "仓库ID"
// @Success      200 {object} response.Response{data=response.PageData{list=[]appstock.StockItemDTO}}
// @Router       /api/v1/stock/low-stock [get]
func (h *StockHandler) ListLowStock(c *gin.Context) {
	h.list(c, true)
}

func (h *StockHandler) list(c *gin.Context, lowStock bool) {
	var q dto.ListStockQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), appstock.ListStockRequest{
		Page:        q.Page,
		PageSize:    q.PageSize,
		ProductID:   q.ProductID,
		WarehouseID: q.WarehouseID,
		SKU:         q.SKU,
		Status:      q.Status,
		LowStock:    lowStock,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.PageSize)
}

// GetStock 库存详情
// @Summary      库存详情
// @Tags         库存
// @Produce      json
// @Param        id path int true "库存记录ID"
// @Success      200 {object} response.Response{data=appstock.StockItemDTO}
// @Failure      404 {object} response.Response "库存记录不存在"
// @Router       /api/v1/stock/{id} [get]
func (h *StockHandler) GetStock(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	item, err := h.getUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, item)
}

// CreateStock 创建库存记录
// @Summary      创建库存记录
// @Description  为(商品,仓库)创建库存记录,初始数量写入一条STOCK_IN流水
// @Tags         库存
// @Accept       json
// @Produce      json
// @Param        X-Actor-Type header string false "操作人类型" default(ADMIN)
// @Param        X-Actor-Id   header string false "操作人ID"
// @Param        request body dto.CreateStockRequest true "库存信息"
// @Success      200 {object} response.Response{data=appstock.StockItemDTO}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      409 {object} response.Response "记录已存在"
// @Router       /api/v1/stock [post]
func (h *StockHandler) CreateStock(c *gin.Context) {
	// 1. 参数绑定与验证
	var req dto.CreateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	// 2. 调用应用层用例
	item, err := h.createUseCase.Execute(c.Request.Context(), appstock.CreateStockRequest{
		ProductID:         req.ProductID,
		VendorID:          req.VendorID,
		WarehouseID:       req.WarehouseID,
		SKU:               req.SKU,
		QuantityOnHand:    req.QuantityOnHand,
		LowStockThreshold: req.LowStockThreshold,
		Backorderable:     req.Backorderable,
		Actor:             middleware.GetActor(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, item)
}

// UpdateStock 更新库存属性
// @Summary      更新库存属性
// @Description  只修改SKU、低库存阈值、是否可预订,不修改数量
// @Tags         库存
// @Accept       json
// @Produce      json
// @Param        id path int true "库存记录ID"
// @Param        request body dto.UpdateStockRequest true "更新内容"
// @Success      200 {object} response.Response{data=appstock.StockItemDTO}
// @Failure      404 {object} response.Response "库存记录不存在"
// @Router       /api/v1/stock/{id} [put]
func (h *StockHandler) UpdateStock(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	item, err := h.updateUseCase.Execute(c.Request.Context(), appstock.UpdateStockRequest{
		ID:                id,
		SKU:               req.SKU,
		LowStockThreshold: req.LowStockThreshold,
		Backorderable:     req.Backorderable,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, item)
}

// AdjustStock 库存调整
// @Summary      库存调整
// @Description  入库/出库/盘点调整,每次调整写入一条流水
// @Tags         库存
// @Accept       json
// @Produce      json
// @Param        X-Actor-Type header string false "操作人类型" default(ADMIN)
// @Param        X-Actor-Id   header string false "操作人ID"
// @Param        id path int true "库存记录ID"
// @Param        request body dto.AdjustStockRequest true "调整内容"
// @Success      200 {object} response.Response{data=appstock.AdjustStockResponse}
// @Failure      400 {object} response.Response "调整非法(在库数量不能为负)"
// @Failure      404 {object} response.Response "库存记录不存在"
// @Router       /api/v1/stock/{id}/adjust [post]
func (h *StockHandler) AdjustStock(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.adjustUseCase.Execute(c.Request.Context(), appstock.AdjustStockRequest{
		StockItemID:    id,
		QuantityChange: req.QuantityChange,
		MovementType:   req.MovementType,
		Reason:         req.Reason,
		ReferenceType:  req.ReferenceType,
		ReferenceID:    req.ReferenceID,
		Actor:          middleware.GetActor(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// BulkImport 批量导入
// @Summary      批量导入库存
// @Description  按(商品,仓库)逐行新建或更新,单行失败记入errors,不影响其他行
// @Tags         库存
// @Accept       json
// @Produce      json
// @Param        request body dto.BulkImportRequest true "导入数据(最多1000行)"
// @Success      200 {object} response.Response{data=appstock.BulkImportResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Router       /api/v1/stock/bulk-import [post]
func (h *StockHandler) BulkImport(c *gin.Context) {
	var req dto.BulkImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	rows := make([]stock.BulkRow, len(req.Items))
	for i, item := range req.Items {
		rows[i] = stock.BulkRow{
			ProductID:         item.ProductID,
			VendorID:          item.VendorID,
			WarehouseID:       item.WarehouseID,
			SKU:               item.SKU,
			QuantityOnHand:    item.QuantityOnHand,
			LowStockThreshold: item.LowStockThreshold,
			Backorderable:     item.Backorderable,
		}
	}

	result, err := h.importUseCase.Execute(c.Request.Context(), appstock.BulkImportRequest{
		Items: rows,
		Actor: middleware.GetActor(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// VerifyStock 流水核对
// @Summary      流水核对
// @Description  从流水重放在库数量与预占数量,与当前记录比对
// @Tags         库存
// @Produce      json
// @Param        id path int true "库存记录ID"
// @Success      200 {object} response.Response{data=appstock.VerifyStockResponse}
// @Failure      404 {object} response.Response "库存记录不存在"
// @Router       /api/v1/stock/{id}/verify [get]
func (h *StockHandler) VerifyStock(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.verifyUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
