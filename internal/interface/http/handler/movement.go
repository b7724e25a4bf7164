package handler

import (
	"github.com/gin-gonic/gin"

	appstock "github.com/xiebiao/stockledger/internal/application/stock"
	"github.com/xiebiao/stockledger/internal/interface/http/dto"
	"github.com/xiebiao/stockledger/pkg/response"
)

// MovementHandler 库存流水HTTP处理器(只读)
type MovementHandler struct {
	listUseCase *appstock.ListMovementsUseCase
}

// NewMovementHandler 创建流水处理器
func NewMovementHandler(listUseCase *appstock.ListMovementsUseCase) *MovementHandler {
	return &MovementHandler{listUseCase: listUseCase}
}

// ListMovements 流水列表
// @Summary      库存流水
// @Description  分页查询库存流水(审计),按时间倒序
// @Tags         流水
// @Produce      json
// @Param        page         query int    false "页码" default(1)
// @Param        pageSize     query int    false "每页条数" default(20)
// @Param        movementType query string false "流水类型"
// @Param        productId    query string false "商品ID"
// @Param        warehouseId  query string false "仓库ID"
// @Success      200 {object} response.Response{data=response.PageData{list=[]appstock.MovementDTO}}
// @Router       /api/v1/movements [get]
func (h *MovementHandler) ListMovements(c *gin.Context) {
	h.list(c, 0)
}

// ListStockMovements 单条库存记录的流水
// @Summary      库存记录流水
// @Tags         流水
// @Produce      json
// @Param        id           path  int    true  "库存记录ID"
// @Param        page         query int    false "页码" default(1)
// @Param        pageSize     query int    false "每页条数" default(20)
// @Param        movementType query string false "流水类型"
// @Success      200 {object} response.Response{data=response.PageData{list=[]appstock.MovementDTO}}
// @Failure      404 {object} response.Response "库存记录不存在"
// @Router       /api/v1/stock/{id}/movements [get]
func (h *MovementHandler) ListStockMovements(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	h.list(c, id)
}

func (h *MovementHandler) list(c *gin.Context, stockItemID uint) {
	var q dto.ListMovementsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), appstock.ListMovementsRequest{
		Page:         q.Page,
		PageSize:     q.PageSize,
		StockItemID:  stockItemID,
		MovementType: q.MovementType,
		ProductID:    q.ProductID,
		WarehouseID:  q.WarehouseID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.PageSize)
}
