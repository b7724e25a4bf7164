package handler

import (
	"github.com/gin-gonic/gin"

	appreservation "github.com/xiebiao/stockledger/internal/application/reservation"
	"github.com/xiebiao/stockledger/internal/interface/http/dto"
	"github.com/xiebiao/stockledger/pkg/response"
)

// ReservationHandler 预占查询HTTP处理器
type ReservationHandler struct {
	manager     *appreservation.Manager
	listUseCase *appreservation.ListReservationsUseCase
}

// NewReservationHandler 创建预占处理器
func NewReservationHandler(manager *appreservation.Manager, listUseCase *appreservation.ListReservationsUseCase) *ReservationHandler {
	return &ReservationHandler{manager: manager, listUseCase: listUseCase}
}

// ListReservations 预占列表
// @Summary      预占列表
// @Tags         预占
// @Produce      json
// @Param        page      query int    false "页码" default(1)
// @Param        pageSize  query int    false "每页条数" default(20)
// @Param        status    query string false "状态" Enums(RESERVED, CONFIRMED, RELEASED, EXPIRED)
// @Param        orderId   query string false "订单ID"
// @Param        productId query string false "商品ID"
// @Success      200 {object} response.Response{data=response.PageData{list=[]appreservation.ReservationDTO}}
// @Router       /api/v1/reservations [get]
func (h *ReservationHandler) ListReservations(c *gin.Context) {
	var q dto.ListReservationsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), appreservation.ListReservationsRequest{
		Page:      q.Page,
		PageSize:  q.PageSize,
		Status:    q.Status,
		OrderID:   q.OrderID,
		ProductID: q.ProductID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.PageSize)
}

// GetReservation 预占详情
// @Summary      预占详情
// @Tags         预占
// @Produce      json
// @Param        id path int true "预占ID"
// @Success      200 {object} response.Response{data=appreservation.ReservationDTO}
// @Failure      404 {object} response.Response "预占记录不存在"
// @Router       /api/v1/reservations/{id} [get]
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	r, err := h.manager.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, appreservation.ToReservationDTO(r))
}
