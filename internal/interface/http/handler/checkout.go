package handler

import (
	"errors"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	appreservation "github.com/xiebiao/stockledger/internal/application/reservation"
	"github.com/xiebiao/stockledger/internal/interface/http/dto"
	"github.com/xiebiao/stockledger/internal/interface/http/middleware"
	"github.com/xiebiao/stockledger/pkg/response"
)

// CheckoutHandler 结算内部接口
// 由订单/结算服务调用,管理后台不直接使用
type CheckoutHandler struct {
	manager *appreservation.Manager
}

// NewCheckoutHandler 创建结算处理器
func NewCheckoutHandler(manager *appreservation.Manager) *CheckoutHandler {
	return &CheckoutHandler{manager: manager}
}

// Reserve 单行预占
// @Summary      预占库存
// @Description  可用数量不足且不可预订时返回库存不足,不产生任何记录
// @Tags         结算(内部)
// @Accept       json
// @Produce      json
// @Param        X-Actor-Type header string false "操作人类型" default(ORDER_SERVICE)
// @Param        X-Actor-Id   header string false "操作人ID"
// @Param        request body dto.ReserveRequest true "预占信息"
// @Success      200 {object} response.Response{data=appreservation.ReservationDTO}
// @Failure      400 {object} response.Response "库存不足"
// @Failure      404 {object} response.Response "库存记录不存在"
// @Router       /api/v1/internal/reservations [post]
func (h *CheckoutHandler) Reserve(c *gin.Context) {
	var req dto.ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	r, err := h.manager.Reserve(c.Request.Context(), appreservation.ReserveCommand{
		OrderID:     req.OrderID,
		ProductID:   req.ProductID,
		WarehouseID: req.WarehouseID,
		Quantity:    req.Quantity,
		TTL:         time.Duration(req.TTLSeconds) * time.Second,
		Actor:       middleware.GetActor(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, appreservation.ToReservationDTO(r))
}

// ReserveOrder 整单预占
// @Summary      整单预占
// @Description  多行全部成功或全部回滚
// @Tags         结算(内部)
// @Accept       json
// @Produce      json
// @Param        request body dto.ReserveOrderRequest true "订单行"
// @Success      200 {object} response.Response{data=[]appreservation.ReservationDTO}
// @Failure      400 {object} response.Response "库存不足"
// @Router       /api/v1/internal/reservations/order [post]
func (h *CheckoutHandler) ReserveOrder(c *gin.Context) {
	var req dto.ReserveOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	lines := make([]appreservation.OrderLine, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = appreservation.OrderLine{ProductID: l.ProductID, WarehouseID: l.WarehouseID, Quantity: l.Quantity}
	}

	list, err := h.manager.ReserveOrder(c.Request.Context(), appreservation.ReserveOrderCommand{
		OrderID: req.OrderID,
		Lines:   lines,
		TTL:     time.Duration(req.TTLSeconds) * time.Second,
		Actor:   middleware.GetActor(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, appreservation.ToReservationDTOs(list))
}

// Commit 确认预占(出库)
// @Summary      确认预占
// @Tags         结算(内部)
// @Produce      json
// @Param        id path int true "预占ID"
// @Success      200 {object} response.Response{data=appreservation.ReservationDTO}
// @Failure      400 {object} response.Response "状态不允许确认"
// @Failure      404 {object} response.Response "预占记录不存在"
// @Router       /api/v1/internal/reservations/{id}/commit [post]
func (h *CheckoutHandler) Commit(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	r, err := h.manager.Commit(c.Request.Context(), id, middleware.GetActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, appreservation.ToReservationDTO(r))
}

// Release 释放预占
// @Summary      释放预占
// @Tags         结算(内部)
// @Accept       json
// @Produce      json
// @Param        id path int true "预占ID"
// @Param        request body dto.ReleaseRequest false "释放原因"
// @Success      200 {object} response.Response{data=appreservation.ReservationDTO}
// @Failure      400 {object} response.Response "状态不允许释放"
// @Failure      404 {object} response.Response "预占记录不存在"
// @Router       /api/v1/internal/reservations/{id}/release [post]
func (h *CheckoutHandler) Release(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.ReleaseRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	r, err := h.manager.Release(c.Request.Context(), id, req.Reason, middleware.GetActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, appreservation.ToReservationDTO(r))
}

// ReleaseOrder 释放订单下所有有效预占
// @Summary      整单释放
// @Tags         结算(内部)
// @Accept       json
// @Produce      json
// @Param        orderId path string true "订单ID"
// @Param        request body dto.ReleaseRequest false "释放原因"
// @Success      200 {object} response.Response{data=dto.ReleaseOrderResponse}
// @Router       /api/v1/internal/orders/{orderId}/release [post]
func (h *CheckoutHandler) ReleaseOrder(c *gin.Context) {
	var req dto.ReleaseRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	orderID := c.Param("orderId")
	released, err := h.manager.ReleaseOrder(c.Request.Context(), orderID, req.Reason, middleware.GetActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.ReleaseOrderResponse{OrderID: orderID, Released: released})
}

// bindOptionalJSON 请求体可以为空
func bindOptionalJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		bindError(c, err)
		return false
	}
	return true
}
