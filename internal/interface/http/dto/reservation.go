package dto

// ListReservationsQuery HTTP预占列表查询参数
type ListReservationsQuery struct {
	Page      int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize  int    `form:"pageSize" binding:"omitempty,min=1,max=100" example:"20"`
	Status    string `form:"status" binding:"omitempty,oneof=RESERVED CONFIRMED RELEASED EXPIRED"`
	OrderID   string `form:"orderId" binding:"max=64"`
	ProductID string `form:"productId" binding:"max=64"`
}

// =========================================
// 内部结算接口DTO(由订单/结算服务调用)
// =========================================

// ReserveRequest 单行预占请求
type ReserveRequest struct {
	OrderID     string `json:"orderId" binding:"required,max=64" example:"O20240101001"`
	ProductID   string `json:"productId" binding:"required,max=64" example:"P1001"`
	WarehouseID string `json:"warehouseId" binding:"required,max=64" example:"WH-SH"`
	Quantity    int    `json:"quantity" binding:"required,min=1" example:"2"`
	TTLSeconds  int    `json:"ttlSeconds" binding:"min=0" example:"900"` // 0表示默认时长
}

// ReserveOrderRequest 整单预占请求
type ReserveOrderRequest struct {
	OrderID    string             `json:"orderId" binding:"required,max=64" example:"O20240101001"`
	Lines      []ReserveOrderLine `json:"lines" binding:"required,min=1,max=100,dive"`
	TTLSeconds int                `json:"ttlSeconds" binding:"min=0" example:"900"`
}

// ReserveOrderLine 整单预占的一行
type ReserveOrderLine struct {
	ProductID   string `json:"productId" binding:"required,max=64" example:"P1001"`
	WarehouseID string `json:"warehouseId" binding:"required,max=64" example:"WH-SH"`
	Quantity    int    `json:"quantity" binding:"required,min=1" example:"2"`
}

// ReleaseRequest 释放请求(请求体可省略)
type ReleaseRequest struct {
	Reason string `json:"reason" binding:"max=64" example:"order_cancelled"`
}

// ReleaseOrderResponse 整单释放结果
type ReleaseOrderResponse struct {
	OrderID  string `json:"orderId" example:"O20240101001"`
	Released int    `json:"released" example:"2"`
}
