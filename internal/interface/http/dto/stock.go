package dto

// =========================================
// 库存相关DTO
// =========================================
// validator tag说明:
// - required: 必填字段
// - min/max: 数值范围或字符串长度
// - oneof: 枚举值

// CreateStockRequest HTTP创建库存记录请求
type CreateStockRequest struct {
	ProductID         string `json:"productId" binding:"required,max=64" example:"P1001"`
	VendorID          string `json:"vendorId" binding:"omitempty,max=64" example:"V01"`
	WarehouseID       string `json:"warehouseId" binding:"required,max=64" example:"WH-SH"`
	SKU               string `json:"sku" binding:"omitempty,max=64" example:"SKU-1001-RED"`
	QuantityOnHand    int    `json:"quantityOnHand" binding:"min=0" example:"100"`
	LowStockThreshold *int   `json:"lowStockThreshold" binding:"omitempty,min=0" example:"10"` // 为空时使用配置默认值
	Backorderable     bool   `json:"backorderable" example:"false"`
}

// UpdateStockRequest HTTP更新库存属性请求
// 不允许修改数量,数量变更必须走adjust产生流水
type UpdateStockRequest struct {
	SKU               *string `json:"sku" binding:"omitempty,max=64" example:"SKU-1001-BLUE"`
	LowStockThreshold *int    `json:"lowStockThreshold" binding:"omitempty,min=0" example:"5"`
	Backorderable     *bool   `json:"backorderable" example:"true"`
}

// AdjustStockRequest HTTP库存调整请求
type AdjustStockRequest struct {
	QuantityChange int    `json:"quantityChange" binding:"required" example:"-3"` // 正数入库,负数出库,不能为0
	MovementType   string `json:"movementType" binding:"omitempty,oneof=STOCK_IN STOCK_OUT ADJUSTMENT" example:"ADJUSTMENT"`
	Reason         string `json:"reason" binding:"max=255" example:"盘点差异"`
	ReferenceType  string `json:"referenceType" binding:"max=32" example:"ORDER"`
	ReferenceID    string `json:"referenceId" binding:"max=64" example:"O20240101001"`
}

// BulkImportRequest HTTP批量导入请求
// 行级校验在导入时逐行进行,单行失败不影响其他行
type BulkImportRequest struct {
	Items []BulkImportItem `json:"items" binding:"max=1000"`
}

// BulkImportItem 批量导入的一行
type BulkImportItem struct {
	ProductID         string `json:"productId" example:"P1001"`
	VendorID          string `json:"vendorId" example:"V01"`
	WarehouseID       string `json:"warehouseId" example:"WH-SH"`
	SKU               string `json:"sku" example:"SKU-1001-RED"`
	QuantityOnHand    *int   `json:"quantityOnHand" example:"50"` // 仅新建时生效,已存在记录忽略
	LowStockThreshold *int   `json:"lowStockThreshold" example:"10"`
	Backorderable     *bool  `json:"backorderable" example:"false"`
}

// ListStockQuery HTTP库存列表查询参数
type ListStockQuery struct {
	Page        int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize    int    `form:"pageSize" binding:"omitempty,min=1,max=100" example:"20"`
	ProductID   string `form:"productId" binding:"max=64"`
	WarehouseID string `form:"warehouseId" binding:"max=64"`
	SKU         string `form:"sku" binding:"max=64"`
	Status      string `form:"status" binding:"omitempty,oneof=IN_STOCK LOW_STOCK OUT_OF_STOCK BACKORDER"`
}

// ListMovementsQuery HTTP流水查询参数
type ListMovementsQuery struct {
	Page         int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize     int    `form:"pageSize" binding:"omitempty,min=1,max=100" example:"20"`
	MovementType string `form:"movementType" binding:"max=32" example:"RESERVATION"`
	ProductID    string `form:"productId" binding:"max=64"`
	WarehouseID  string `form:"warehouseId" binding:"max=64"`
}
