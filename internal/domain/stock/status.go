package stock

// Status 库存展示状态
// 教学要点:
// 1. 状态由数量实时推导,不落库(避免存储状态与实际数量漂移)
// 2. 使用string类型,JSON/日志直接可读,与前端约定的枚举值一致
type Status string

const (
	StatusInStock    Status = "IN_STOCK"     // 有货
	StatusLowStock   Status = "LOW_STOCK"    // 低库存
	StatusOutOfStock Status = "OUT_OF_STOCK" // 缺货
	StatusBackorder  Status = "BACKORDER"    // 可预订(缺货但允许超卖)
)

// Classify 根据可用数量推导库存状态(纯函数,无副作用)
//
// 规则:
//   - available <= 0 且不可预订 → OUT_OF_STOCK
//   - available <= 0 且可预订   → BACKORDER
//   - 0 < available <= 阈值     → LOW_STOCK
//   - available > 阈值          → IN_STOCK
func Classify(available, lowStockThreshold int, backorderable bool) Status {
	if available <= 0 {
		if backorderable {
			return StatusBackorder
		}
		return StatusOutOfStock
	}
	if available <= lowStockThreshold {
		return StatusLowStock
	}
	return StatusInStock
}

// IsValid 校验状态值是否合法(用于查询参数过滤)
func (s Status) IsValid() bool {
	switch s {
	case StatusInStock, StatusLowStock, StatusOutOfStock, StatusBackorder:
		return true
	default:
		return false
	}
}
