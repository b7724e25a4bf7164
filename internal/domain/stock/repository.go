package stock

import (
	"context"
)

// Transactor 事务执行器
// fn内通过ctx传递的所有仓储调用都在同一事务中执行;嵌套调用使用Savepoint
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Repository 库存仓储接口
// 教学要点:
// 1. 数量字段只能通过Create/Apply写入,二者都要求同时写入流水
// 2. 这样"有流水无变更"或"有变更无流水"在结构上就无法发生
type Repository interface {
	// Create 创建库存记录;initial不为nil时在同一事务写入初始流水
	Create(ctx context.Context, item *StockItem, initial *Movement) error

	// FindByID 根据ID查询
	FindByID(ctx context.Context, id uint) (*StockItem, error)

	// LockByID 事务内加锁读取(MySQL下为SELECT ... FOR UPDATE)
	LockByID(ctx context.Context, id uint) (*StockItem, error)

	// FindByProductWarehouse 根据(商品, 仓库)查询
	FindByProductWarehouse(ctx context.Context, productID, warehouseID string) (*StockItem, error)

	// Apply 版本号CAS写入数量并追加流水
	// expectedVersion不匹配时返回ErrVersionConflict,成功后item.Version自增
	Apply(ctx context.Context, item *StockItem, expectedVersion int64, movement *Movement) error

	// UpdateAttributes 版本号CAS更新SKU/阈值/可预订标记(不涉及数量,不写流水)
	UpdateAttributes(ctx context.Context, item *StockItem, expectedVersion int64) error

	// List 分页查询
	List(ctx context.Context, params ListParams) ([]*StockItem, int64, error)
}

// ListParams 库存列表查询参数
type ListParams struct {
	Page        int
	PageSize    int
	ProductID   string
	WarehouseID string
	SKU         string
	Status      Status // 按推导状态过滤(转换为数量条件)
	LowStock    bool   // 仅返回IsLowStock为true的记录(低库存或缺货)
}

// MovementRepository 流水仓储接口(只读,写入由Repository在同一事务完成)
type MovementRepository interface {
	// ListByStockItem 按写入顺序返回某库存记录的全部流水
	ListByStockItem(ctx context.Context, stockItemID uint) ([]*Movement, error)

	// List 分页查询审计流水(按时间倒序)
	List(ctx context.Context, params MovementListParams) ([]*Movement, int64, error)
}

// MovementListParams 流水查询参数
type MovementListParams struct {
	Page         int
	PageSize     int
	StockItemID  uint
	MovementType MovementType
	ProductID    string
	WarehouseID  string
}

// WarehouseDirectory 仓库目录
// 仓库元数据不归本服务管理,这里只判断仓库ID是否有效
type WarehouseDirectory interface {
	Exists(ctx context.Context, warehouseID string) (bool, error)
}
