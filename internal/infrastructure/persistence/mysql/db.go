package mysql

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/xiebiao/stockledger/internal/infrastructure/config"
	"github.com/xiebiao/stockledger/internal/infrastructure/logger"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 生产环境使用MySQL；本地开发和测试可切换为SQLite（纯Go驱动，无需CGO）
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. SQL日志输出到zap，开发环境打印全部SQL，其他环境只记录慢SQL和错误
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	// 1. 选择驱动
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.Database.Path)
	default:
		dialector = mysql.Open(cfg.Database.DSN())
	}

	// 2. 配置GORM日志
	logLevel := gormlogger.Warn
	if cfg.Server.Mode == "debug" {
		logLevel = gormlogger.Info // 开发环境打印SQL
	}

	// 3. 连接数据库
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.NewGormLogger(log, logLevel),
		TranslateError: true, // 唯一键冲突翻译为gorm.ErrDuplicatedKey
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 4. 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	if cfg.Database.Driver == "sqlite" {
		// SQLite同一时刻只允许一个写事务，单连接避免"database is locked"
		// 内存库每个连接都是独立的数据库，也必须单连接
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	} else {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	}

	// 5. 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Info("数据库连接成功", zap.String("driver", cfg.Database.Driver))

	// 6. 自动迁移表结构
	// 注意：生产环境应使用版本化的迁移脚本
	if cfg.Database.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("数据库迁移失败: %w", err)
		}
	}

	return db, nil
}

// AutoMigrate 自动迁移表结构
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&StockItemModel{},
		&StockMovementModel{},
		&ReservationModel{},
	)
}

// StockItemModel GORM库存记录模型
// 设计说明：
// 1. (product_id, warehouse_id) 唯一索引，一个商品在一个仓库只有一条记录
// 2. version 乐观锁版本号，所有数量写入都以 WHERE version=? 作为条件
// 3. CHECK约束兜底：在库与预占数量永不为负
// 4. 可用数量、库存状态是推导值，不落库
type StockItemModel struct {
	ID                uint      `gorm:"primaryKey"`
	ProductID         string    `gorm:"size:64;not null;uniqueIndex:uk_stock_items_product_warehouse,priority:1;comment:商品ID"`
	WarehouseID       string    `gorm:"size:64;not null;uniqueIndex:uk_stock_items_product_warehouse,priority:2;index:idx_stock_items_warehouse;comment:仓库ID"`
	VendorID          string    `gorm:"size:64;index:idx_stock_items_vendor;comment:商家ID"`
	SKU               string    `gorm:"column:sku;size:64;index:idx_stock_items_sku;comment:SKU"`
	QuantityOnHand    int       `gorm:"not null;check:chk_stock_items_on_hand,quantity_on_hand >= 0;comment:在库数量"`
	QuantityReserved  int       `gorm:"not null;check:chk_stock_items_reserved,quantity_reserved >= 0;comment:已预占数量"`
	LowStockThreshold int       `gorm:"not null;comment:低库存阈值"`
	Backorderable     bool      `gorm:"not null;comment:是否允许缺货预订"`
	Version           int64     `gorm:"not null;comment:乐观锁版本号"`
	CreatedAt         time.Time `gorm:"comment:创建时间"`
	UpdatedAt         time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (StockItemModel) TableName() string {
	return "stock_items"
}

// StockMovementModel GORM库存流水模型
// 教学要点:
// 1. 只增不改,没有UpdatedAt/DeletedAt
// 2. 自增ID即同一库存记录内的写入顺序
// 3. product_id/warehouse_id冗余存储,审计查询无需联表
type StockMovementModel struct {
	ID             uint      `gorm:"primaryKey"`
	StockItemID    uint      `gorm:"not null;index:idx_stock_movements_item;comment:库存记录ID"`
	ProductID      string    `gorm:"size:64;not null;index:idx_stock_movements_product;comment:商品ID"`
	WarehouseID    string    `gorm:"size:64;not null;index:idx_stock_movements_warehouse;comment:仓库ID"`
	MovementType   string    `gorm:"size:32;not null;index:idx_stock_movements_type;comment:流水类型"`
	QuantityChange int       `gorm:"not null;comment:变化量(有符号)"`
	QuantityBefore int       `gorm:"not null;comment:变更前数量"`
	QuantityAfter  int       `gorm:"not null;comment:变更后数量"`
	ReservedBefore int       `gorm:"not null;comment:变更前预占数量"`
	ReservedAfter  int       `gorm:"not null;comment:变更后预占数量"`
	ReferenceType  string    `gorm:"size:32;comment:关联单据类型"`
	ReferenceID    string    `gorm:"size:64;index:idx_stock_movements_reference;comment:关联单据ID"`
	ActorType      string    `gorm:"size:32;comment:操作人类型"`
	ActorID        string    `gorm:"size:64;comment:操作人ID"`
	Note           string    `gorm:"size:255;comment:备注"`
	CreatedAt      time.Time `gorm:"index:idx_stock_movements_created;comment:创建时间"`
}

// TableName 指定表名
func (StockMovementModel) TableName() string {
	return "stock_movements"
}

// ReservationModel GORM预占模型
// 设计说明:
// 1. (status, expires_at) 复合索引支撑过期扫描
// 2. 状态只通过 WHERE status='RESERVED' 条件更新流转,终态不可再变
type ReservationModel struct {
	ID            uint       `gorm:"primaryKey"`
	OrderID       string     `gorm:"size:64;not null;index:idx_reservations_order;comment:订单ID"`
	ProductID     string     `gorm:"size:64;not null;index:idx_reservations_product;comment:商品ID"`
	StockItemID   uint       `gorm:"not null;index:idx_reservations_stock_item;comment:库存记录ID"`
	WarehouseID   string     `gorm:"size:64;not null;comment:仓库ID"`
	Quantity      int        `gorm:"not null;comment:预占数量"`
	Status        string     `gorm:"size:16;not null;index:idx_reservations_status_expires,priority:1;comment:状态(RESERVED/CONFIRMED/RELEASED/EXPIRED)"`
	ReservedAt    time.Time  `gorm:"not null;comment:预占时间"`
	ExpiresAt     time.Time  `gorm:"not null;index:idx_reservations_status_expires,priority:2;comment:过期时间"`
	ConfirmedAt   *time.Time `gorm:"comment:确认时间"`
	ReleasedAt    *time.Time `gorm:"comment:释放时间"`
	ReleaseReason string     `gorm:"size:64;comment:释放原因"`
	CreatedAt     time.Time  `gorm:"comment:创建时间"`
	UpdatedAt     time.Time  `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (ReservationModel) TableName() string {
	return "stock_reservations"
}
