package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/stockledger/internal/domain/stock"
	apperrors "github.com/xiebiao/stockledger/pkg/errors"
)

// availableExpr 可用数量的SQL表达式
const availableExpr = "(quantity_on_hand - quantity_reserved)"

// stockItemRepository 库存仓储实现
type stockItemRepository struct {
	db *gorm.DB
}

// NewStockItemRepository 创建库存仓储
func NewStockItemRepository(db *gorm.DB) stock.Repository {
	return &stockItemRepository{db: db}
}

// Create 创建库存记录
// 教学要点:
// 1. 记录与初始流水在同一事务写入(ctx中已有事务时使用Savepoint)
// 2. 唯一索引冲突翻译为领域错误ErrStockItemDuplicate
func (r *stockItemRepository) Create(ctx context.Context, item *stock.StockItem, initial *stock.Movement) error {
	return getDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		model := toStockItemModel(item)
		if err := tx.Create(model).Error; err != nil {
			if isDuplicateError(err) {
				return stock.ErrStockItemDuplicate
			}
			return apperrors.WrapCode(err, apperrors.ErrCodeDatabaseError, "创建库存记录失败")
		}

		item.ID = model.ID
		item.CreatedAt = model.CreatedAt
		item.UpdatedAt = model.UpdatedAt

		if initial == nil {
			return nil
		}
		initial.StockItemID = item.ID
		return insertMovement(tx, initial)
	})
}

// FindByID 根据ID查询
func (r *stockItemRepository) FindByID(ctx context.Context, id uint) (*stock.StockItem, error) {
	return r.first(getDB(ctx, r.db).Where("id = ?", id))
}

// LockByID 加行锁读取
func (r *stockItemRepository) LockByID(ctx context.Context, id uint) (*stock.StockItem, error) {
	return r.first(forUpdate(getDB(ctx, r.db)).Where("id = ?", id))
}

// FindByProductWarehouse 根据(商品, 仓库)查询
func (r *stockItemRepository) FindByProductWarehouse(ctx context.Context, productID, warehouseID string) (*stock.StockItem, error) {
	return r.first(getDB(ctx, r.db).Where("product_id = ? AND warehouse_id = ?", productID, warehouseID))
}

func (r *stockItemRepository) first(query *gorm.DB) (*stock.StockItem, error) {
	var model StockItemModel
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, stock.ErrStockItemNotFound
		}
		return nil, wrapDBError(err, "查询库存记录失败")
	}
	return toStockItemEntity(&model), nil
}

// Apply 版本号CAS写入数量并追加流水
//
// SQL:
//
//	UPDATE stock_items
//	SET quantity_on_hand=?, quantity_reserved=?, version=version+1
//	WHERE id=? AND version=?
//
// 影响行数为0说明记录已被其他事务修改(或已删除)
func (r *stockItemRepository) Apply(ctx context.Context, item *stock.StockItem, expectedVersion int64, movement *stock.Movement) error {
	return getDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		result := tx.Model(&StockItemModel{}).
			Where("id = ? AND version = ?", item.ID, expectedVersion).
			Updates(map[string]interface{}{
				"quantity_on_hand":  item.QuantityOnHand,
				"quantity_reserved": item.QuantityReserved,
				"version":           gorm.Expr("version + 1"),
				"updated_at":        now,
			})
		if result.Error != nil {
			return wrapDBError(result.Error, "更新库存数量失败")
		}
		if result.RowsAffected == 0 {
			return r.missOrConflict(tx, item.ID)
		}

		movement.StockItemID = item.ID
		if err := insertMovement(tx, movement); err != nil {
			return err
		}

		item.Version = expectedVersion + 1
		item.UpdatedAt = now
		return nil
	})
}

// UpdateAttributes 版本号CAS更新属性字段
func (r *stockItemRepository) UpdateAttributes(ctx context.Context, item *stock.StockItem, expectedVersion int64) error {
	now := time.Now().UTC()
	db := getDB(ctx, r.db)
	result := db.Model(&StockItemModel{}).
		Where("id = ? AND version = ?", item.ID, expectedVersion).
		Updates(map[string]interface{}{
			"sku":                 item.SKU,
			"low_stock_threshold": item.LowStockThreshold,
			"backorderable":       item.Backorderable,
			"version":             gorm.Expr("version + 1"),
			"updated_at":          now,
		})
	if result.Error != nil {
		return wrapDBError(result.Error, "更新库存属性失败")
	}
	if result.RowsAffected == 0 {
		return r.missOrConflict(db, item.ID)
	}

	item.Version = expectedVersion + 1
	item.UpdatedAt = now
	return nil
}

// missOrConflict 区分"记录不存在"和"版本冲突"
func (r *stockItemRepository) missOrConflict(db *gorm.DB, id uint) error {
	var count int64
	if err := db.Model(&StockItemModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return apperrors.WrapCode(err, apperrors.ErrCodeDatabaseError, "查询库存记录失败")
	}
	if count == 0 {
		return stock.ErrStockItemNotFound
	}
	return stock.ErrVersionConflict
}

// List 分页查询
// 库存状态是推导值,这里把状态过滤转换为数量条件在SQL中完成
func (r *stockItemRepository) List(ctx context.Context, params stock.ListParams) ([]*stock.StockItem, int64, error) {
	page, pageSize := normalizePage(params.Page, params.PageSize)
	query := getDB(ctx, r.db).Model(&StockItemModel{})

	// 1. 条件过滤
	if params.ProductID != "" {
		query = query.Where("product_id = ?", params.ProductID)
	}
	if params.WarehouseID != "" {
		query = query.Where("warehouse_id = ?", params.WarehouseID)
	}
	if params.SKU != "" {
		query = query.Where("sku = ?", params.SKU)
	}
	if params.LowStock {
		// 与StockItem.IsLowStock一致:LOW_STOCK或OUT_OF_STOCK,BACKORDER仍可售不算
		query = query.Where("(("+availableExpr+" > 0 AND "+availableExpr+" <= low_stock_threshold) OR ("+availableExpr+" <= 0 AND backorderable = ?))", false)
	}
	switch params.Status {
	case stock.StatusInStock:
		query = query.Where(availableExpr+" > 0 AND "+availableExpr+" > low_stock_threshold")
	case stock.StatusLowStock:
		query = query.Where(availableExpr+" > 0 AND "+availableExpr+" <= low_stock_threshold")
	case stock.StatusOutOfStock:
		query = query.Where(availableExpr+" <= 0 AND backorderable = ?", false)
	case stock.StatusBackorder:
		query = query.Where(availableExpr+" <= 0 AND backorderable = ?", true)
	}

	// 2. 查询总数
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.WrapCode(err, apperrors.ErrCodeDatabaseError, "查询库存总数失败")
	}

	// 3. 分页查询
	var models []StockItemModel
	offset := (page - 1) * pageSize
	if err := query.Order("id ASC").Offset(offset).Limit(pageSize).Find(&models).Error; err != nil {
		return nil, 0, apperrors.WrapCode(err, apperrors.ErrCodeDatabaseError, "查询库存列表失败")
	}

	items := make([]*stock.StockItem, len(models))
	for i := range models {
		items[i] = toStockItemEntity(&models[i])
	}
	return items, total, nil
}

func toStockItemModel(item *stock.StockItem) *StockItemModel {
	return &StockItemModel{
		ID:                item.ID,
		ProductID:         item.ProductID,
		WarehouseID:       item.WarehouseID,
		VendorID:          item.VendorID,
		SKU:               item.SKU,
		QuantityOnHand:    item.QuantityOnHand,
		QuantityReserved:  item.QuantityReserved,
		LowStockThreshold: item.LowStockThreshold,
		Backorderable:     item.Backorderable,
		Version:           item.Version,
		CreatedAt:         item.CreatedAt,
		UpdatedAt:         item.UpdatedAt,
	}
}

func toStockItemEntity(model *StockItemModel) *stock.StockItem {
	return &stock.StockItem{
		ID:                model.ID,
		ProductID:         model.ProductID,
		WarehouseID:       model.WarehouseID,
		VendorID:          model.VendorID,
		SKU:               model.SKU,
		QuantityOnHand:    model.QuantityOnHand,
		QuantityReserved:  model.QuantityReserved,
		LowStockThreshold: model.LowStockThreshold,
		Backorderable:     model.Backorderable,
		Version:           model.Version,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}
}
