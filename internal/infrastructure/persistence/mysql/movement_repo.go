package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/stockledger/internal/domain/stock"
	apperrors "github.com/xiebiao/stockledger/pkg/errors"
)

// movementRepository 流水仓储实现(只读)
type movementRepository struct {
	db *gorm.DB
}

// NewMovementRepository 创建流水仓储
func NewMovementRepository(db *gorm.DB) stock.MovementRepository {
	return &movementRepository{db: db}
}

// insertMovement 追加流水,只在库存写入的同一事务中调用
func insertMovement(tx *gorm.DB, movement *stock.Movement) error {
	model := toMovementModel(movement)
	if err := tx.Create(model).Error; err != nil {
		return wrapDBError(err, "写入库存流水失败")
	}
	movement.ID = model.ID
	movement.CreatedAt = model.CreatedAt
	return nil
}

// ListByStockItem 按写入顺序返回全部流水
func (r *movementRepository) ListByStockItem(ctx context.Context, stockItemID uint) ([]*stock.Movement, error) {
	var models []StockMovementModel
	err := getDB(ctx, r.db).
		Where("stock_item_id = ?", stockItemID).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.WrapCode(err, apperrors.ErrCodeDatabaseError, "查询库存流水失败")
	}
	return toMovementEntities(models), nil
}

// List 分页查询审计流水(最新的在前)
func (r *movementRepository) List(ctx context.Context, params stock.MovementListParams) ([]*stock.Movement, int64, error) {
	page, pageSize := normalizePage(params.Page, params.PageSize)
	query := getDB(ctx, r.db).Model(&StockMovementModel{})

	if params.StockItemID != 0 {
		query = query.Where("stock_item_id = ?", params.StockItemID)
	}
	if params.MovementType != "" {
		query = query.Where("movement_type = ?", string(params.MovementType))
	}
	if params.ProductID != "" {
		query = query.Where("product_id = ?", params.ProductID)
	}
	if params.WarehouseID != "" {
		query = query.Where("warehouse_id = ?", params.WarehouseID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.WrapCode(err, apperrors.ErrCodeDatabaseError, "查询流水总数失败")
	}

	var models []StockMovementModel
	offset := (page - 1) * pageSize
	if err := query.Order("id DESC").Offset(offset).Limit(pageSize).Find(&models).Error; err != nil {
		return nil, 0, apperrors.WrapCode(err, apperrors.ErrCodeDatabaseError, "查询流水列表失败")
	}
	return toMovementEntities(models), total, nil
}

func toMovementModel(m *stock.Movement) *StockMovementModel {
	return &StockMovementModel{
		ID:             m.ID,
		StockItemID:    m.StockItemID,
		ProductID:      m.ProductID,
		WarehouseID:    m.WarehouseID,
		MovementType:   string(m.Type),
		QuantityChange: m.QuantityChange,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
		ReservedBefore: m.ReservedBefore,
		ReservedAfter:  m.ReservedAfter,
		ReferenceType:  m.ReferenceType,
		ReferenceID:    m.ReferenceID,
		ActorType:      m.ActorType,
		ActorID:        m.ActorID,
		Note:           m.Note,
		CreatedAt:      m.CreatedAt,
	}
}

func toMovementEntities(models []StockMovementModel) []*stock.Movement {
	movements := make([]*stock.Movement, len(models))
	for i := range models {
		m := &models[i]
		movements[i] = &stock.Movement{
			ID:             m.ID,
			StockItemID:    m.StockItemID,
			ProductID:      m.ProductID,
			WarehouseID:    m.WarehouseID,
			Type:           stock.MovementType(m.MovementType),
			QuantityChange: m.QuantityChange,
			QuantityBefore: m.QuantityBefore,
			QuantityAfter:  m.QuantityAfter,
			ReservedBefore: m.ReservedBefore,
			ReservedAfter:  m.ReservedAfter,
			ReferenceType:  m.ReferenceType,
			ReferenceID:    m.ReferenceID,
			ActorType:      m.ActorType,
			ActorID:        m.ActorID,
			Note:           m.Note,
			CreatedAt:      m.CreatedAt,
		}
	}
	return movements
}
