package stock

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/stockledger/pkg/errors"
	"github.com/xiebiao/stockledger/pkg/metrics"
	"github.com/xiebiao/stockledger/pkg/tracing"
)

const tracerName = "stock-ledger"

// LedgerOptions 账本参数
type LedgerOptions struct {
	MaxRetries               uint64        // 乐观锁冲突最大重试次数
	InitialInterval          time.Duration // 首次重试间隔
	MaxInterval              time.Duration // 最大重试间隔
	DefaultLowStockThreshold int           // 未指定阈值时的默认低库存阈值
}

// DefaultLedgerOptions 默认参数
func DefaultLedgerOptions() LedgerOptions {
	return LedgerOptions{
		MaxRetries:               5,
		InitialInterval:          10 * time.Millisecond,
		MaxInterval:              200 * time.Millisecond,
		DefaultLowStockThreshold: 10,
	}
}

// Ledger 库存账本(领域服务)
//
// 教学要点:
//  1. 唯一的数量写入方:预占管理器等组件只能通过Ledger修改数量
//  2. 每个写操作 = 加锁读取 + 业务校验 + 版本号CAS写入 + 追加流水,全部在一个事务内
//  3. CAS冲突时整个事务回滚,按指数退避重试;重试耗尽返回ErrConcurrentModification
//  4. 不同库存记录之间没有共享锁,可以完全并行
type Ledger struct {
	repo       Repository
	movements  MovementRepository
	tx         Transactor
	warehouses WarehouseDirectory
	opts       LedgerOptions
	logger     *zap.Logger
}

// NewLedger 创建库存账本
// warehouses为nil时不校验仓库ID
func NewLedger(repo Repository, movements MovementRepository, tx Transactor, warehouses WarehouseDirectory, opts LedgerOptions, logger *zap.Logger) *Ledger {
	if opts.MaxRetries == 0 {
		opts.MaxRetries = DefaultLedgerOptions().MaxRetries
	}
	if opts.InitialInterval <= 0 {
		opts.InitialInterval = DefaultLedgerOptions().InitialInterval
	}
	if opts.MaxInterval <= 0 {
		opts.MaxInterval = DefaultLedgerOptions().MaxInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{
		repo:       repo,
		movements:  movements,
		tx:         tx,
		warehouses: warehouses,
		opts:       opts,
		logger:     logger.Named("ledger"),
	}
}

// CreateCommand 创建库存记录命令
type CreateCommand struct {
	ProductID         string
	VendorID          string
	WarehouseID       string
	SKU               string
	Quantity          int  // 初始在库数量
	LowStockThreshold *int // nil表示使用默认阈值
	Backorderable     bool
	Source            MovementType // 初始流水类型:STOCK_IN(默认) 或 BULK_IMPORT
	Reference         Reference
	Actor             Actor
}

// Create 创建库存记录
// 初始数量>0时写入一条Before=0的初始流水,保证从0回放流水能得到当前在库数量
func (l *Ledger) Create(ctx context.Context, cmd CreateCommand) (*StockItem, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "Ledger.Create")
	defer span.End()

	// 1. 参数校验
	if cmd.ProductID == "" || cmd.WarehouseID == "" {
		return nil, apperrors.WithDetail(ErrValidation, "productId和warehouseId不能为空")
	}
	if cmd.Quantity < 0 {
		return nil, apperrors.WithDetail(ErrValidation, "初始数量不能为负数")
	}
	threshold := l.opts.DefaultLowStockThreshold
	if cmd.LowStockThreshold != nil {
		if *cmd.LowStockThreshold < 0 {
			return nil, apperrors.WithDetail(ErrValidation, "低库存阈值不能为负数")
		}
		threshold = *cmd.LowStockThreshold
	}
	if err := l.checkWarehouse(ctx, cmd.WarehouseID); err != nil {
		return nil, err
	}

	source := cmd.Source
	if source == "" {
		source = MovementStockIn
	}

	// 2. 构造实体与初始流水
	item := &StockItem{
		ProductID:         cmd.ProductID,
		VendorID:          cmd.VendorID,
		WarehouseID:       cmd.WarehouseID,
		SKU:               cmd.SKU,
		QuantityOnHand:    cmd.Quantity,
		LowStockThreshold: threshold,
		Backorderable:     cmd.Backorderable,
	}

	var initial *Movement
	if cmd.Quantity > 0 {
		initial = newMovement(source, &StockItem{}, item, cmd.Reference, cmd.Actor, "初始库存")
	}

	// 3. 记录与流水同事务写入
	if err := l.repo.Create(ctx, item, initial); err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	metrics.IncCounterVec(metrics.LedgerMutationsTotal, map[string]string{"type": string(source), "result": "success"})
	l.logger.Info("库存记录已创建",
		zap.Uint("stock_item_id", item.ID),
		zap.String("product_id", item.ProductID),
		zap.String("warehouse_id", item.WarehouseID),
		zap.Int("quantity", item.QuantityOnHand),
	)
	return item, nil
}

// AttributeUpdate 属性更新(nil字段不修改)
type AttributeUpdate struct {
	SKU               *string
	LowStockThreshold *int
	Backorderable     *bool
}

// UpdateAttributes 更新SKU/低库存阈值/可预订标记
// 不涉及数量,不写流水;同样走版本号CAS避免覆盖并发写入
func (l *Ledger) UpdateAttributes(ctx context.Context, id uint, update AttributeUpdate) (*StockItem, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "Ledger.UpdateAttributes")
	defer span.End()

	if update.LowStockThreshold != nil && *update.LowStockThreshold < 0 {
		return nil, apperrors.WithDetail(ErrValidation, "低库存阈值不能为负数")
	}

	var result *StockItem
	err := l.retry(ctx, "update_attributes", func() error {
		return l.tx.Transaction(ctx, func(txCtx context.Context) error {
			item, err := l.repo.LockByID(txCtx, id)
			if err != nil {
				return err
			}
			expected := item.Version

			if update.SKU != nil {
				item.SKU = *update.SKU
			}
			if update.LowStockThreshold != nil {
				item.LowStockThreshold = *update.LowStockThreshold
			}
			if update.Backorderable != nil {
				// 已经超卖的记录不能直接关闭可预订,否则可用数量为负却不可预订
				if !*update.Backorderable && item.Available() < 0 {
					return apperrors.WithDetail(ErrInvalidAdjustment, "存在超出在库的预占,无法关闭可预订")
				}
				item.Backorderable = *update.Backorderable
			}

			if err := l.repo.UpdateAttributes(txCtx, item, expected); err != nil {
				return err
			}
			result = item
			return nil
		})
	})
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	return result, nil
}

// AdjustCommand 库存调整命令
type AdjustCommand struct {
	StockItemID uint
	Delta       int          // 在库数量变化量(有符号)
	Type        MovementType // STOCK_IN / STOCK_OUT / ADJUSTMENT(默认)
	Reason      string
	Reference   Reference
	Actor       Actor
}

// Adjust 调整在库数量
// 失败条件:调整后在库<0;或不可预订时调整后在库<已预占
func (l *Ledger) Adjust(ctx context.Context, cmd AdjustCommand) (*Change, error) {
	if cmd.Delta == 0 {
		return nil, apperrors.WithDetail(ErrValidation, "调整数量不能为0")
	}

	movementType := cmd.Type
	if movementType == "" {
		movementType = MovementAdjustment
	}
	switch movementType {
	case MovementStockIn:
		if cmd.Delta < 0 {
			return nil, apperrors.WithDetail(ErrValidation, "入库数量必须为正数")
		}
	case MovementStockOut:
		if cmd.Delta > 0 {
			return nil, apperrors.WithDetail(ErrValidation, "出库数量必须为负数")
		}
	case MovementAdjustment:
	default:
		return nil, apperrors.WithDetailf(ErrValidation, "不支持的调整类型: %s", movementType)
	}

	return l.mutate(ctx, cmd.StockItemID, movementType, func(item *StockItem) (string, error) {
		next := item.QuantityOnHand + cmd.Delta
		if next < 0 {
			return "", apperrors.WithDetailf(ErrInvalidAdjustment, "调整后在库数量为负数(当前%d,变化%d)", item.QuantityOnHand, cmd.Delta)
		}
		if !item.Backorderable && next < item.QuantityReserved {
			return "", apperrors.WithDetailf(ErrInvalidAdjustment, "调整后在库数量(%d)低于已预占数量(%d)", next, item.QuantityReserved)
		}
		item.QuantityOnHand = next
		return cmd.Reason, nil
	}, cmd.Reference, cmd.Actor)
}

// TryReserve 预占库存
// 原子地检查 available >= qty 或 可预订,然后增加已预占数量并写入RESERVATION流水
func (l *Ledger) TryReserve(ctx context.Context, id uint, quantity int, ref Reference, actor Actor) (*Change, error) {
	if quantity <= 0 {
		return nil, apperrors.WithDetail(ErrValidation, "预占数量必须大于0")
	}

	return l.mutate(ctx, id, MovementReservation, func(item *StockItem) (string, error) {
		if !item.CanReserve(quantity) {
			return "", apperrors.WithDetailf(ErrInsufficientStock, "可用%d,需要%d", item.Available(), quantity)
		}
		item.QuantityReserved += quantity
		return "", nil
	}, ref, actor)
}

// ReleaseReserved 释放预占
// 已预占数量最低减到0,流水记录实际释放的数量
func (l *Ledger) ReleaseReserved(ctx context.Context, id uint, quantity int, reason string, ref Reference, actor Actor) (*Change, error) {
	if quantity <= 0 {
		return nil, apperrors.WithDetail(ErrValidation, "释放数量必须大于0")
	}

	return l.mutate(ctx, id, MovementReservationRelease, func(item *StockItem) (string, error) {
		if item.QuantityReserved < quantity {
			l.logger.Warn("释放数量大于已预占数量,按0截断",
				zap.Uint("stock_item_id", item.ID),
				zap.Int("reserved", item.QuantityReserved),
				zap.Int("quantity", quantity),
			)
			item.QuantityReserved = 0
		} else {
			item.QuantityReserved -= quantity
		}
		return reason, nil
	}, ref, actor)
}

// ConfirmReserved 确认预占(货物出库)
// 在库与已预占同时减少qty;在库不足(缺货预订尚未到货)时拒绝
func (l *Ledger) ConfirmReserved(ctx context.Context, id uint, quantity int, ref Reference, actor Actor) (*Change, error) {
	if quantity <= 0 {
		return nil, apperrors.WithDetail(ErrValidation, "确认数量必须大于0")
	}

	return l.mutate(ctx, id, MovementReservationConfirm, func(item *StockItem) (string, error) {
		if item.QuantityReserved < quantity {
			return "", apperrors.WithDetailf(ErrInvalidAdjustment, "已预占数量(%d)小于确认数量(%d)", item.QuantityReserved, quantity)
		}
		if item.QuantityOnHand < quantity {
			return "", apperrors.WithDetailf(ErrInvalidAdjustment, "在库数量(%d)不足以出库(%d)", item.QuantityOnHand, quantity)
		}
		item.QuantityOnHand -= quantity
		item.QuantityReserved -= quantity
		return "", nil
	}, ref, actor)
}

// mutate 账本写操作的统一骨架
//
// 执行流程(每次尝试一个事务):
//  1. 加锁读取库存记录,拍快照
//  2. apply在内存中修改数量并做业务校验
//  3. 版本号CAS写入 + 追加流水
//
// CAS冲突(ErrVersionConflict)触发退避重试,其他错误直接返回
func (l *Ledger) mutate(ctx context.Context, id uint, movementType MovementType, apply func(item *StockItem) (string, error), ref Reference, actor Actor) (*Change, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "Ledger."+string(movementType))
	defer span.End()
	span.SetAttributes(
		attribute.Int("stock_item_id", int(id)),
		attribute.String("movement_type", string(movementType)),
	)

	var change *Change
	err := l.retry(ctx, string(movementType), func() error {
		return l.tx.Transaction(ctx, func(txCtx context.Context) error {
			item, err := l.repo.LockByID(txCtx, id)
			if err != nil {
				return err
			}
			before := *item

			note, err := apply(item)
			if err != nil {
				return err
			}

			movement := newMovement(movementType, &before, item, ref, actor, note)
			if err := l.repo.Apply(txCtx, item, before.Version, movement); err != nil {
				return err
			}

			change = &Change{Before: before, After: *item, Movement: *movement}
			return nil
		})
	})

	result := "success"
	if err != nil {
		result = "failure"
		tracing.RecordError(span, err)
	}
	metrics.IncCounterVec(metrics.LedgerMutationsTotal, map[string]string{"type": string(movementType), "result": result})
	if err != nil {
		return nil, err
	}

	l.logger.Debug("账本变更成功",
		zap.Uint("stock_item_id", id),
		zap.String("movement_type", string(movementType)),
		zap.Int("quantity_change", change.Movement.QuantityChange),
		zap.Int("on_hand", change.After.QuantityOnHand),
		zap.Int("reserved", change.After.QuantityReserved),
	)
	return change, nil
}

// retry 乐观锁冲突重试
// 只有ErrVersionConflict会重试,重试耗尽转换为ErrConcurrentModification
func (l *Ledger) retry(ctx context.Context, operation string, fn func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = l.opts.InitialInterval
	policy.MaxInterval = l.opts.MaxInterval
	policy.MaxElapsedTime = 0 // 由重试次数控制

	attempts := 0
	err := backoff.Retry(func() error {
		attempts++
		err := fn()
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrVersionConflict) {
			metrics.IncCounterVec(metrics.LedgerConflictsTotal, map[string]string{"operation": operation})
			return err
		}
		return backoff.Permanent(err)
	}, backoff.WithContext(backoff.WithMaxRetries(policy, l.opts.MaxRetries), ctx))

	if errors.Is(err, ErrVersionConflict) {
		l.logger.Warn("乐观锁重试耗尽",
			zap.String("operation", operation),
			zap.Int("attempts", attempts),
		)
		return ErrConcurrentModification
	}
	return err
}

// checkWarehouse 校验仓库ID
func (l *Ledger) checkWarehouse(ctx context.Context, warehouseID string) error {
	if l.warehouses == nil {
		return nil
	}
	ok, err := l.warehouses.Exists(ctx, warehouseID)
	if err != nil {
		return apperrors.Wrap(err, "查询仓库失败")
	}
	if !ok {
		return apperrors.WithDetailf(ErrValidation, "无效的仓库ID: %s", warehouseID)
	}
	return nil
}
