package stock

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/stockledger/pkg/errors"
	"github.com/xiebiao/stockledger/pkg/metrics"
	"github.com/xiebiao/stockledger/pkg/tracing"
)

// BulkRow 批量导入的一行
// 指针字段为nil表示该列未提供
type BulkRow struct {
	ProductID         string `label:"productId" validate:"required,max=64"`
	VendorID          string `label:"vendorId" validate:"omitempty,max=64"`
	WarehouseID       string `label:"warehouseId" validate:"required,max=64"`
	SKU               string `label:"sku" validate:"omitempty,max=64"`
	QuantityOnHand    *int   `label:"quantityOnHand" validate:"omitempty,min=0"`
	LowStockThreshold *int   `label:"lowStockThreshold" validate:"omitempty,min=0"`
	Backorderable     *bool  `label:"backorderable"`
}

// BulkAction 单行处理结果
type BulkAction string

const (
	BulkCreated BulkAction = "created"
	BulkUpdated BulkAction = "updated"
	BulkFailed  BulkAction = "failed"
)

// BulkResult 单行处理结果
type BulkResult struct {
	Row     int // 行号(从1开始)
	Action  BulkAction
	Item    *StockItem
	Warning string // 非致命提示(如忽略了已存在记录的在库数量)
	Err     error
}

var rowValidator = newRowValidator()

func newRowValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("label"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

// BulkUpsert 批量导入
//
// 规则:
//  1. 记录不存在则创建,在库数量只在创建时生效(写BULK_IMPORT流水)
//  2. 记录已存在只更新SKU/阈值/可预订标记;在库数量必须通过Adjust显式调整
//  3. 每行独立事务,单行失败记录在结果中,不影响其他行
//
// 只有ctx被取消时返回error,此时已处理的行保持提交状态
func (l *Ledger) BulkUpsert(ctx context.Context, rows []BulkRow, batchRef Reference, actor Actor) ([]BulkResult, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "Ledger.BulkUpsert")
	defer span.End()

	results := make([]BulkResult, 0, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result := l.upsertRow(ctx, row, batchRef, actor)
		result.Row = i + 1
		results = append(results, result)

		metrics.IncCounterVec(metrics.BulkImportRowsTotal, map[string]string{"result": string(result.Action)})
		if result.Err != nil {
			l.logger.Info("导入行处理失败",
				zap.Int("row", result.Row),
				zap.String("product_id", row.ProductID),
				zap.String("warehouse_id", row.WarehouseID),
				zap.Error(result.Err),
			)
		}
	}
	return results, nil
}

// upsertRow 处理单行
func (l *Ledger) upsertRow(ctx context.Context, row BulkRow, batchRef Reference, actor Actor) BulkResult {
	// 1. 字段校验
	if err := rowValidator.Struct(row); err != nil {
		return BulkResult{Action: BulkFailed, Err: apperrors.WithDetail(ErrValidation, describeValidation(err))}
	}
	if err := l.checkWarehouse(ctx, row.WarehouseID); err != nil {
		return BulkResult{Action: BulkFailed, Err: err}
	}

	// 2. 判断新建还是更新
	existing, err := l.repo.FindByProductWarehouse(ctx, row.ProductID, row.WarehouseID)
	if err != nil && !errors.Is(err, ErrStockItemNotFound) {
		return BulkResult{Action: BulkFailed, Err: err}
	}

	if existing == nil {
		quantity := 0
		if row.QuantityOnHand != nil {
			quantity = *row.QuantityOnHand
		}
		backorderable := row.Backorderable != nil && *row.Backorderable

		item, err := l.Create(ctx, CreateCommand{
			ProductID:         row.ProductID,
			VendorID:          row.VendorID,
			WarehouseID:       row.WarehouseID,
			SKU:               row.SKU,
			Quantity:          quantity,
			LowStockThreshold: row.LowStockThreshold,
			Backorderable:     backorderable,
			Source:            MovementBulkImport,
			Reference:         batchRef,
			Actor:             actor,
		})
		if err == nil {
			return BulkResult{Action: BulkCreated, Item: item}
		}
		if !errors.Is(err, ErrStockItemDuplicate) {
			return BulkResult{Action: BulkFailed, Err: err}
		}

		// 并发导入抢先创建了同一记录,转为更新
		existing, err = l.repo.FindByProductWarehouse(ctx, row.ProductID, row.WarehouseID)
		if err != nil {
			return BulkResult{Action: BulkFailed, Err: err}
		}
	}

	// 3. 更新属性
	update := AttributeUpdate{
		LowStockThreshold: row.LowStockThreshold,
		Backorderable:     row.Backorderable,
	}
	if row.SKU != "" {
		sku := row.SKU
		update.SKU = &sku
	}

	item, err := l.UpdateAttributes(ctx, existing.ID, update)
	if err != nil {
		return BulkResult{Action: BulkFailed, Err: err}
	}

	result := BulkResult{Action: BulkUpdated, Item: item}
	if row.QuantityOnHand != nil && *row.QuantityOnHand != item.QuantityOnHand {
		result.Warning = fmt.Sprintf("已存在记录的在库数量不会被导入覆盖(当前%d,导入%d),请使用库存调整",
			item.QuantityOnHand, *row.QuantityOnHand)
	}
	return result
}

// describeValidation 将validator错误转为可读信息
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s不能为空", fe.Field()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s不能小于%s", fe.Field(), fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s长度不能超过%s", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s校验失败(%s)", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
