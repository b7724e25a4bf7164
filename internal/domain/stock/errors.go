package stock

import (
	"errors"

	apperrors "github.com/xiebiao/stockledger/pkg/errors"
)

// 库存领域错误定义
var (
	// ErrStockItemNotFound 库存记录不存在
	ErrStockItemNotFound = apperrors.New(apperrors.ErrCodeStockItemNotFound, "库存记录不存在")

	// ErrStockItemDuplicate 同一商品在同一仓库已存在库存记录
	ErrStockItemDuplicate = apperrors.New(apperrors.ErrCodeDuplicateEntry, "该商品在此仓库已存在库存记录")

	// ErrInsufficientStock 可用库存不足(且不可预订)
	ErrInsufficientStock = apperrors.New(apperrors.ErrCodeInsufficientStock, "可用库存不足")

	// ErrInvalidAdjustment 调整后在库数量为负等非法调整
	ErrInvalidAdjustment = apperrors.New(apperrors.ErrCodeInvalidAdjustment, "库存调整非法")

	// ErrConcurrentModification 乐观锁重试耗尽,调用方可稍后重试
	ErrConcurrentModification = apperrors.New(apperrors.ErrCodeConcurrentModification, "库存记录并发修改冲突,请重试")

	// ErrValidation 参数或导入行校验失败
	ErrValidation = apperrors.New(apperrors.ErrCodeInvalidParams, "数据校验失败")
)

// ErrVersionConflict 版本号CAS失败
// 仅在Ledger与Repository之间传递,由Ledger重试或转换为ErrConcurrentModification
var ErrVersionConflict = errors.New("stock item version conflict")
