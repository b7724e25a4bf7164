package stock

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xiebiao/stockledger/internal/domain/stock"
	apperrors "github.com/xiebiao/stockledger/pkg/errors"
)

// maxBulkRows 单次导入最大行数
const maxBulkRows = 1000

// BulkImportUseCase 批量导入用例
// 设计说明:
// 1. 每行独立处理,单行失败只记入errors,不影响整批
// 2. 已存在记录的在库数量不会被覆盖,提示记入warnings
// 3. 同一批次的流水共用一个IMPORT引用,便于按批次追溯
type BulkImportUseCase struct {
	ledger *stock.Ledger
	logger *zap.Logger
}

// NewBulkImportUseCase 创建用例
func NewBulkImportUseCase(ledger *stock.Ledger, logger *zap.Logger) *BulkImportUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BulkImportUseCase{ledger: ledger, logger: logger.Named("bulk-import")}
}

// BulkImportRequest 导入请求
type BulkImportRequest struct {
	Items []stock.BulkRow
	Actor stock.Actor
}

// BulkRowResult 单行结果
type BulkRowResult struct {
	Row         int    `json:"row"`
	Action      string `json:"action"`
	StockItemID uint   `json:"stockItemId,omitempty"`
	Error       string `json:"error,omitempty"`
	Warning     string `json:"warning,omitempty"`
}

// BulkImportResponse 导入结果
type BulkImportResponse struct {
	BatchID        string          `json:"batchId"`
	TotalProcessed int             `json:"totalProcessed"`
	Created        int             `json:"created"`
	Updated        int             `json:"updated"`
	Failed         int             `json:"failed"`
	Errors         []string        `json:"errors"`
	Warnings       []string        `json:"warnings"`
	Results        []BulkRowResult `json:"results"`
}

// Execute 执行导入
func (uc *BulkImportUseCase) Execute(ctx context.Context, req BulkImportRequest) (*BulkImportResponse, error) {
	// 1. 批量大小校验
	if len(req.Items) == 0 {
		return nil, apperrors.WithDetail(stock.ErrValidation, "导入数据不能为空")
	}
	if len(req.Items) > maxBulkRows {
		return nil, apperrors.WithDetailf(stock.ErrValidation, "单次最多导入%d行", maxBulkRows)
	}

	// 2. 逐行导入
	batchID := uuid.NewString()
	results, err := uc.ledger.BulkUpsert(ctx, req.Items, stock.Reference{Type: "IMPORT", ID: batchID}, req.Actor)

	// 3. 汇总结果(ctx取消时已处理的行照常返回)
	resp := &BulkImportResponse{
		BatchID:  batchID,
		Errors:   []string{},
		Warnings: []string{},
		Results:  make([]BulkRowResult, 0, len(results)),
	}
	for _, r := range results {
		row := BulkRowResult{Row: r.Row, Action: string(r.Action), Warning: r.Warning}
		if r.Item != nil {
			row.StockItemID = r.Item.ID
		}

		switch r.Action {
		case stock.BulkCreated:
			resp.Created++
		case stock.BulkUpdated:
			resp.Updated++
		case stock.BulkFailed:
			resp.Failed++
			msg := apperrors.GetAppError(r.Err).Message
			row.Error = msg
			resp.Errors = append(resp.Errors, fmt.Sprintf("row %d: %s", r.Row, msg))
		}
		if r.Warning != "" {
			resp.Warnings = append(resp.Warnings, fmt.Sprintf("row %d: %s", r.Row, r.Warning))
		}
		resp.Results = append(resp.Results, row)
	}
	resp.TotalProcessed = len(results)

	uc.logger.Info("批量导入完成",
		zap.String("batch_id", batchID),
		zap.Int("total", len(req.Items)),
		zap.Int("processed", resp.TotalProcessed),
		zap.Int("created", resp.Created),
		zap.Int("updated", resp.Updated),
		zap.Int("failed", resp.Failed),
	)

	if err != nil {
		return resp, err
	}
	return resp, nil
}
