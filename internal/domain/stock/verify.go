package stock

import (
	"context"
)

// VerifyReport 流水回放核对结果
type VerifyReport struct {
	StockItemID      uint
	Consistent       bool
	MovementCount    int
	QuantityOnHand   int // 当前记录值
	QuantityReserved int
	ReplayedOnHand   int // 从0回放流水得到的值
	ReplayedReserved int
	BrokenAt         uint   // 第一条链条断裂的流水ID(0表示无)
	Problem          string // 断裂原因
}

// Verify 从0回放某库存记录的全部流水并与当前数量核对
//
// 核对项:
//  1. 每条流水 After = Before + Change
//  2. 同一维度相邻流水首尾相接
//  3. 回放结果等于当前在库/已预占数量
func (l *Ledger) Verify(ctx context.Context, id uint) (*VerifyReport, error) {
	item, err := l.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	movements, err := l.movements.ListByStockItem(ctx, id)
	if err != nil {
		return nil, err
	}

	report := &VerifyReport{
		StockItemID:      id,
		MovementCount:    len(movements),
		QuantityOnHand:   item.QuantityOnHand,
		QuantityReserved: item.QuantityReserved,
	}

	onHand, reserved := 0, 0
	for _, m := range movements {
		if report.BrokenAt == 0 {
			if problem := checkLink(m, onHand, reserved); problem != "" {
				report.BrokenAt = m.ID
				report.Problem = problem
			}
		}
		if m.Type.Dimension() == DimensionOnHand {
			onHand = m.QuantityAfter
		}
		reserved = m.ReservedAfter
	}

	report.ReplayedOnHand = onHand
	report.ReplayedReserved = reserved
	report.Consistent = report.BrokenAt == 0 &&
		onHand == item.QuantityOnHand &&
		reserved == item.QuantityReserved
	if report.BrokenAt == 0 && !report.Consistent {
		report.Problem = "回放结果与当前数量不一致"
	}
	return report, nil
}

// checkLink 检查单条流水与前序状态是否衔接
func checkLink(m *Movement, onHand, reserved int) string {
	if m.QuantityAfter != m.QuantityBefore+m.QuantityChange {
		return "quantityAfter != quantityBefore + quantityChange"
	}
	if m.ReservedBefore != reserved {
		return "预占快照与前一条流水不衔接"
	}
	switch m.Type.Dimension() {
	case DimensionOnHand:
		if m.QuantityBefore != onHand {
			return "在库维度与前一条流水不衔接"
		}
	case DimensionReserved:
		if m.QuantityBefore != reserved || m.QuantityAfter != m.ReservedAfter {
			return "预占维度与快照不一致"
		}
	}
	return ""
}
