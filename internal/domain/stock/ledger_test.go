package stock_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/stockledger/internal/domain/stock"
	"github.com/xiebiao/stockledger/internal/infrastructure/warehouse"
	"github.com/xiebiao/stockledger/internal/testutil"
)

var admin = stock.Actor{Type: "ADMIN", ID: "u1"}

func createItem(t *testing.T, l *stock.Ledger, onHand, threshold int, backorderable bool) *stock.StockItem {
	t.Helper()
	item, err := l.Create(context.Background(), stock.CreateCommand{
		ProductID:         "P1",
		WarehouseID:       "W1",
		Quantity:          onHand,
		LowStockThreshold: testutil.IntPtr(threshold),
		Backorderable:     backorderable,
		Actor:             admin,
	})
	require.NoError(t, err)
	return item
}

func TestLedger_Create(t *testing.T) {
	env := testutil.NewLedger(t, warehouse.NewStaticDirectory([]string{"W1"}))
	ctx := context.Background()

	item := createItem(t, env.Ledger, 10, 2, false)
	assert.NotZero(t, item.ID)

	movements, err := env.Movements.ListByStockItem(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, stock.MovementStockIn, movements[0].Type)
	assert.Equal(t, 0, movements[0].QuantityBefore)
	assert.Equal(t, 10, movements[0].QuantityAfter)

	t.Run("默认阈值", func(t *testing.T) {
		got, err := env.Ledger.Create(ctx, stock.CreateCommand{ProductID: "P2", WarehouseID: "W1", Actor: admin})
		require.NoError(t, err)
		assert.Equal(t, stock.DefaultLedgerOptions().DefaultLowStockThreshold, got.LowStockThreshold)

		none, err := env.Movements.ListByStockItem(ctx, got.ID)
		require.NoError(t, err)
		assert.Empty(t, none, "初始数量为0不写流水")
	})

	t.Run("重复", func(t *testing.T) {
		_, err := env.Ledger.Create(ctx, stock.CreateCommand{ProductID: "P1", WarehouseID: "W1", Actor: admin})
		assert.ErrorIs(t, err, stock.ErrStockItemDuplicate)
	})

	t.Run("无效仓库", func(t *testing.T) {
		_, err := env.Ledger.Create(ctx, stock.CreateCommand{ProductID: "P1", WarehouseID: "W9", Actor: admin})
		assert.ErrorIs(t, err, stock.ErrValidation)
	})

	t.Run("负数", func(t *testing.T) {
		_, err := env.Ledger.Create(ctx, stock.CreateCommand{ProductID: "P3", WarehouseID: "W1", Quantity: -1})
		assert.ErrorIs(t, err, stock.ErrValidation)
	})
}

func TestLedger_Adjust(t *testing.T) {
	tests := []struct {
		name          string
		reserved      int
		backorderable bool
		cmd           stock.AdjustCommand
		wantErr       error
		wantOnHand    int
	}{
		{"入库", 0, false, stock.AdjustCommand{Delta: 5, Type: stock.MovementStockIn}, nil, 15},
		{"出库", 0, false, stock.AdjustCommand{Delta: -4, Type: stock.MovementStockOut}, nil, 6},
		{"盘点调整", 0, false, stock.AdjustCommand{Delta: -10}, nil, 0},
		{"调整为负", 0, false, stock.AdjustCommand{Delta: -11}, stock.ErrInvalidAdjustment, 10},
		{"低于已预占", 6, false, stock.AdjustCommand{Delta: -5}, stock.ErrInvalidAdjustment, 10},
		{"可预订时允许低于已预占", 6, true, stock.AdjustCommand{Delta: -5}, nil, 5},
		{"变化量为0", 0, false, stock.AdjustCommand{Delta: 0}, stock.ErrValidation, 10},
		{"入库为负", 0, false, stock.AdjustCommand{Delta: -1, Type: stock.MovementStockIn}, stock.ErrValidation, 10},
		{"出库为正", 0, false, stock.AdjustCommand{Delta: 1, Type: stock.MovementStockOut}, stock.ErrValidation, 10},
		{"不支持的类型", 0, false, stock.AdjustCommand{Delta: 1, Type: stock.MovementReservation}, stock.ErrValidation, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := testutil.NewLedger(t, nil)
			ctx := context.Background()
			item := createItem(t, env.Ledger, 10, 2, tt.backorderable)
			if tt.reserved > 0 {
				_, err := env.Ledger.TryReserve(ctx, item.ID, tt.reserved, stock.Reference{}, admin)
				require.NoError(t, err)
			}

			cmd := tt.cmd
			cmd.StockItemID = item.ID
			cmd.Actor = admin
			change, err := env.Ledger.Adjust(ctx, cmd)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, change)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantOnHand, change.After.QuantityOnHand)
				assert.Equal(t, cmd.Delta, change.Movement.QuantityChange)
			}

			got, err := env.Items.FindByID(ctx, item.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOnHand, got.QuantityOnHand)

			report, err := env.Ledger.Verify(ctx, item.ID)
			require.NoError(t, err)
			assert.True(t, report.Consistent)
		})
	}
}

func TestLedger_Adjust_NotFound(t *testing.T) {
	env := testutil.NewLedger(t, nil)
	_, err := env.Ledger.Adjust(context.Background(), stock.AdjustCommand{StockItemID: 99, Delta: 1})
	assert.ErrorIs(t, err, stock.ErrStockItemNotFound)
}

func TestLedger_ReserveConfirmRelease(t *testing.T) {
	env := testutil.NewLedger(t, nil)
	ctx := context.Background()
	item := createItem(t, env.Ledger, 10, 2, false)

	change, err := env.Ledger.TryReserve(ctx, item.ID, 4, stock.Reference{}, admin)
	require.NoError(t, err)
	assert.Equal(t, 4, change.After.QuantityReserved)
	assert.Equal(t, stock.MovementReservation, change.Movement.Type)

	_, err = env.Ledger.TryReserve(ctx, item.ID, 7, stock.Reference{}, admin)
	assert.ErrorIs(t, err, stock.ErrInsufficientStock)

	change, err = env.Ledger.ConfirmReserved(ctx, item.ID, 3, stock.Reference{}, admin)
	require.NoError(t, err)
	assert.Equal(t, 7, change.After.QuantityOnHand)
	assert.Equal(t, 1, change.After.QuantityReserved)

	_, err = env.Ledger.ConfirmReserved(ctx, item.ID, 2, stock.Reference{}, admin)
	assert.ErrorIs(t, err, stock.ErrInvalidAdjustment)

	// 释放数量超过已预占时截断为0
	change, err = env.Ledger.ReleaseReserved(ctx, item.ID, 5, "cancel", stock.Reference{}, admin)
	require.NoError(t, err)
	assert.Equal(t, 0, change.After.QuantityReserved)
	assert.Equal(t, -1, change.Movement.QuantityChange)
	assert.Equal(t, "cancel", change.Movement.Note)

	_, err = env.Ledger.TryReserve(ctx, item.ID, 0, stock.Reference{}, admin)
	assert.ErrorIs(t, err, stock.ErrValidation)

	report, err := env.Ledger.Verify(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, report.Consistent)
	assert.Equal(t, 4, report.MovementCount)
	assert.Equal(t, 7, report.ReplayedOnHand)
}

func TestLedger_UpdateAttributes(t *testing.T) {
	env := testutil.NewLedger(t, nil)
	ctx := context.Background()
	item := createItem(t, env.Ledger, 1, 0, true)

	_, err := env.Ledger.TryReserve(ctx, item.ID, 3, stock.Reference{}, admin)
	require.NoError(t, err)

	_, err = env.Ledger.UpdateAttributes(ctx, item.ID, stock.AttributeUpdate{Backorderable: testutil.BoolPtr(false)})
	assert.ErrorIs(t, err, stock.ErrInvalidAdjustment, "已超卖时不能关闭可预订")

	got, err := env.Ledger.UpdateAttributes(ctx, item.ID, stock.AttributeUpdate{
		SKU:               testutil.StringPtr("SKU-9"),
		LowStockThreshold: testutil.IntPtr(4),
	})
	require.NoError(t, err)
	assert.Equal(t, "SKU-9", got.SKU)
	assert.Equal(t, 4, got.LowStockThreshold)
	assert.True(t, got.Backorderable)

	_, err = env.Ledger.UpdateAttributes(ctx, item.ID, stock.AttributeUpdate{LowStockThreshold: testutil.IntPtr(-1)})
	assert.ErrorIs(t, err, stock.ErrValidation)

	movements, err := env.Movements.ListByStockItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Len(t, movements, 2, "属性更新不写流水")
}

func TestLedger_ConcurrentAdjustmentsAreLinearizable(t *testing.T) {
	env := testutil.NewLedger(t, nil)
	ctx := context.Background()
	item := createItem(t, env.Ledger, 0, 0, false)

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.Ledger.Adjust(ctx, stock.AdjustCommand{StockItemID: item.ID, Delta: 1, Type: stock.MovementStockIn, Actor: admin})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := env.Items.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, workers, got.QuantityOnHand)

	report, err := env.Ledger.Verify(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, report.Consistent)
	assert.Equal(t, workers, report.MovementCount)
}

type conflictingRepo struct {
	stock.Repository
	attempts int
}

func (r *conflictingRepo) Apply(context.Context, *stock.StockItem, int64, *stock.Movement) error {
	r.attempts++
	return stock.ErrVersionConflict
}

func TestLedger_RetryExhaustedReturnsConcurrentModification(t *testing.T) {
	env := testutil.NewLedger(t, nil)
	ctx := context.Background()
	item := createItem(t, env.Ledger, 10, 2, false)

	repo := &conflictingRepo{Repository: env.Items}
	opts := stock.DefaultLedgerOptions()
	opts.MaxRetries = 3
	opts.InitialInterval = 1
	opts.MaxInterval = 1
	ledger := stock.NewLedger(repo, env.Movements, env.Tx, nil, opts, nil)

	_, err := ledger.TryReserve(ctx, item.ID, 1, stock.Reference{}, admin)
	assert.ErrorIs(t, err, stock.ErrConcurrentModification)
	assert.Equal(t, 4, repo.attempts, "首次尝试 + 3次重试")
}

func TestVerify_DetectsBrokenChain(t *testing.T) {
	env := testutil.NewLedger(t, nil)
	ctx := context.Background()
	item := createItem(t, env.Ledger, 10, 2, false)

	_, err := env.Ledger.TryReserve(ctx, item.ID, 2, stock.Reference{}, admin)
	require.NoError(t, err)

	// 绕过账本直接改数量,模拟数据损坏
	require.NoError(t, env.DB.Exec("UPDATE stock_items SET quantity_on_hand = 99 WHERE id = ?", item.ID).Error)

	report, err := env.Ledger.Verify(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, report.Consistent)
	assert.Equal(t, 10, report.ReplayedOnHand)
	assert.Equal(t, 99, report.QuantityOnHand)
	assert.NotEmpty(t, report.Problem)

	// 篡改流水
	require.NoError(t, env.DB.Exec("UPDATE stock_movements SET quantity_before = 5 WHERE stock_item_id = ? AND movement_type = ?", item.ID, "RESERVATION").Error)
	report, err = env.Ledger.Verify(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, report.Consistent)
	assert.NotZero(t, report.BrokenAt)
}
