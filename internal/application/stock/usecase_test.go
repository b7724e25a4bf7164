package stock_test

import (
	"context"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appstock "github.com/xiebiao/stockledger/internal/application/stock"
	"github.com/xiebiao/stockledger/internal/application/event"
	"github.com/xiebiao/stockledger/internal/domain/stock"
	"github.com/xiebiao/stockledger/internal/infrastructure/warehouse"
	"github.com/xiebiao/stockledger/internal/testutil"
)

var admin = stock.Actor{Type: "ADMIN", ID: "u1"}

type capturePublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *capturePublisher) Publish(_ context.Context, key string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	return nil
}

func (p *capturePublisher) Keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}

type fixture struct {
	env *testutil.Ledger
	pub *capturePublisher
}

func newFixture(t *testing.T, warehouses ...string) *fixture {
	var dir stock.WarehouseDirectory
	if len(warehouses) > 0 {
		dir = warehouse.NewStaticDirectory(warehouses)
	}
	return &fixture{env: testutil.NewLedger(t, dir), pub: &capturePublisher{}}
}

func (f *fixture) notifier() *event.Notifier {
	return event.NewNotifier(f.pub, zap.NewNop())
}

func (f *fixture) create(t *testing.T, product string, qty, threshold int) *appstock.StockItemDTO {
	t.Helper()
	dto, err := appstock.NewCreateStockUseCase(f.env.Ledger, f.notifier()).Execute(context.Background(), appstock.CreateStockRequest{
		ProductID:         product,
		WarehouseID:       "W1",
		QuantityOnHand:    qty,
		LowStockThreshold: testutil.IntPtr(threshold),
		Actor:             admin,
	})
	require.NoError(t, err)
	return dto
}

func TestBulkImport_ScenarioC(t *testing.T) {
	f := newFixture(t, "W1", "W2")
	uc := appstock.NewBulkImportUseCase(f.env.Ledger, zap.NewNop())

	resp, err := uc.Execute(context.Background(), appstock.BulkImportRequest{
		Items: []stock.BulkRow{
			{ProductID: "P1", WarehouseID: "W1", QuantityOnHand: testutil.IntPtr(5)},
			{ProductID: "P2", WarehouseID: "NOPE", QuantityOnHand: testutil.IntPtr(5)},
			{ProductID: "P3", WarehouseID: "W2", QuantityOnHand: testutil.IntPtr(7)},
		},
		Actor: admin,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.TotalProcessed)
	assert.Equal(t, 2, resp.Created)
	assert.Equal(t, 0, resp.Updated)
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0], "row 2: ")
	assert.Contains(t, resp.Errors[0], "NOPE")

	ctx := context.Background()
	p1, err := f.env.Items.FindByProductWarehouse(ctx, "P1", "W1")
	require.NoError(t, err)
	assert.Equal(t, 5, p1.QuantityOnHand)

	p3, err := f.env.Items.FindByProductWarehouse(ctx, "P3", "W2")
	require.NoError(t, err)
	assert.Equal(t, 7, p3.QuantityOnHand)

	_, err = f.env.Items.FindByProductWarehouse(ctx, "P2", "NOPE")
	assert.ErrorIs(t, err, stock.ErrStockItemNotFound)

	// 初始流水类型为BULK_IMPORT,引用批次
	movements, err := f.env.Movements.ListByStockItem(ctx, p1.ID)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, stock.MovementBulkImport, movements[0].Type)
	assert.Equal(t, resp.BatchID, movements[0].ReferenceID)
}

func TestBulkImport_UpdateDoesNotOverwriteQuantity(t *testing.T) {
	f := newFixture(t)
	existing := f.create(t, "P1", 10, 2)
	uc := appstock.NewBulkImportUseCase(f.env.Ledger, zap.NewNop())

	resp, err := uc.Execute(context.Background(), appstock.BulkImportRequest{
		Items: []stock.BulkRow{
			{ProductID: "P1", WarehouseID: "W1", QuantityOnHand: testutil.IntPtr(99), LowStockThreshold: testutil.IntPtr(5)},
			{ProductID: "", WarehouseID: "W1"},
		},
		Actor: admin,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Updated)
	assert.Equal(t, 1, resp.Failed)
	require.Len(t, resp.Warnings, 1)
	assert.Contains(t, resp.Warnings[0], "row 1: ")
	assert.Contains(t, resp.Errors[0], "productId")

	item, err := f.env.Items.FindByID(context.Background(), existing.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, item.QuantityOnHand)
	assert.Equal(t, 5, item.LowStockThreshold)
}

func TestBulkImport_EmptyRejected(t *testing.T) {
	f := newFixture(t)
	_, err := appstock.NewBulkImportUseCase(f.env.Ledger, nil).Execute(context.Background(), appstock.BulkImportRequest{})
	assert.ErrorIs(t, err, stock.ErrValidation)
}

func TestAdjustStock_PublishesEvents(t *testing.T) {
	f := newFixture(t)
	item := f.create(t, "P1", 10, 2)
	uc := appstock.NewAdjustStockUseCase(f.env.Ledger, f.notifier())

	resp, err := uc.Execute(context.Background(), appstock.AdjustStockRequest{
		StockItemID:    item.ID,
		QuantityChange: -9,
		MovementType:   "STOCK_OUT",
		Reason:         "报损",
		Actor:          admin,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Item.QuantityOnHand)
	assert.Equal(t, "LOW_STOCK", resp.Item.StockStatus)
	assert.Equal(t, "STOCK_OUT", resp.Movement.MovementType)
	assert.Equal(t, 10, resp.Movement.QuantityBefore)
	assert.Equal(t, 1, resp.Movement.QuantityAfter)
	assert.Equal(t, "报损", resp.Movement.Note)
	assert.Equal(t, []string{event.StockAdjusted, event.StockStatusChanged}, f.pub.Keys())
}

func TestAdjustStock_NegativeRejected(t *testing.T) {
	f := newFixture(t)
	item := f.create(t, "P1", 3, 0)

	_, err := appstock.NewAdjustStockUseCase(f.env.Ledger, f.notifier()).Execute(context.Background(), appstock.AdjustStockRequest{
		StockItemID:    item.ID,
		QuantityChange: -4,
		Actor:          admin,
	})
	assert.ErrorIs(t, err, stock.ErrInvalidAdjustment)
	assert.Empty(t, f.pub.Keys())
}

func TestUpdateStock(t *testing.T) {
	f := newFixture(t)
	item := f.create(t, "P1", 5, 2)

	dto, err := appstock.NewUpdateStockUseCase(f.env.Ledger, f.env.Items, f.notifier()).Execute(context.Background(), appstock.UpdateStockRequest{
		ID:                item.ID,
		SKU:               testutil.StringPtr("SKU-1"),
		LowStockThreshold: testutil.IntPtr(5),
	})
	require.NoError(t, err)

	assert.Equal(t, "SKU-1", dto.SKU)
	assert.Equal(t, "LOW_STOCK", dto.StockStatus)
	assert.Equal(t, 5, dto.QuantityOnHand)
	assert.Equal(t, item.Version+1, dto.Version)
	assert.Equal(t, []string{event.StockStatusChanged}, f.pub.Keys())
}

func TestListStock_LowStockAndStatusFilter(t *testing.T) {
	f := newFixture(t)
	f.create(t, "P1", 100, 5) // IN_STOCK
	f.create(t, "P2", 3, 5)   // LOW_STOCK
	f.create(t, "P3", 0, 5)   // OUT_OF_STOCK

	uc := appstock.NewListStockUseCase(f.env.Items)
	ctx := context.Background()

	low, err := uc.Execute(ctx, appstock.ListStockRequest{LowStock: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), low.Total)
	assert.Equal(t, 20, low.PageSize)

	out, err := uc.Execute(ctx, appstock.ListStockRequest{Status: "OUT_OF_STOCK"})
	require.NoError(t, err)
	require.Len(t, out.List, 1)
	assert.Equal(t, "P3", out.List[0].ProductID)

	_, err = uc.Execute(ctx, appstock.ListStockRequest{Status: "WHATEVER"})
	assert.ErrorIs(t, err, stock.ErrValidation)
}

func TestListStock_LowStockMatchesIsLowStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, "P1", 100, 5) // IN_STOCK
	f.create(t, "P2", 3, 5)   // LOW_STOCK
	f.create(t, "P3", 0, 5)   // OUT_OF_STOCK
	_, err := f.env.Ledger.Create(ctx, stock.CreateCommand{
		ProductID:         "P4",
		WarehouseID:       "W1",
		LowStockThreshold: testutil.IntPtr(5),
		Backorderable:     true,
		Actor:             admin,
	})
	require.NoError(t, err)

	low, err := appstock.NewListStockUseCase(f.env.Items).Execute(ctx, appstock.ListStockRequest{LowStock: true})
	require.NoError(t, err)

	var listed []string
	for _, dto := range low.List {
		listed = append(listed, dto.ProductID)
	}
	assert.Equal(t, []string{"P2", "P3"}, listed, "可预订记录仍可售,不算低库存")

	all, _, err := f.env.Items.List(ctx, stock.ListParams{PageSize: 100})
	require.NoError(t, err)
	for _, item := range all {
		assert.Equal(t, item.IsLowStock(), slices.Contains(listed, item.ProductID), item.ProductID)
	}
}

func TestListMovements(t *testing.T) {
	f := newFixture(t)
	item := f.create(t, "P1", 10, 2)
	ctx := context.Background()

	_, err := f.env.Ledger.TryReserve(ctx, item.ID, 2, stock.Reference{Type: "ORDER", ID: "O1"}, admin)
	require.NoError(t, err)

	uc := appstock.NewListMovementsUseCase(f.env.Items, f.env.Movements)

	all, err := uc.Execute(ctx, appstock.ListMovementsRequest{StockItemID: item.ID})
	require.NoError(t, err)
	require.Len(t, all.List, 2)
	assert.Equal(t, "RESERVATION", all.List[0].MovementType, "按时间倒序")
	assert.Equal(t, "RESERVED", all.List[0].Dimension)

	filtered, err := uc.Execute(ctx, appstock.ListMovementsRequest{MovementType: "STOCK_IN"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), filtered.Total)

	_, err = uc.Execute(ctx, appstock.ListMovementsRequest{StockItemID: 999})
	assert.ErrorIs(t, err, stock.ErrStockItemNotFound)

	_, err = uc.Execute(ctx, appstock.ListMovementsRequest{MovementType: "BAD"})
	assert.ErrorIs(t, err, stock.ErrValidation)
}

func TestVerifyStock(t *testing.T) {
	f := newFixture(t)
	item := f.create(t, "P1", 10, 2)
	ctx := context.Background()

	_, err := f.env.Ledger.TryReserve(ctx, item.ID, 4, stock.Reference{}, admin)
	require.NoError(t, err)
	_, err = f.env.Ledger.ConfirmReserved(ctx, item.ID, 3, stock.Reference{}, admin)
	require.NoError(t, err)

	resp, err := appstock.NewVerifyStockUseCase(f.env.Ledger, nil).Execute(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, resp.Consistent)
	assert.Equal(t, 7, resp.ReplayedOnHand)
	assert.Equal(t, 1, resp.ReplayedReserved)
	assert.Equal(t, 3, resp.MovementCount)
}

func TestGetStock_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := appstock.NewGetStockUseCase(f.env.Items).Execute(context.Background(), 42)
	assert.ErrorIs(t, err, stock.ErrStockItemNotFound)
}
