package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMovementType_Dimension(t *testing.T) {
	onHand := []MovementType{MovementStockIn, MovementStockOut, MovementAdjustment, MovementBulkImport, MovementReservationConfirm}
	for _, mt := range onHand {
		assert.Equal(t, DimensionOnHand, mt.Dimension(), mt)
	}
	for _, mt := range []MovementType{MovementReservation, MovementReservationRelease} {
		assert.Equal(t, DimensionReserved, mt.Dimension(), mt)
	}
	assert.False(t, MovementType("TRANSFER").IsValid())
}

func TestNewMovement(t *testing.T) {
	before := &StockItem{ID: 7, ProductID: "P1", WarehouseID: "W1", QuantityOnHand: 10, QuantityReserved: 4}
	ref := Reference{Type: "RESERVATION", ID: "3"}
	actor := Actor{Type: "ADMIN", ID: "u1"}

	t.Run("预占维度", func(t *testing.T) {
		after := *before
		after.QuantityReserved = 6

		m := newMovement(MovementReservation, before, &after, ref, actor, "")
		assert.Equal(t, 4, m.QuantityBefore)
		assert.Equal(t, 6, m.QuantityAfter)
		assert.Equal(t, 2, m.QuantityChange)
		assert.Equal(t, 4, m.ReservedBefore)
		assert.Equal(t, 6, m.ReservedAfter)
		assert.Equal(t, "P1", m.ProductID)
		assert.Equal(t, "3", m.ReferenceID)
	})

	t.Run("确认同时扣减两个维度", func(t *testing.T) {
		after := *before
		after.QuantityOnHand = 7
		after.QuantityReserved = 1

		m := newMovement(MovementReservationConfirm, before, &after, ref, actor, "")
		assert.Equal(t, 10, m.QuantityBefore)
		assert.Equal(t, 7, m.QuantityAfter)
		assert.Equal(t, -3, m.QuantityChange)
		assert.Equal(t, 4, m.ReservedBefore)
		assert.Equal(t, 1, m.ReservedAfter)
	})

	t.Run("调整", func(t *testing.T) {
		after := *before
		after.QuantityOnHand = 15

		m := newMovement(MovementAdjustment, before, &after, Reference{}, actor, "盘盈")
		assert.Equal(t, 5, m.QuantityChange)
		assert.Equal(t, "盘盈", m.Note)
		assert.Equal(t, m.QuantityBefore+m.QuantityChange, m.QuantityAfter)
	})
}
