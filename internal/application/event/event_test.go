package event_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/stockledger/internal/application/event"
	"github.com/xiebiao/stockledger/internal/domain/stock"
)

type recordingPublisher struct {
	mu     sync.Mutex
	keys   []string
	events []event.Envelope
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
	p.events = append(p.events, payload.(event.Envelope))
	return p.err
}

func TestNotifier_StockChange(t *testing.T) {
	pub := &recordingPublisher{}
	n := event.NewNotifier(pub, nil)

	before := stock.StockItem{ID: 1, ProductID: "P1", WarehouseID: "W1", QuantityOnHand: 10, LowStockThreshold: 2}
	after := before
	after.QuantityOnHand = 2

	n.StockChange(context.Background(), &stock.Change{
		Before:   before,
		After:    after,
		Movement: stock.Movement{Type: stock.MovementStockOut, QuantityChange: -8, Note: "报损"},
	})

	require.Equal(t, []string{event.StockAdjusted, event.StockStatusChanged}, pub.keys)

	adjusted := pub.events[0].Data.(event.StockAdjustedEvent)
	assert.Equal(t, -8, adjusted.QuantityChange)
	assert.Equal(t, 2, adjusted.Available)
	assert.Equal(t, "报损", adjusted.Reason)

	changed := pub.events[1].Data.(event.StockStatusChangedEvent)
	assert.Equal(t, "IN_STOCK", changed.From)
	assert.Equal(t, "LOW_STOCK", changed.To)
	assert.NotEmpty(t, pub.events[1].EventID)
}

func TestNotifier_ReservationMovementWithoutStatusChange(t *testing.T) {
	pub := &recordingPublisher{}
	n := event.NewNotifier(pub, nil)

	before := stock.StockItem{ID: 1, QuantityOnHand: 100, LowStockThreshold: 2}
	after := before
	after.QuantityReserved = 1

	n.StockChange(context.Background(), &stock.Change{
		Before:   before,
		After:    after,
		Movement: stock.Movement{Type: stock.MovementReservation},
	})

	assert.Empty(t, pub.keys)
}

func TestNotifier_PublishFailureIsSwallowed(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	n := event.NewNotifier(pub, nil)

	assert.NotPanics(t, func() {
		n.Emit(context.Background(), event.ReservationCreated, map[string]string{"k": "v"})
	})
	assert.Len(t, pub.keys, 1)
}

func TestNotifier_NilPublisher(t *testing.T) {
	var n *event.Notifier
	assert.NotPanics(t, func() {
		n.Emit(context.Background(), event.StockAdjusted, nil)
	})

	n = event.NewNotifier(nil, nil)
	assert.NotPanics(t, func() {
		n.Emit(context.Background(), event.StockAdjusted, nil)
	})
}
