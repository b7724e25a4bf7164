package consumer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appreservation "github.com/xiebiao/stockledger/internal/application/reservation"
	"github.com/xiebiao/stockledger/internal/application/event"
	"github.com/xiebiao/stockledger/internal/domain/reservation"
	"github.com/xiebiao/stockledger/internal/domain/stock"
	"github.com/xiebiao/stockledger/internal/infrastructure/messaging"
	"github.com/xiebiao/stockledger/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/stockledger/internal/testutil"
	apperrors "github.com/xiebiao/stockledger/pkg/errors"
	"github.com/xiebiao/stockledger/pkg/mq"
)

func newConsumer(t *testing.T) (*CheckoutConsumer, *testutil.Ledger, reservation.Repository) {
	t.Helper()
	l := testutil.NewLedger(t, nil)
	repo := mysql.NewReservationRepository(l.DB)
	notifier := event.NewNotifier(messaging.NoopPublisher{}, zap.NewNop())
	manager := appreservation.NewManager(l.Ledger, l.Items, repo, l.Tx, notifier, appreservation.DefaultOptions(), zap.NewNop())

	_, err := l.Ledger.Create(context.Background(), stock.CreateCommand{
		ProductID: "P1", WarehouseID: "W1", Quantity: 5, Actor: stock.SystemActor,
	})
	require.NoError(t, err)

	return NewCheckoutConsumer(manager, zap.NewNop()), l, repo
}

func message(key, body string) mq.Message {
	return mq.Message{RoutingKey: key, MessageID: "m1", Body: []byte(body)}
}

func TestCheckoutConsumer_Flow(t *testing.T) {
	c, l, repo := newConsumer(t)
	ctx := context.Background()

	require.NoError(t, c.Handle(ctx, message(KeyReserve,
		`{"orderId":"O1","lines":[{"productId":"P1","warehouseId":"W1","quantity":2}],"ttlSeconds":60}`)))

	active, err := repo.ListActiveByOrder(ctx, "O1")
	require.NoError(t, err)
	require.Len(t, active, 1)

	require.NoError(t, c.Handle(ctx, message(KeyCommit, `{"reservationId":1}`)))

	item, err := l.Items.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, item.QuantityOnHand)
	assert.Equal(t, 0, item.QuantityReserved)
}

func TestCheckoutConsumer_RedeliveredReserve(t *testing.T) {
	c, l, repo := newConsumer(t)
	ctx := context.Background()

	msg := message(KeyReserve,
		`{"orderId":"O1","lines":[{"productId":"P1","warehouseId":"W1","quantity":2}],"ttlSeconds":60}`)
	require.NoError(t, c.Handle(ctx, msg))

	msg.Redelivered = true
	require.NoError(t, c.Handle(ctx, msg))

	active, err := repo.ListActiveByOrder(ctx, "O1")
	require.NoError(t, err)
	assert.Len(t, active, 1)

	item, err := l.Items.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, item.QuantityReserved)
}

func TestCheckoutConsumer_ReleaseOrder(t *testing.T) {
	c, l, _ := newConsumer(t)
	ctx := context.Background()

	require.NoError(t, c.Handle(ctx, message(KeyReserve,
		`{"orderId":"O1","lines":[{"productId":"P1","warehouseId":"W1","quantity":2}]}`)))
	require.NoError(t, c.Handle(ctx, message(KeyReleaseOrder, `{"orderId":"O1","reason":"payment_timeout"}`)))

	item, err := l.Items.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, item.QuantityReserved)
}

func TestCheckoutConsumer_AckPolicy(t *testing.T) {
	c, _, _ := newConsumer(t)
	ctx := context.Background()

	tests := []struct {
		name string
		msg  mq.Message
	}{
		{"非法JSON", message(KeyCommit, `{not json`)},
		{"未知路由键", message("checkout.refund", `{}`)},
		{"库存不足", message(KeyReserve, `{"orderId":"O2","lines":[{"productId":"P1","warehouseId":"W1","quantity":9}]}`)},
		{"预占不存在", message(KeyRelease, `{"reservationId":42}`)},
		{"库存记录不存在", message(KeyReserve, `{"orderId":"O3","lines":[{"productId":"P9","warehouseId":"W1","quantity":1}]}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, c.Handle(ctx, tt.msg))
		})
	}
}

func TestRetryable(t *testing.T) {
	assert.True(t, retryable(stock.ErrConcurrentModification))
	assert.True(t, retryable(apperrors.WithDetail(stock.ErrConcurrentModification, "重试耗尽")))
	assert.True(t, retryable(fmt.Errorf("%w: %w",
		apperrors.WithDetail(stock.ErrConcurrentModification, "查询库存记录失败"), errors.New("Error 1213: Deadlock found"))))
	assert.True(t, retryable(errors.New("connection refused")))
	assert.True(t, retryable(context.Canceled))
	assert.False(t, retryable(stock.ErrInsufficientStock))
	assert.False(t, retryable(reservation.ErrInvalidTransition))
}
