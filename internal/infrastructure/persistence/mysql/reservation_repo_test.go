package mysql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/stockledger/internal/domain/reservation"
	"github.com/xiebiao/stockledger/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/stockledger/internal/testutil"
)

func TestReservationRepository_CreateAndFind(t *testing.T) {
	db := testutil.NewDB(t)
	repo := mysql.NewReservationRepository(db)
	ctx := context.Background()

	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	r := reservation.New("O1", "P1", "W1", 7, 3, now, 15*time.Minute)
	require.NoError(t, repo.Create(ctx, r))
	assert.NotZero(t, r.ID)

	got, err := repo.FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "O1", got.OrderID)
	assert.Equal(t, reservation.StatusReserved, got.Status)
	assert.True(t, got.ExpiresAt.Equal(now.Add(15*time.Minute)))
	assert.Nil(t, got.ConfirmedAt)

	_, err = repo.FindByID(ctx, 999)
	assert.True(t, errors.Is(err, reservation.ErrReservationNotFound))
}

func TestReservationRepository_TransitionOnlyOnce(t *testing.T) {
	db := testutil.NewDB(t)
	repo := mysql.NewReservationRepository(db)
	ctx := context.Background()

	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	r := reservation.New("O1", "P1", "W1", 7, 3, now, time.Minute)
	require.NoError(t, repo.Create(ctx, r))

	confirm := *r
	require.NoError(t, confirm.Confirm(now))
	require.NoError(t, repo.Transition(ctx, &confirm, reservation.StatusReserved))

	// 另一个请求基于旧快照尝试释放,条件更新不命中
	release := *r
	require.NoError(t, release.Release(now, reservation.ReasonOrderCancelled))
	err := repo.Transition(ctx, &release, reservation.StatusReserved)
	assert.True(t, errors.Is(err, reservation.ErrInvalidTransition))

	got, err := repo.FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, reservation.StatusConfirmed, got.Status)
	require.NotNil(t, got.ConfirmedAt)
	assert.Nil(t, got.ReleasedAt)
}

func TestReservationRepository_ListExpired(t *testing.T) {
	db := testutil.NewDB(t)
	repo := mysql.NewReservationRepository(db)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	early := reservation.New("O1", "P1", "W1", 1, 1, base, time.Minute)
	late := reservation.New("O2", "P1", "W1", 1, 1, base, time.Hour)
	done := reservation.New("O3", "P1", "W1", 1, 1, base, time.Minute)
	for _, r := range []*reservation.Reservation{late, early, done} {
		require.NoError(t, repo.Create(ctx, r))
	}
	require.NoError(t, done.Confirm(base))
	require.NoError(t, repo.Transition(ctx, done, reservation.StatusReserved))

	expired, err := repo.ListExpired(ctx, base.Add(2*time.Minute), nil, 10)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, early.ID, expired[0].ID)

	expired, err = repo.ListExpired(ctx, base.Add(2*time.Hour), nil, 10)
	require.NoError(t, err)
	require.Len(t, expired, 2)
	assert.Equal(t, early.ID, expired[0].ID)
	assert.Equal(t, late.ID, expired[1].ID)

	expired, err = repo.ListExpired(ctx, base.Add(2*time.Hour), nil, 1)
	require.NoError(t, err)
	assert.Len(t, expired, 1)
}

func TestReservationRepository_ListExpiredAfterCursor(t *testing.T) {
	db := testutil.NewDB(t)
	repo := mysql.NewReservationRepository(db)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	a := reservation.New("O1", "P1", "W1", 1, 1, base, time.Minute)
	b := reservation.New("O2", "P1", "W1", 1, 1, base, time.Minute) // 与a同时到期
	c := reservation.New("O3", "P1", "W1", 1, 1, base, 2*time.Minute)
	for _, r := range []*reservation.Reservation{a, b, c} {
		require.NoError(t, repo.Create(ctx, r))
	}
	now := base.Add(time.Hour)

	page, err := repo.ListExpired(ctx, now, nil, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, a.ID, page[0].ID)

	// a仍为RESERVED,游标之后不再返回
	page, err = repo.ListExpired(ctx, now, reservation.CursorOf(page[0]), 10)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, b.ID, page[0].ID)
	assert.Equal(t, c.ID, page[1].ID)

	page, err = repo.ListExpired(ctx, now, reservation.CursorOf(page[1]), 10)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestReservationRepository_ListActiveByOrderAndList(t *testing.T) {
	db := testutil.NewDB(t)
	repo := mysql.NewReservationRepository(db)
	ctx := context.Background()

	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	a := reservation.New("O1", "P1", "W1", 1, 1, now, time.Minute)
	b := reservation.New("O1", "P2", "W1", 2, 2, now, time.Minute)
	c := reservation.New("O2", "P1", "W1", 1, 1, now, time.Minute)
	for _, r := range []*reservation.Reservation{a, b, c} {
		require.NoError(t, repo.Create(ctx, r))
	}
	require.NoError(t, b.Release(now, reservation.ReasonOrderCancelled))
	require.NoError(t, repo.Transition(ctx, b, reservation.StatusReserved))

	active, err := repo.ListActiveByOrder(ctx, "O1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, a.ID, active[0].ID)

	list, total, err := repo.List(ctx, reservation.ListParams{ProductID: "P1"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 2)

	list, total, err = repo.List(ctx, reservation.ListParams{Status: reservation.StatusReleased})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, b.ID, list[0].ID)
}

func TestReservationRepository_ListHeldByOrder(t *testing.T) {
	db := testutil.NewDB(t)
	repo := mysql.NewReservationRepository(db)
	ctx := context.Background()

	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	reserved := reservation.New("O1", "P1", "W1", 1, 1, now, time.Minute)
	confirmed := reservation.New("O1", "P2", "W1", 2, 1, now, time.Minute)
	released := reservation.New("O1", "P3", "W1", 3, 1, now, time.Minute)
	other := reservation.New("O2", "P1", "W1", 1, 1, now, time.Minute)
	for _, r := range []*reservation.Reservation{reserved, confirmed, released, other} {
		require.NoError(t, repo.Create(ctx, r))
	}
	require.NoError(t, confirmed.Confirm(now))
	require.NoError(t, repo.Transition(ctx, confirmed, reservation.StatusReserved))
	require.NoError(t, released.Release(now, reservation.ReasonOrderCancelled))
	require.NoError(t, repo.Transition(ctx, released, reservation.StatusReserved))

	held, err := repo.ListHeldByOrder(ctx, "O1")
	require.NoError(t, err)
	require.Len(t, held, 2)
	assert.Equal(t, reserved.ID, held[0].ID)
	assert.Equal(t, confirmed.ID, held[1].ID)
	assert.Equal(t, reservation.StatusConfirmed, held[1].Status)
}
