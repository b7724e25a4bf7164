// Package reservation 库存预占管理
//
// 状态机:RESERVED → CONFIRMED | RELEASED | EXPIRED(均为终态)
// 所有数量变更都委托给stock.Ledger,这里只负责预占记录的生命周期
package reservation

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/stockledger/internal/application/event"
	"github.com/xiebiao/stockledger/internal/domain/reservation"
	"github.com/xiebiao/stockledger/internal/domain/stock"
	apperrors "github.com/xiebiao/stockledger/pkg/errors"
	"github.com/xiebiao/stockledger/pkg/metrics"
	"github.com/xiebiao/stockledger/pkg/saga"
	"github.com/xiebiao/stockledger/pkg/tracing"
)

const tracerName = "reservation-manager"

// Options 预占参数
type Options struct {
	DefaultTTL     time.Duration // 未指定时的预占时长
	MaxTTL         time.Duration // 预占时长上限
	SweepBatchSize int           // 过期扫描每批条数
	SagaTimeout    time.Duration // 整单预占超时
}

// DefaultOptions 默认参数
func DefaultOptions() Options {
	return Options{
		DefaultTTL:     15 * time.Minute,
		MaxTTL:         24 * time.Hour,
		SweepBatchSize: 200,
		SagaTimeout:    30 * time.Second,
	}
}

// Manager 预占管理器
//
// 教学要点:
//  1. Reserve:TryReserve与预占记录写入在同一事务,库存不足时不留下任何记录
//  2. Commit/Release:加锁读取预占 → 校验状态 → 账本变更 → 条件更新状态,同一事务完成
//  3. 终态预占再次操作返回ErrInvalidTransition,且不会产生账本变更
//  4. 事件在事务提交后发布(尽力而为)
type Manager struct {
	ledger   *stock.Ledger
	items    stock.Repository
	repo     reservation.Repository
	tx       stock.Transactor
	notifier *event.Notifier
	opts     Options
	logger   *zap.Logger
	now      func() time.Time
}

// NewManager 创建预占管理器
func NewManager(
	ledger *stock.Ledger,
	items stock.Repository,
	repo reservation.Repository,
	tx stock.Transactor,
	notifier *event.Notifier,
	opts Options,
	logger *zap.Logger,
) *Manager {
	defaults := DefaultOptions()
	if opts.DefaultTTL <= 0 {
		opts.DefaultTTL = defaults.DefaultTTL
	}
	if opts.MaxTTL < opts.DefaultTTL {
		opts.MaxTTL = opts.DefaultTTL
	}
	if opts.SweepBatchSize <= 0 {
		opts.SweepBatchSize = defaults.SweepBatchSize
	}
	if opts.SagaTimeout <= 0 {
		opts.SagaTimeout = defaults.SagaTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		ledger:   ledger,
		items:    items,
		repo:     repo,
		tx:       tx,
		notifier: notifier,
		opts:     opts,
		logger:   logger.Named("reservation"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ReserveCommand 预占命令
type ReserveCommand struct {
	OrderID     string
	ProductID   string
	WarehouseID string
	Quantity    int
	TTL         time.Duration // 0表示默认时长,超过上限按上限截断
	Actor       stock.Actor
}

// Reserve 创建预占
func (m *Manager) Reserve(ctx context.Context, cmd ReserveCommand) (*reservation.Reservation, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "Manager.Reserve")
	defer span.End()
	span.SetAttributes(
		attribute.String("order_id", cmd.OrderID),
		attribute.String("product_id", cmd.ProductID),
		attribute.Int("quantity", cmd.Quantity),
	)

	// 1. 参数校验(原子步骤之前失败不留痕迹)
	ttl, err := m.validate(cmd)
	if err != nil {
		m.record("reserve", err)
		return nil, err
	}

	// 2. 定位库存记录
	item, err := m.items.FindByProductWarehouse(ctx, cmd.ProductID, cmd.WarehouseID)
	if err != nil {
		m.record("reserve", err)
		return nil, err
	}

	// 3. 预占记录与账本预占同事务
	now := m.now()
	r := reservation.New(cmd.OrderID, cmd.ProductID, cmd.WarehouseID, item.ID, cmd.Quantity, now, ttl)

	var change *stock.Change
	err = m.tx.Transaction(ctx, func(txCtx context.Context) error {
		if err := m.repo.Create(txCtx, r); err != nil {
			return err
		}
		c, err := m.ledger.TryReserve(txCtx, item.ID, cmd.Quantity, referenceOf(r), cmd.Actor)
		if err != nil {
			return err
		}
		change = c
		return nil
	})
	m.record("reserve", err)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	m.logger.Info("预占成功",
		zap.Uint("reservation_id", r.ID),
		zap.String("order_id", r.OrderID),
		zap.Uint("stock_item_id", r.StockItemID),
		zap.Int("quantity", r.Quantity),
		zap.Time("expires_at", r.ExpiresAt),
	)

	m.notifier.Reservation(ctx, event.ReservationCreated, r)
	m.notifier.StockChange(ctx, change)
	return r, nil
}

// Commit 确认预占(货物出库)
func (m *Manager) Commit(ctx context.Context, id uint, actor stock.Actor) (*reservation.Reservation, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "Manager.Commit")
	defer span.End()

	now := m.now()
	r, change, err := m.finalize(ctx, id,
		func(r *reservation.Reservation) error { return r.Confirm(now) },
		func(txCtx context.Context, r *reservation.Reservation) (*stock.Change, error) {
			return m.ledger.ConfirmReserved(txCtx, r.StockItemID, r.Quantity, referenceOf(r), actor)
		},
	)
	m.record("commit", err)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	m.logger.Info("预占已确认", zap.Uint("reservation_id", r.ID), zap.String("order_id", r.OrderID))
	m.notifier.Reservation(ctx, event.ReservationConfirmed, r)
	m.notifier.StockChange(ctx, change)
	return r, nil
}

// Release 释放预占
func (m *Manager) Release(ctx context.Context, id uint, reason string, actor stock.Actor) (*reservation.Reservation, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "Manager.Release")
	defer span.End()

	if reason == "" {
		reason = reservation.ReasonOrderCancelled
	}

	now := m.now()
	r, change, err := m.finalize(ctx, id,
		func(r *reservation.Reservation) error { return r.Release(now, reason) },
		func(txCtx context.Context, r *reservation.Reservation) (*stock.Change, error) {
			return m.ledger.ReleaseReserved(txCtx, r.StockItemID, r.Quantity, reason, referenceOf(r), actor)
		},
	)
	m.record("release", err)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	m.logger.Info("预占已释放",
		zap.Uint("reservation_id", r.ID),
		zap.String("order_id", r.OrderID),
		zap.String("reason", reason),
	)
	m.notifier.Reservation(ctx, event.ReservationReleased, r)
	m.notifier.StockChange(ctx, change)
	return r, nil
}

// expire 过期释放单条预占
func (m *Manager) expire(ctx context.Context, id uint, now time.Time) (*reservation.Reservation, error) {
	r, change, err := m.finalize(ctx, id,
		func(r *reservation.Reservation) error {
			if !r.IsExpired(now) {
				return apperrors.WithDetailf(reservation.ErrInvalidTransition, "预占%d尚未到期", r.ID)
			}
			return r.Expire(now)
		},
		func(txCtx context.Context, r *reservation.Reservation) (*stock.Change, error) {
			return m.ledger.ReleaseReserved(txCtx, r.StockItemID, r.Quantity, reservation.ReasonExpired, referenceOf(r), stock.SweeperActor)
		},
	)
	m.record("expire", err)
	if err != nil {
		return nil, err
	}

	m.notifier.Reservation(ctx, event.ReservationExpired, r)
	m.notifier.StockChange(ctx, change)
	return r, nil
}

// finalize 终结预占的统一流程(一个事务)
//  1. 加锁读取预占
//  2. transition在内存中流转状态(终态返回ErrInvalidTransition)
//  3. 账本变更
//  4. 条件更新预占状态(WHERE status=RESERVED)
func (m *Manager) finalize(
	ctx context.Context,
	id uint,
	transition func(r *reservation.Reservation) error,
	apply func(txCtx context.Context, r *reservation.Reservation) (*stock.Change, error),
) (*reservation.Reservation, *stock.Change, error) {
	var (
		result *reservation.Reservation
		change *stock.Change
	)
	err := m.tx.Transaction(ctx, func(txCtx context.Context) error {
		r, err := m.repo.LockByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := transition(r); err != nil {
			return err
		}

		c, err := apply(txCtx, r)
		if err != nil {
			return err
		}
		if err := m.repo.Transition(txCtx, r, reservation.StatusReserved); err != nil {
			return err
		}

		result, change = r, c
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return result, change, nil
}

// Get 查询预占
func (m *Manager) Get(ctx context.Context, id uint) (*reservation.Reservation, error) {
	return m.repo.FindByID(ctx, id)
}

// OrderLine 整单预占的一行
type OrderLine struct {
	ProductID   string
	WarehouseID string
	Quantity    int
}

// ReserveOrderCommand 整单预占命令
type ReserveOrderCommand struct {
	OrderID string
	Lines   []OrderLine
	TTL     time.Duration
	Actor   stock.Actor
}

// ReserveOrder 整单预占(全部成功或全部回滚)
//
// 教学要点:
// 1. 每行是一个独立事务,行与行之间用Saga编排
// 2. 某行失败时逆序释放已成功的行(原因order_reserve_failed)
// 3. 补偿时预占已被过期扫描处理(ErrInvalidTransition)视为成功
// 4. 同一订单重复提交(消息重投)时,已有RESERVED/CONFIRMED预占的行直接复用,不再重复占用库存
func (m *Manager) ReserveOrder(ctx context.Context, cmd ReserveOrderCommand) ([]*reservation.Reservation, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "Manager.ReserveOrder")
	defer span.End()

	if cmd.OrderID == "" || len(cmd.Lines) == 0 {
		return nil, apperrors.WithDetail(reservation.ErrInvalidRequest, "orderId和预占明细不能为空")
	}

	held, err := m.heldByLine(ctx, cmd.OrderID)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	reserved := make([]*reservation.Reservation, len(cmd.Lines))
	s := saga.NewSaga(m.opts.SagaTimeout, saga.WithName("reserve-order"), saga.WithLogger(m.logger))

	for i, line := range cmd.Lines {
		s.AddStep("预占"+line.ProductID+"@"+line.WarehouseID,
			func(ctx context.Context) error {
				if existing := held.take(line); existing != nil {
					if existing.Quantity != line.Quantity {
						m.logger.Warn("订单行已有预占,数量不一致,沿用已有预占",
							zap.String("order_id", cmd.OrderID),
							zap.Uint("reservation_id", existing.ID),
							zap.Int("held", existing.Quantity),
							zap.Int("requested", line.Quantity),
						)
					}
					reserved[i] = existing
					return nil
				}
				r, err := m.Reserve(ctx, ReserveCommand{
					OrderID:     cmd.OrderID,
					ProductID:   line.ProductID,
					WarehouseID: line.WarehouseID,
					Quantity:    line.Quantity,
					TTL:         cmd.TTL,
					Actor:       cmd.Actor,
				})
				if err != nil {
					return err
				}
				reserved[i] = r
				return nil
			},
			func(ctx context.Context) error {
				r := reserved[i]
				if r == nil {
					return nil
				}
				_, err := m.Release(ctx, r.ID, reservation.ReasonOrderReserveFailed, stock.SystemActor)
				if errors.Is(err, reservation.ErrInvalidTransition) {
					return nil
				}
				return err
			},
		)
	}

	if err := s.Execute(ctx); err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	return reserved, nil
}

type lineKey struct {
	productID   string
	warehouseID string
}

// heldLines 订单已有的预占,按(商品, 仓库)分组,每条只能被复用一次
type heldLines map[lineKey][]*reservation.Reservation

func (h heldLines) take(line OrderLine) *reservation.Reservation {
	key := lineKey{line.ProductID, line.WarehouseID}
	list := h[key]
	if len(list) == 0 {
		return nil
	}
	h[key] = list[1:]
	return list[0]
}

func (m *Manager) heldByLine(ctx context.Context, orderID string) (heldLines, error) {
	list, err := m.repo.ListHeldByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	held := make(heldLines, len(list))
	for _, r := range list {
		key := lineKey{r.ProductID, r.WarehouseID}
		held[key] = append(held[key], r)
	}
	return held, nil
}

// ReleaseOrder 释放订单下所有仍为RESERVED的预占,返回释放条数
// 单条失败不影响其他条,错误汇总返回
func (m *Manager) ReleaseOrder(ctx context.Context, orderID, reason string, actor stock.Actor) (int, error) {
	if orderID == "" {
		return 0, apperrors.WithDetail(reservation.ErrInvalidRequest, "orderId不能为空")
	}

	active, err := m.repo.ListActiveByOrder(ctx, orderID)
	if err != nil {
		return 0, err
	}

	released := 0
	var errs []error
	for _, r := range active {
		if _, err := m.Release(ctx, r.ID, reason, actor); err != nil {
			if errors.Is(err, reservation.ErrInvalidTransition) {
				continue
			}
			errs = append(errs, err)
			continue
		}
		released++
	}
	return released, errors.Join(errs...)
}

// ExpirySweep 过期扫描:把到期仍为RESERVED的预占置为EXPIRED并释放预占数量
//
// 教学要点:
//  1. 每条预占独立事务,扫描中途取消不会留下"释放一半"的预占,下一轮继续即可
//  2. 与Commit并发时,已确认的预占得到ErrInvalidTransition,跳过而不是中断
//  3. 单条失败记WARN日志后继续处理其余预占
//
// 返回本轮过期的条数;仅在查询失败或ctx取消时返回error
func (m *Manager) ExpirySweep(ctx context.Context, now time.Time) (int, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "Manager.ExpirySweep")
	defer span.End()

	start := time.Now()
	now = now.UTC()
	expired, failed := 0, 0

	err := m.sweep(ctx, now, &expired, &failed)

	metrics.ObserveHistogram(metrics.ExpirySweepDuration, time.Since(start).Seconds())
	metrics.AddCounter(metrics.ExpiredReservationsTotal, float64(expired))
	result := "success"
	if err != nil {
		result = "failure"
		tracing.RecordError(span, err)
	}
	metrics.IncCounterVec(metrics.ExpirySweepRunsTotal, map[string]string{"result": result})

	if expired > 0 || failed > 0 || err != nil {
		m.logger.Info("过期扫描完成",
			zap.Int("expired", expired),
			zap.Int("failed", failed),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
	}
	return expired, err
}

func (m *Manager) sweep(ctx context.Context, now time.Time, expired, failed *int) error {
	var cursor *reservation.Cursor
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		batch, err := m.repo.ListExpired(ctx, now, cursor, m.opts.SweepBatchSize)
		if err != nil {
			return err
		}

		for _, r := range batch {
			if err := ctx.Err(); err != nil {
				return err
			}

			_, err := m.expire(ctx, r.ID, now)
			switch {
			case err == nil:
				*expired++
			case errors.Is(err, reservation.ErrInvalidTransition):
				// 已被确认或释放
				m.logger.Debug("预占已终结,跳过", zap.Uint("reservation_id", r.ID), zap.Error(err))
			default:
				*failed++
				m.logger.Warn("预占过期释放失败",
					zap.Uint("reservation_id", r.ID),
					zap.String("order_id", r.OrderID),
					zap.Error(err),
				)
			}
		}

		// 游标越过本批全部记录,失败的留给下一轮
		if len(batch) < m.opts.SweepBatchSize {
			return nil
		}
		cursor = reservation.CursorOf(batch[len(batch)-1])
	}
}

// validate 校验预占命令并计算实际时长
func (m *Manager) validate(cmd ReserveCommand) (time.Duration, error) {
	if cmd.OrderID == "" || cmd.ProductID == "" || cmd.WarehouseID == "" {
		return 0, apperrors.WithDetail(reservation.ErrInvalidRequest, "orderId、productId、warehouseId不能为空")
	}
	if cmd.Quantity <= 0 {
		return 0, apperrors.WithDetail(reservation.ErrInvalidRequest, "预占数量必须大于0")
	}
	if cmd.TTL < 0 {
		return 0, apperrors.WithDetail(reservation.ErrInvalidRequest, "预占时长不能为负数")
	}

	ttl := cmd.TTL
	if ttl == 0 {
		ttl = m.opts.DefaultTTL
	}
	if ttl > m.opts.MaxTTL {
		ttl = m.opts.MaxTTL
	}
	return ttl, nil
}

// record 记录预占操作指标
func (m *Manager) record(operation string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	metrics.IncCounterVec(metrics.ReservationsTotal, map[string]string{"operation": operation, "result": result})
}

// referenceOf 预占产生的流水统一关联到预占记录
func referenceOf(r *reservation.Reservation) stock.Reference {
	return stock.Reference{Type: "RESERVATION", ID: strconv.FormatUint(uint64(r.ID), 10)}
}
