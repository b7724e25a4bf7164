package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/stockledger/internal/domain/reservation"
	apperrors "github.com/xiebiao/stockledger/pkg/errors"
)

// reservationRepository 预占仓储实现
type reservationRepository struct {
	db *gorm.DB
}

// NewReservationRepository 创建预占仓储
func NewReservationRepository(db *gorm.DB) reservation.Repository {
	return &reservationRepository{db: db}
}

// Create 创建预占
func (r *reservationRepository) Create(ctx context.Context, res *reservation.Reservation) error {
	model := toReservationModel(res)
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return wrapDBError(err, "创建预占失败")
	}
	res.ID = model.ID
	res.CreatedAt = model.CreatedAt
	res.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查询
func (r *reservationRepository) FindByID(ctx context.Context, id uint) (*reservation.Reservation, error) {
	return r.first(getDB(ctx, r.db).Where("id = ?", id))
}

// LockByID 加行锁读取
func (r *reservationRepository) LockByID(ctx context.Context, id uint) (*reservation.Reservation, error) {
	return r.first(forUpdate(getDB(ctx, r.db)).Where("id = ?", id))
}

func (r *reservationRepository) first(query *gorm.DB) (*reservation.Reservation, error) {
	var model ReservationModel
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reservation.ErrReservationNotFound
		}
		return nil, wrapDBError(err, "查询预占失败")
	}
	return toReservationEntity(&model), nil
}

// Transition 条件更新状态
// 教学要点:
// 1. WHERE status=? 保证同一预占只会被流转一次
// 2. 确认、释放、过期扫描并发时,只有一个能命中,其余得到ErrInvalidTransition
func (r *reservationRepository) Transition(ctx context.Context, res *reservation.Reservation, from reservation.Status) error {
	result := getDB(ctx, r.db).Model(&ReservationModel{}).
		Where("id = ? AND status = ?", res.ID, string(from)).
		Updates(map[string]interface{}{
			"status":         string(res.Status),
			"confirmed_at":   res.ConfirmedAt,
			"released_at":    res.ReleasedAt,
			"release_reason": res.ReleaseReason,
			"updated_at":     res.UpdatedAt,
		})
	if result.Error != nil {
		return wrapDBError(result.Error, "更新预占状态失败")
	}
	if result.RowsAffected == 0 {
		return apperrors.WithDetailf(reservation.ErrInvalidTransition, "预占%d已不是%s状态", res.ID, from)
	}
	return nil
}

// ListExpired 查询到期但仍为RESERVED的预占
// 按(expires_at, id)做keyset分页,失败的记录不会挡住排在后面的记录
func (r *reservationRepository) ListExpired(ctx context.Context, now time.Time, after *reservation.Cursor, limit int) ([]*reservation.Reservation, error) {
	var models []ReservationModel
	query := getDB(ctx, r.db).
		Where("status = ? AND expires_at <= ?", string(reservation.StatusReserved), now)
	if after != nil {
		query = query.Where("(expires_at > ? OR (expires_at = ? AND id > ?))", after.ExpiresAt, after.ExpiresAt, after.ID)
	}
	query = query.Order("expires_at ASC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, apperrors.WrapCode(err, apperrors.ErrCodeDatabaseError, "查询过期预占失败")
	}
	return toReservationEntities(models), nil
}

// ListActiveByOrder 查询订单下仍为RESERVED的预占
func (r *reservationRepository) ListActiveByOrder(ctx context.Context, orderID string) ([]*reservation.Reservation, error) {
	var models []ReservationModel
	err := getDB(ctx, r.db).
		Where("order_id = ? AND status = ?", orderID, string(reservation.StatusReserved)).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.WrapCode(err, apperrors.ErrCodeDatabaseError, "查询订单预占失败")
	}
	return toReservationEntities(models), nil
}

// ListHeldByOrder 查询订单下仍占用库存的预占(RESERVED或CONFIRMED)
func (r *reservationRepository) ListHeldByOrder(ctx context.Context, orderID string) ([]*reservation.Reservation, error) {
	var models []ReservationModel
	err := getDB(ctx, r.db).
		Where("order_id = ? AND status IN ?", orderID,
			[]string{string(reservation.StatusReserved), string(reservation.StatusConfirmed)}).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.WrapCode(err, apperrors.ErrCodeDatabaseError, "查询订单预占失败")
	}
	return toReservationEntities(models), nil
}

// List 分页查询
func (r *reservationRepository) List(ctx context.Context, params reservation.ListParams) ([]*reservation.Reservation, int64, error) {
	page, pageSize := normalizePage(params.Page, params.PageSize)
	query := getDB(ctx, r.db).Model(&ReservationModel{})

	if params.Status != "" {
		query = query.Where("status = ?", string(params.Status))
	}
	if params.OrderID != "" {
		query = query.Where("order_id = ?", params.OrderID)
	}
	if params.ProductID != "" {
		query = query.Where("product_id = ?", params.ProductID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.WrapCode(err, apperrors.ErrCodeDatabaseError, "查询预占总数失败")
	}

	var models []ReservationModel
	offset := (page - 1) * pageSize
	if err := query.Order("id DESC").Offset(offset).Limit(pageSize).Find(&models).Error; err != nil {
		return nil, 0, apperrors.WrapCode(err, apperrors.ErrCodeDatabaseError, "查询预占列表失败")
	}
	return toReservationEntities(models), total, nil
}

func toReservationModel(res *reservation.Reservation) *ReservationModel {
	return &ReservationModel{
		ID:            res.ID,
		OrderID:       res.OrderID,
		ProductID:     res.ProductID,
		StockItemID:   res.StockItemID,
		WarehouseID:   res.WarehouseID,
		Quantity:      res.Quantity,
		Status:        string(res.Status),
		ReservedAt:    res.ReservedAt,
		ExpiresAt:     res.ExpiresAt,
		ConfirmedAt:   res.ConfirmedAt,
		ReleasedAt:    res.ReleasedAt,
		ReleaseReason: res.ReleaseReason,
		CreatedAt:     res.CreatedAt,
		UpdatedAt:     res.UpdatedAt,
	}
}

func toReservationEntity(model *ReservationModel) *reservation.Reservation {
	return &reservation.Reservation{
		ID:            model.ID,
		OrderID:       model.OrderID,
		ProductID:     model.ProductID,
		StockItemID:   model.StockItemID,
		WarehouseID:   model.WarehouseID,
		Quantity:      model.Quantity,
		Status:        reservation.Status(model.Status),
		ReservedAt:    model.ReservedAt,
		ExpiresAt:     model.ExpiresAt,
		ConfirmedAt:   model.ConfirmedAt,
		ReleasedAt:    model.ReleasedAt,
		ReleaseReason: model.ReleaseReason,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

func toReservationEntities(models []ReservationModel) []*reservation.Reservation {
	list := make([]*reservation.Reservation, len(models))
	for i := range models {
		list[i] = toReservationEntity(&models[i])
	}
	return list
}
