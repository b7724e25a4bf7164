package reservation

import (
	"context"
	"time"

	"github.com/xiebiao/stockledger/internal/domain/reservation"
	apperrors "github.com/xiebiao/stockledger/pkg/errors"
)

// ReservationDTO 预占响应DTO
type ReservationDTO struct {
	ID               uint   `json:"id"`
	OrderID          string `json:"orderId"`
	ProductID        string `json:"productId"`
	StockItemID      uint   `json:"stockItemId"`
	WarehouseID      string `json:"warehouseId"`
	QuantityReserved int    `json:"quantityReserved"`
	Status           string `json:"status"`
	ReservedAt       string `json:"reservedAt"`
	ExpiresAt        string `json:"expiresAt"`
	ConfirmedAt      string `json:"confirmedAt,omitempty"`
	ReleasedAt       string `json:"releasedAt,omitempty"`
	ReleaseReason    string `json:"releaseReason,omitempty"`
}

// ToReservationDTO 实体转DTO
func ToReservationDTO(r *reservation.Reservation) ReservationDTO {
	dto := ReservationDTO{
		ID:               r.ID,
		OrderID:          r.OrderID,
		ProductID:        r.ProductID,
		StockItemID:      r.StockItemID,
		WarehouseID:      r.WarehouseID,
		QuantityReserved: r.Quantity,
		Status:           string(r.Status),
		ReservedAt:       formatTime(r.ReservedAt),
		ExpiresAt:        formatTime(r.ExpiresAt),
		ReleaseReason:    r.ReleaseReason,
	}
	if r.ConfirmedAt != nil {
		dto.ConfirmedAt = formatTime(*r.ConfirmedAt)
	}
	if r.ReleasedAt != nil {
		dto.ReleasedAt = formatTime(*r.ReleasedAt)
	}
	return dto
}

// ToReservationDTOs 批量转换
func ToReservationDTOs(list []*reservation.Reservation) []ReservationDTO {
	dtos := make([]ReservationDTO, len(list))
	for i, r := range list {
		dtos[i] = ToReservationDTO(r)
	}
	return dtos
}

// ListReservationsUseCase 预占列表查询用例
type ListReservationsUseCase struct {
	repo reservation.Repository
}

// NewListReservationsUseCase 创建用例
func NewListReservationsUseCase(repo reservation.Repository) *ListReservationsUseCase {
	return &ListReservationsUseCase{repo: repo}
}

// ListReservationsRequest 查询请求
type ListReservationsRequest struct {
	Page      int
	PageSize  int
	Status    string
	OrderID   string
	ProductID string
}

// ListReservationsResponse 查询结果
type ListReservationsResponse struct {
	List     []ReservationDTO
	Total    int64
	Page     int
	PageSize int
}

// Execute 执行查询
func (uc *ListReservationsUseCase) Execute(ctx context.Context, req ListReservationsRequest) (*ListReservationsResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	status := reservation.Status(req.Status)
	if status != "" && !status.IsValid() {
		return nil, apperrors.WithDetailf(reservation.ErrInvalidRequest, "无效的预占状态: %s", req.Status)
	}

	list, total, err := uc.repo.List(ctx, reservation.ListParams{
		Page:      req.Page,
		PageSize:  req.PageSize,
		Status:    status,
		OrderID:   req.OrderID,
		ProductID: req.ProductID,
	})
	if err != nil {
		return nil, err
	}

	return &ListReservationsResponse{
		List:     ToReservationDTOs(list),
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
