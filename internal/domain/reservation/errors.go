package reservation

import (
	apperrors "github.com/xiebiao/stockledger/pkg/errors"
)

// 预占领域错误定义
var (
	// ErrReservationNotFound 预占不存在
	ErrReservationNotFound = apperrors.New(apperrors.ErrCodeReservationNotFound, "预占记录不存在")

	// ErrInvalidTransition 状态流转非法(终态不可再变更)
	ErrInvalidTransition = apperrors.New(apperrors.ErrCodeInvalidTransition, "预占状态不允许此操作")

	// ErrInvalidRequest 预占请求参数不合法
	ErrInvalidRequest = apperrors.New(apperrors.ErrCodeInvalidParams, "预占请求参数错误")
)

func invalidTransition(from, to Status) error {
	return apperrors.WithDetailf(ErrInvalidTransition, "%s → %s", from, to)
}
