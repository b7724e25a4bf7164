// Package errors 定义带业务错误码的应用错误
//
// HTTP层统一返回200，客户端通过code判断结果：
//   - 0: 成功
//   - 4xxxx: 客户端错误（参数、业务规则），不需要告警
//   - 5xxxx: 服务端错误（数据库、Redis等），记ERROR日志
package errors

import (
	"errors"
	"fmt"
)

// AppError 应用错误
//
// Message返回给客户端，Err只进日志。
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("[%d] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New 预定义错误用
func New(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap 把底层错误包装为内部错误
func Wrap(err error, message string) *AppError {
	return WrapCode(err, ErrCodeInternal, message)
}

// WrapCode 用指定错误码包装底层错误
//
//	apperrors.WrapCode(err, apperrors.ErrCodeDatabaseError, "查询库存记录失败")
func WrapCode(err error, code int, message string) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// WithDetail 在预定义错误上附加细节，错误码不变，errors.Is(err, base)仍成立
//
//	err := apperrors.WithDetail(stock.ErrValidation, "warehouseId不能为空")
func WithDetail(base *AppError, detail string) *AppError {
	return &AppError{
		Code:    base.Code,
		Message: base.Message + ": " + detail,
		Err:     base,
	}
}

// WithDetailf 格式化版本的WithDetail
func WithDetailf(base *AppError, format string, args ...interface{}) *AppError {
	return WithDetail(base, fmt.Sprintf(format, args...))
}

// 错误码
const (
	ErrCodeInternal      = 50000
	ErrCodeDatabaseError = 50001
	ErrCodeRedisError    = 50002

	ErrCodeInsufficientStock      = 40001
	ErrCodeInvalidTransition      = 40002
	ErrCodeInvalidAdjustment      = 40006
	ErrCodeDuplicateEntry         = 40009
	ErrCodeConcurrentModification = 40010 // 可重试

	ErrCodeNotFound            = 40400
	ErrCodeStockItemNotFound   = 40405
	ErrCodeReservationNotFound = 40406

	ErrCodeInvalidParams = 40900
)

var (
	ErrInternal      = New(ErrCodeInternal, "系统内部错误")
	ErrNotFound      = New(ErrCodeNotFound, "资源不存在")
	ErrInvalidParams = New(ErrCodeInvalidParams, "参数错误")
)

// GetAppError 取出错误链中的AppError，没有时包装为内部错误
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, ErrInternal.Message)
}

// IsClientError 错误链中有4xxxx的AppError
// 用于日志分级：客户端错误记DEBUG，服务端错误记ERROR
func IsClientError(err error) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Code >= 40000 && appErr.Code < 50000
}
