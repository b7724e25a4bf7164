package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/stockledger/pkg/errors"
)

// gin.Context中的键，由中间件写入
const (
	RequestIDKey = "request_id"
	LoggerKey    = "logger"
)

// Response 统一响应结构，HTTP状态码固定200，结果看Code
// RequestID用于把客户端报错和服务端日志对上
type Response struct {
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	RequestID string      `json:"requestId,omitempty"`
}

// Success 成功响应（Code=0表示成功）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:      0,
		Message:   "success",
		Data:      data,
		RequestID: c.GetString(RequestIDKey),
	})
}

// Error 错误响应，非AppError按系统内部错误返回
// 内部错误链只进日志：客户端错误记DEBUG，服务端错误记ERROR
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)

	log := Logger(c)
	if apperrors.IsClientError(appErr) {
		log.Debug("请求被拒绝", zap.Int("code", appErr.Code), zap.Error(err))
	} else {
		log.Error("请求处理失败", zap.Int("code", appErr.Code), zap.Error(err))
	}

	c.JSON(http.StatusOK, Response{
		Code:      appErr.Code,
		Message:   appErr.Message,
		RequestID: c.GetString(RequestIDKey),
	})
}

// ErrorWithCode 自定义错误码和消息
func ErrorWithCode(c *gin.Context, code int, message string) {
	c.JSON(http.StatusOK, Response{
		Code:      code,
		Message:   message,
		RequestID: c.GetString(RequestIDKey),
	})
}

// Logger 获取请求级日志（带request_id），未设置时使用全局logger
func Logger(c *gin.Context) *zap.Logger {
	if v, ok := c.Get(LoggerKey); ok {
		if l, ok := v.(*zap.Logger); ok {
			return l
		}
	}
	return zap.L()
}

// PageData 分页数据
type PageData struct {
	List       interface{} `json:"list"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// NewPageData pageSize<=0时TotalPages为0
func NewPageData(list interface{}, total int64, page, pageSize int) *PageData {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}

	return &PageData{
		List:       list,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// SuccessWithPage 分页成功响应
func SuccessWithPage(c *gin.Context, list interface{}, total int64, page, pageSize int) {
	Success(c, NewPageData(list, total, page, pageSize))
}
