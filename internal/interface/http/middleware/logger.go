package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xiebiao/stockledger/internal/infrastructure/logger"
	apperrors "github.com/xiebiao/stockledger/pkg/errors"
	"github.com/xiebiao/stockledger/pkg/response"
)

// HeaderRequestID 请求ID头，客户端传入时沿用
const HeaderRequestID = "X-Request-ID"

// slowRequestThreshold 慢请求阈值，超过记WARN
const slowRequestThreshold = 3 * time.Second

// RequestLogger 请求ID + 访问日志中间件
//
// 教学要点：
// 1. 每个请求生成唯一request_id，写入响应头和gin.Context
// 2. 请求级logger带上request_id/trace_id，后续Handler通过response.Logger(c)取用
// 3. 记录方法、路径、状态码、耗时、客户端IP
// 4. 慢请求（>3s）记WARN
//
// 注意：必须放在Tracing中间件之后，才能取到trace_id
func RequestLogger(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 生成请求ID
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(response.RequestIDKey, requestID)
		c.Header(HeaderRequestID, requestID)

		// 2. 请求级logger
		reqLogger := logger.WithTrace(c.Request.Context(), base).With(zap.String("request_id", requestID))
		c.Set(response.LoggerKey, reqLogger)

		// 3. 处理请求
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		// 4. 记录访问日志
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		if latency > slowRequestThreshold {
			reqLogger.Warn("慢请求", fields...)
			return
		}
		reqLogger.Info("请求完成", fields...)
	}
}

// Recovery panic恢复，返回统一错误结构
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		response.Logger(c).Error("请求处理panic", zap.Any("panic", recovered), zap.Stack("stack"))
		response.ErrorWithCode(c, apperrors.ErrCodeInternal, "系统内部错误")
		c.Abort()
	})
}
