package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/xiebiao/stockledger/internal/infrastructure/config"
	"github.com/xiebiao/stockledger/internal/interface/http/handler"
	"github.com/xiebiao/stockledger/internal/interface/http/middleware"
	"github.com/xiebiao/stockledger/pkg/response"
)

// Handlers 路由依赖的全部处理器
type Handlers struct {
	Stock       *handler.StockHandler
	Movement    *handler.MovementHandler
	Reservation *handler.ReservationHandler
	Checkout    *handler.CheckoutHandler
}

// New 创建并配置Gin引擎
//
// 中间件顺序：
// 1. Recovery：最外层兜底panic
// 2. Tracing：创建请求根Span
// 3. RequestLogger：request_id + 访问日志（需要trace_id）
// 4. Metrics：请求数、耗时
// 5. CORS
// 6. Actor：操作人身份
func New(cfg *config.Config, logger *zap.Logger, h Handlers) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	r.Use(
		middleware.Recovery(),
		middleware.Tracing(cfg.Tracing.ServiceName),
		middleware.RequestLogger(logger.Named("http")),
		middleware.Metrics(),
		middleware.CORS(cfg.CORS),
		middleware.Actor(),
	)

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档 http://localhost:8080/swagger/index.html
	if cfg.Server.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")
	{
		// 库存
		stock := v1.Group("/stock")
		{
			stock.GET("", h.Stock.ListStock)
			stock.GET("/low-stock", h.Stock.ListLowStock)
			stock.POST("", h.Stock.CreateStock)
			stock.POST("/bulk-import", h.Stock.BulkImport)
			stock.GET("/:id", h.Stock.GetStock)
			stock.PUT("/:id", h.Stock.UpdateStock)
			stock.POST("/:id/adjust", h.Stock.AdjustStock)
			stock.GET("/:id/movements", h.Movement.ListStockMovements)
			stock.GET("/:id/verify", h.Stock.VerifyStock)
		}

		// 流水(只读)
		v1.GET("/movements", h.Movement.ListMovements)

		// 预占查询
		reservations := v1.Group("/reservations")
		{
			reservations.GET("", h.Reservation.ListReservations)
			reservations.GET("/:id", h.Reservation.GetReservation)
		}

		// 结算内部接口
		internal := v1.Group("/internal")
		{
			internal.POST("/reservations", h.Checkout.Reserve)
			internal.POST("/reservations/order", h.Checkout.ReserveOrder)
			internal.POST("/reservations/:id/commit", h.Checkout.Commit)
			internal.POST("/reservations/:id/release", h.Checkout.Release)
			internal.POST("/orders/:orderId/release", h.Checkout.ReleaseOrder)
		}
	}

	return r
}
