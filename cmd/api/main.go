package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/xiebiao/stockledger/docs"
	"github.com/xiebiao/stockledger/pkg/metrics"
	"github.com/xiebiao/stockledger/pkg/tracing"
)

// @title        库存账本服务 API
// @version      1.0
// @description  多仓库存账本与预占引擎：库存记录、流水审计、预占生命周期
// @BasePath     /
// @schemes      http

// healthCheckInterval gRPC健康检查探活间隔
const healthCheckInterval = 10 * time.Second

// main 主程序入口
//
// 启动顺序：
// 1. Wire组装依赖（配置、日志、数据库、仓储、用例、处理器）
// 2. 初始化指标与链路追踪
// 3. 启动HTTP、gRPC、过期扫描、结算命令消费
// 4. 收到SIGINT/SIGTERM后优雅关闭
func main() {
	// 1. 依赖注入
	app, cleanup, err := InitializeApp()
	if err != nil {
		log.Fatalf("初始化应用失败: %v", err)
	}
	defer cleanup()

	cfg := app.Config
	logger := app.Logger

	// 2. 指标与追踪
	metrics.InitMetrics()

	if cfg.Tracing.Enabled {
		shutdownTracer, err := tracing.InitTracer(tracing.Options{
			ServiceName: cfg.Tracing.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			SampleRatio: cfg.Tracing.SampleRatio,
		})
		if err != nil {
			logger.Warn("链路追踪初始化失败，继续运行", zap.Error(err))
		} else {
			defer func() { _ = shutdownTracer(context.Background()) }()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup

	// 3. HTTP服务
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Info("HTTP服务启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP服务异常退出", zap.Error(err))
			stop()
		}
	}()

	// 4. gRPC健康检查
	if cfg.GRPC.Enabled {
		go func() {
			if err := app.GRPC.ListenAndServe(cfg.GRPC.Port); err != nil {
				logger.Error("gRPC服务异常退出", zap.Error(err))
				stop()
			}
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.GRPC.Watch(ctx, healthCheckInterval, pingDB(app.DB))
		}()
	}

	// 5. 过期扫描
	app.Sweeper.Start(ctx)

	// 6. 结算命令消费
	if app.Commands != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := app.Checkout.Run(ctx, app.Commands); err != nil {
				logger.Error("结算命令消费退出", zap.Error(err))
			}
		}()
	}

	logger.Info("库存账本服务已启动",
		zap.Int("http_port", cfg.Server.Port),
		zap.Bool("grpc", cfg.GRPC.Enabled),
		zap.Bool("mq", cfg.MQ.Enabled),
		zap.Bool("redis", cfg.Redis.Enabled),
	)

	// 7. 等待退出信号
	<-ctx.Done()
	logger.Info("收到关闭信号，开始优雅关闭...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP服务关闭失败", zap.Error(err))
	}
	if cfg.GRPC.Enabled {
		app.GRPC.Stop()
	}
	app.Sweeper.Wait()
	wg.Wait()

	logger.Info("库存账本服务已安全关闭")
}
