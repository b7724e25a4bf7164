// Package rpc gRPC健康检查服务
//
// 库存服务本身通过HTTP与消息队列对外，gRPC端口只提供：
// 1. grpc.health.v1 健康检查（供K8s/负载均衡探活）
// 2. 反射服务（用于grpcurl调试）
package rpc

import (
	"context"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName 健康检查中的服务名
const ServiceName = "stockledger"

// Checker 依赖探活函数（如数据库Ping）
type Checker func(ctx context.Context) error

// Server gRPC健康检查服务器
type Server struct {
	server *grpc.Server
	health *health.Server
	logger *zap.Logger
}

// NewServer 创建gRPC服务器并注册健康检查与反射服务
// 初始状态为NOT_SERVING，依赖就绪后由Watch切换
func NewServer(logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	srv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	return &Server{server: srv, health: hs, logger: logger.Named("grpc")}
}

// Serve 在监听器上提供服务，阻塞直到Stop
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("gRPC服务启动", zap.String("addr", lis.Addr().String()))
	return s.server.Serve(lis)
}

// ListenAndServe 监听端口并提供服务
func (s *Server) ListenAndServe(port int) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("监听端口失败: %w", err)
	}
	return s.Serve(lis)
}

// SetServing 设置服务状态
func (s *Server) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// Watch 周期性执行探活，根据结果切换服务状态，ctx取消时返回
func (s *Server) Watch(ctx context.Context, interval time.Duration, check Checker) {
	probe := func() {
		checkCtx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()

		if err := check(checkCtx); err != nil {
			s.logger.Warn("依赖探活失败", zap.Error(err))
			s.SetServing(false)
			return
		}
		s.SetServing(true)
	}

	probe()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			probe()
		}
	}
}

// Stop 优雅关闭：先标记NOT_SERVING，再等待进行中的RPC完成
func (s *Server) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
	s.logger.Info("gRPC服务已关闭")
}
