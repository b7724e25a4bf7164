// Package tracing 封装OpenTelemetry链路追踪
//
// 一次整单预占的追踪大致如下：
//
//	POST /api/v1/internal/reservations/order
//	└─ Manager.ReserveOrder
//	   ├─ Manager.Reserve → Ledger.RESERVATION product=P1
//	   ├─ Manager.Reserve → Ledger.RESERVATION product=P2   ← 版本冲突重试
//	   └─ Manager.Release（补偿）
//
// 教学要点：
//   - Span名称用操作名（Ledger.ADJUSTMENT），ID放在属性里
//   - 未调用InitTracer时全局Provider是noop，StartSpan没有开销
//   - 日志通过ExtractTraceID关联到追踪
package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	setupTimeout    = 5 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Options 追踪配置
type Options struct {
	ServiceName string
	Endpoint    string  // OTLP gRPC端点，不带协议前缀，如 localhost:4317
	SampleRatio float64 // (0,1)按比例采样，其余值全部采样
}

// ShutdownFunc 刷新并关闭exporter
type ShutdownFunc func(context.Context) error

// InitTracer 安装全局TracerProvider与W3C传播器
//
// exporter异步连接，Collector不可用不影响启动。
//
//	shutdown, err := tracing.InitTracer(tracing.Options{ServiceName: "stockledger", Endpoint: "localhost:4317"})
//	defer shutdown(context.Background())
func InitTracer(opts Options) (ShutdownFunc, error) {
	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(opts.Endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("创建OTLP exporter失败: %w", err)
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(opts.ServiceName)))
	if err != nil {
		return nil, fmt.Errorf("创建资源属性失败: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sampler(opts.SampleRatio)),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	Install(tp)

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()
		return tp.Shutdown(ctx)
	}, nil
}

// Install 设置全局TracerProvider与传播器（traceparent + baggage）
//
// 测试中可传入带内存exporter的Provider。
func Install(tp trace.TracerProvider) {
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
}

// 跟随父Span的采样决定，根Span按比例采样
func sampler(ratio float64) sdktrace.Sampler {
	if ratio <= 0 || ratio >= 1 {
		return sdktrace.AlwaysSample()
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
}

// StartSpan 创建Span，ctx中有父Span时自动成为子Span
//
//	ctx, span := tracing.StartSpan(ctx, "reservation-manager", "Manager.Commit")
//	defer span.End()
func StartSpan(ctx context.Context, tracerName, spanName string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, spanName)
}

// RecordError 记录错误并把Span标记为失败，err为nil时不做任何事
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// ExtractTraceID 当前Span的TraceID，没有有效Span时返回空串
func ExtractTraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

// ExtractSpanID 当前Span的SpanID
func ExtractSpanID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.SpanID().String()
}
