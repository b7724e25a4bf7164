// Package metrics 集中定义stockledger的Prometheus指标
//
// 指标在InitMetrics中统一注册，命名空间为stockledger。
// 便捷函数对未初始化（nil）的指标是空操作，领域代码和单元测试无需关心InitMetrics是否调用过。
//
// 教学要点：
// - 乐观锁冲突用Counter统计，不要靠日志数
//
//	metrics.IncCounterVec(metrics.LedgerConflictsTotal, map[string]string{"operation": "RESERVATION"})
//
//	# 热点商品争用
//	rate(stockledger_ledger_conflicts_total[5m])
//
// - 标签只用低基数字段，product_id、order_id不能做标签
// - Counter以_total结尾，Histogram以单位结尾（_seconds）
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "stockledger"

var initOnce sync.Once

// HTTP
var (
	HTTPRequestsTotal      *prometheus.CounterVec   // method, path, status
	HTTPRequestDuration    *prometheus.HistogramVec // method, path
	HTTPRequestsInProgress prometheus.Gauge
)

// 账本与预占
var (
	LedgerMutationsTotal *prometheus.CounterVec // type, result
	LedgerConflictsTotal *prometheus.CounterVec // operation
	BulkImportRowsTotal  *prometheus.CounterVec // result: created/updated/failed

	ReservationsTotal        *prometheus.CounterVec // operation, result
	ExpirySweepRunsTotal     *prometheus.CounterVec // result: success/failure/skipped
	ExpiredReservationsTotal prometheus.Counter
	ExpirySweepDuration      prometheus.Histogram

	// Saga（整单预占使用）
	SagaExecutionsTotal    *prometheus.CounterVec // result
	SagaExecutionDuration  prometheus.Histogram
	SagaCompensationsTotal prometheus.Counter
)

// 熔断与消息
var (
	// CircuitBreakerState 0=CLOSED, 1=OPEN, 2=HALF_OPEN
	CircuitBreakerState    *prometheus.GaugeVec   // name
	CircuitBreakerRequests *prometheus.CounterVec // name, result: success/failure/rejected

	MessagesPublishedTotal    *prometheus.CounterVec // exchange, routing_key
	MessagesConsumedTotal     *prometheus.CounterVec // queue, result
	MessageProcessingDuration prometheus.Histogram
)

var (
	fastBuckets = []float64{0.001, 0.01, 0.1, 0.5, 1, 5}
	httpBuckets = []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10}
)

func counter(name, help string) prometheus.Counter {
	return promauto.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help})
}

func counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help}, labels)
}

func histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: name, Help: help, Buckets: buckets})
}

// InitMetrics 注册全部指标到默认Registry，重复调用无副作用
//
//	metrics.InitMetrics()
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
func InitMetrics() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = counterVec("http_requests_total", "HTTP请求总数", "method", "path", "status")
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP请求耗时（秒）",
		Buckets:   httpBuckets,
	}, []string{"method", "path"})
	HTTPRequestsInProgress = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_requests_in_progress",
		Help:      "正在处理的HTTP请求数",
	})

	LedgerMutationsTotal = counterVec("ledger_mutations_total", "账本写入总数", "type", "result")
	LedgerConflictsTotal = counterVec("ledger_conflicts_total", "乐观锁版本冲突次数", "operation")
	BulkImportRowsTotal = counterVec("bulk_import_rows_total", "批量导入处理行数", "result")

	ReservationsTotal = counterVec("reservations_total", "预占操作总数", "operation", "result")
	ExpirySweepRunsTotal = counterVec("expiry_sweep_runs_total", "过期扫描执行次数", "result")
	ExpiredReservationsTotal = counter("expired_reservations_total", "过期释放的预占总数")
	// 单轮最多sweep_batch_size条，每条一个事务
	ExpirySweepDuration = histogram("expiry_sweep_duration_seconds", "单轮过期扫描耗时（秒）", fastBuckets)

	SagaExecutionsTotal = counterVec("saga_executions_total", "Saga执行总数", "result")
	SagaExecutionDuration = histogram("saga_execution_duration_seconds", "Saga执行耗时（秒）", []float64{0.01, 0.1, 0.5, 1, 5, 10})
	SagaCompensationsTotal = counter("saga_compensations_total", "Saga补偿步骤执行总数")

	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "circuit_breaker_state",
		Help:      "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
	}, []string{"name"})
	CircuitBreakerRequests = counterVec("circuit_breaker_requests_total", "熔断器请求总数", "name", "result")

	MessagesPublishedTotal = counterVec("messages_published_total", "消息发布总数", "exchange", "routing_key")
	MessagesConsumedTotal = counterVec("messages_consumed_total", "消息消费总数", "queue", "result")
	MessageProcessingDuration = histogram("message_processing_duration_seconds", "消息处理耗时（秒）", fastBuckets)
}

// IncCounter 递增Counter，以下便捷函数对nil指标均为空操作
func IncCounter(counter prometheus.Counter) {
	if counter == nil {
		return
	}
	counter.Inc()
}

// AddCounter Counter增加指定值
func AddCounter(counter prometheus.Counter, value float64) {
	if counter == nil {
		return
	}
	counter.Add(value)
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	if counter == nil {
		return
	}
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	if gauge == nil {
		return
	}
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	if gauge == nil {
		return
	}
	gauge.Dec()
}

// SetGauge 设置Gauge值
func SetGauge(gauge prometheus.Gauge, value float64) {
	if gauge == nil {
		return
	}
	gauge.Set(value)
}

// SetGaugeVec 设置GaugeVec值（带标签）
func SetGaugeVec(gauge *prometheus.GaugeVec, labels map[string]string, value float64) {
	if gauge == nil {
		return
	}
	gauge.With(labels).Set(value)
}

// ObserveHistogram 记录Histogram观测值
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	if histogram == nil {
		return
	}
	histogram.Observe(value)
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	if histogram == nil {
		return
	}
	histogram.With(labels).Observe(value)
}
