// Package circuitbreaker 为事件发布等外部调用提供熔断保护
//
// 状态机：CLOSED → OPEN → HALF_OPEN → CLOSED
//
// 教学要点：
// - RabbitMQ不可用时，发布事件不能拖慢库存写入
// - OPEN期间直接返回ErrOpenState，不触达Broker
// - Timeout到期后放行少量探测请求，成功即恢复
package circuitbreaker

import (
	"errors"
	"sync"
	"time"

	"github.com/xiebiao/stockledger/pkg/metrics"
)

// State 熔断器状态
type State int

const (
	StateClosed   State = iota // 正常放行，累计失败
	StateOpen                  // 快速失败
	StateHalfOpen              // 探测下游是否恢复
)

var stateNames = map[State]string{
	StateClosed:   "CLOSED",
	StateOpen:     "OPEN",
	StateHalfOpen: "HALF_OPEN",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// ErrOpenState 熔断器处于打开状态（或半开探测名额已满）
var ErrOpenState = errors.New("circuit breaker is open")

// 默认连续失败阈值
const defaultTripThreshold = 5

// Config 熔断器配置
//
// 零值可用：MaxRequests默认1，ReadyToTrip默认连续失败5次。
// Interval为0时CLOSED状态下不按时间窗口清零计数。
type Config struct {
	MaxRequests uint32        // HALF_OPEN状态允许的探测请求数
	Interval    time.Duration // CLOSED状态统计窗口
	Timeout     time.Duration // OPEN状态持续时间
	ReadyToTrip func(counts Counts) bool
}

// Counts 当前窗口内的请求统计
type Counts struct {
	Requests             uint32
	TotalSuccesses       uint32
	TotalFailures        uint32
	ConsecutiveSuccesses uint32
	ConsecutiveFailures  uint32
}

// FailureRate 失败率，没有请求时为0
func (c *Counts) FailureRate() float64 {
	if c.Requests == 0 {
		return 0
	}
	return float64(c.TotalFailures) / float64(c.Requests)
}

// Reset 清零
func (c *Counts) Reset() {
	*c = Counts{}
}

func (c *Counts) record(success bool) {
	if success {
		c.TotalSuccesses++
		c.ConsecutiveSuccesses++
		c.ConsecutiveFailures = 0
		return
	}
	c.TotalFailures++
	c.ConsecutiveFailures++
	c.ConsecutiveSuccesses = 0
}

// CircuitBreaker 熔断器，并发安全
type CircuitBreaker struct {
	name string
	cfg  Config
	now  func() time.Time

	mu       sync.Mutex
	state    State
	epoch    uint64 // 每次状态切换递增，丢弃跨状态返回的结果
	counts   Counts
	deadline time.Time // CLOSED: 窗口结束；OPEN: 允许探测的时间；HALF_OPEN: 零值

	onStateChange func(name string, from, to State)
}

// NewCircuitBreaker 创建熔断器
//
//	cb := NewCircuitBreaker("event-publisher", Config{
//	    MaxRequests: 1,
//	    Interval:    60 * time.Second,
//	    Timeout:     30 * time.Second,
//	})
func NewCircuitBreaker(name string, cfg Config) *CircuitBreaker {
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = 1
	}
	if cfg.ReadyToTrip == nil {
		cfg.ReadyToTrip = func(c Counts) bool { return c.ConsecutiveFailures >= defaultTripThreshold }
	}

	cb := &CircuitBreaker{
		name:  name,
		cfg:   cfg,
		now:   time.Now,
		state: StateClosed,
	}
	cb.deadline = cb.closedDeadline(cb.now())
	return cb
}

// SetStateChangeCallback 注册状态变化回调（在锁内调用，回调中不要再访问熔断器）
func (cb *CircuitBreaker) SetStateChangeCallback(fn func(name string, from, to State)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.onStateChange = fn
}

// Name 熔断器名称
func (cb *CircuitBreaker) Name() string {
	return cb.name
}

// Execute 在熔断保护下执行fn
//
// 熔断打开时不调用fn，直接返回ErrOpenState；否则返回fn的错误。
func (cb *CircuitBreaker) Execute(fn func() error) error {
	epoch, err := cb.admit()
	if err != nil {
		cb.observe("rejected")
		return err
	}

	err = fn()
	cb.settle(epoch, err == nil)

	if err != nil {
		cb.observe("failure")
		return err
	}
	cb.observe("success")
	return nil
}

// State 当前状态（会推进到期的状态）
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.advance(cb.now())
}

// Counts 当前窗口统计快照
func (cb *CircuitBreaker) Counts() Counts {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.counts
}

func (cb *CircuitBreaker) admit() (uint64, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.advance(cb.now()) {
	case StateOpen:
		return cb.epoch, ErrOpenState
	case StateHalfOpen:
		if cb.counts.Requests >= cb.cfg.MaxRequests {
			return cb.epoch, ErrOpenState
		}
	}
	cb.counts.Requests++
	return cb.epoch, nil
}

func (cb *CircuitBreaker) settle(epoch uint64, success bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := cb.now()
	state := cb.advance(now)
	if epoch != cb.epoch {
		return
	}

	cb.counts.record(success)

	switch {
	case state == StateHalfOpen && success:
		cb.transition(StateClosed, now)
	case state == StateHalfOpen:
		cb.transition(StateOpen, now)
	case state == StateClosed && !success && cb.cfg.ReadyToTrip(cb.counts):
		cb.transition(StateOpen, now)
	}
}

// advance 处理到期：CLOSED窗口结束清零，OPEN超时转HALF_OPEN
func (cb *CircuitBreaker) advance(now time.Time) State {
	if cb.deadline.IsZero() || now.Before(cb.deadline) {
		return cb.state
	}

	switch cb.state {
	case StateClosed:
		cb.counts.Reset()
		cb.deadline = cb.closedDeadline(now)
	case StateOpen:
		cb.transition(StateHalfOpen, now)
	}
	return cb.state
}

func (cb *CircuitBreaker) transition(to State, now time.Time) {
	from := cb.state
	if from == to {
		return
	}

	cb.state = to
	cb.epoch++
	cb.counts.Reset()

	switch to {
	case StateClosed:
		cb.deadline = cb.closedDeadline(now)
	case StateOpen:
		cb.deadline = now.Add(cb.cfg.Timeout)
	default:
		cb.deadline = time.Time{}
	}

	metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": cb.name}, float64(to))
	if cb.onStateChange != nil {
		cb.onStateChange(cb.name, from, to)
	}
}

func (cb *CircuitBreaker) closedDeadline(now time.Time) time.Time {
	if cb.cfg.Interval <= 0 {
		return time.Time{}
	}
	return now.Add(cb.cfg.Interval)
}

func (cb *CircuitBreaker) observe(result string) {
	metrics.IncCounterVec(metrics.CircuitBreakerRequests, map[string]string{"name": cb.name, "result": result})
}
