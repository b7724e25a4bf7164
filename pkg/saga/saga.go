// Package saga 按顺序执行一组步骤，某步失败时逆序补偿已完成的步骤
//
// 在本服务中用于整单预占：每个订单行是一个步骤，
// 任意一行库存不足时逆序释放已成功的预占。
//
// 教学要点：
// - 补偿必须幂等：预占的补偿基于状态机（Release只对RESERVED生效）
// - 补偿失败不能吞掉：与步骤错误一起返回
// - 补偿用脱离取消信号的Context，整体超时后补偿仍能执行
package saga

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/stockledger/pkg/metrics"
)

// ErrTimeout 整体超时（在步骤之间检测）
var ErrTimeout = errors.New("saga超时")

// Step 一个步骤，Action和Compensate都可以为nil
type Step struct {
	Name       string
	Action     func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// StepError 步骤失败，Unwrap得到原始业务错误
type StepError struct {
	Index int
	Name  string
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("步骤[%d:%s]执行失败: %v", e.Index, e.Name, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Saga 步骤编排器
type Saga struct {
	name    string
	steps   []Step
	timeout time.Duration
	logger  *zap.Logger
}

// Option Saga可选参数
type Option func(*Saga)

// WithLogger 设置日志，默认不输出
func WithLogger(logger *zap.Logger) Option {
	return func(s *Saga) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithName 日志中的名称
func WithName(name string) Option {
	return func(s *Saga) { s.name = name }
}

// NewSaga timeout<=0表示不限制
//
//	s := saga.NewSaga(30*time.Second, saga.WithName("reserve-order"), saga.WithLogger(logger))
//	s.AddStep("预占P1@W1", reserveP1, releaseP1)
//	s.AddStep("预占P2@W1", reserveP2, releaseP2)
//	err := s.Execute(ctx)
func NewSaga(timeout time.Duration, opts ...Option) *Saga {
	s := &Saga{name: "saga", timeout: timeout, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddStep 追加步骤，按添加顺序执行、逆序补偿
func (s *Saga) AddStep(name string, action, compensate func(ctx context.Context) error) {
	s.steps = append(s.steps, Step{Name: name, Action: action, Compensate: compensate})
}

// Execute 执行全部步骤
//
// 失败时返回*StepError（或包装ErrTimeout的错误），补偿失败时通过errors.Join一并返回。
func (s *Saga) Execute(ctx context.Context) (err error) {
	start := time.Now()
	defer func() {
		result := "success"
		if err != nil {
			result = "failure"
		}
		metrics.IncCounterVec(metrics.SagaExecutionsTotal, map[string]string{"result": result})
		metrics.ObserveHistogram(metrics.SagaExecutionDuration, time.Since(start).Seconds())
	}()

	// 补偿不随原ctx取消，但保留其中的值（trace、tx等）
	detached := context.WithoutCancel(ctx)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	for i, step := range s.steps {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return s.rollback(detached, s.steps[:i], fmt.Errorf("%w: %w", ErrTimeout, ctxErr))
		}
		if step.Action == nil {
			continue
		}
		if actErr := step.Action(ctx); actErr != nil {
			s.logger.Info("saga步骤失败,开始补偿",
				zap.String("saga", s.name),
				zap.String("step", step.Name),
				zap.Error(actErr),
			)
			return s.rollback(detached, s.steps[:i], &StepError{Index: i, Name: step.Name, Err: actErr})
		}
	}
	return nil
}

// rollback 逆序补偿done中的步骤，某个补偿失败时继续补偿其余步骤
// 预占场景下补偿失败的行最终由过期扫描回收
func (s *Saga) rollback(ctx context.Context, done []Step, cause error) error {
	errs := []error{cause}
	for i := len(done) - 1; i >= 0; i-- {
		step := done[i]
		if step.Compensate == nil {
			continue
		}

		metrics.IncCounter(metrics.SagaCompensationsTotal)
		if err := step.Compensate(ctx); err != nil {
			s.logger.Error("补偿失败",
				zap.String("saga", s.name),
				zap.String("step", step.Name),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("补偿[%s]失败: %w", step.Name, err))
		}
	}

	if len(errs) == 1 {
		return cause
	}
	return errors.Join(errs...)
}
