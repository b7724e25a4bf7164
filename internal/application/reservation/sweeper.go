package reservation

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/stockledger/pkg/metrics"
)

// LeaderLock 多副本部署时的扫描互斥锁(Redis实现)
// ok=false表示其他副本持有锁,本轮跳过
type LeaderLock interface {
	TryLock(ctx context.Context) (unlock func(context.Context) error, ok bool, err error)
}

// Sweeper 过期扫描后台任务
//
// 设计说明:
// 1. 独立的goroutine与生命周期,不依附于任何请求
// 2. 每个周期先抢锁,抢不到说明其他副本在扫,直接跳过
// 3. ctx取消后结束;正在处理的那条预占在自己的事务内完成或回滚
type Sweeper struct {
	manager  *Manager
	interval time.Duration
	lock     LeaderLock
	logger   *zap.Logger

	wg sync.WaitGroup
}

// NewSweeper 创建过期扫描任务;lock为nil时每个周期都执行
func NewSweeper(manager *Manager, interval time.Duration, lock LeaderLock, logger *zap.Logger) *Sweeper {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{
		manager:  manager,
		interval: interval,
		lock:     lock,
		logger:   logger.Named("sweeper"),
	}
}

// Start 在后台运行,直到ctx取消;Wait等待退出
func (s *Sweeper) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.Run(ctx)
	}()
}

// Wait 等待后台任务退出
func (s *Sweeper) Wait() {
	s.wg.Wait()
}

// Run 阻塞运行
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("过期扫描已启动", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("过期扫描已停止")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce 执行一轮扫描,返回过期条数
func (s *Sweeper) RunOnce(ctx context.Context) int {
	if s.lock != nil {
		unlock, ok, err := s.lock.TryLock(ctx)
		if err != nil {
			s.logger.Warn("获取扫描锁失败,本轮跳过", zap.Error(err))
			metrics.IncCounterVec(metrics.ExpirySweepRunsTotal, map[string]string{"result": "skipped"})
			return 0
		}
		if !ok {
			metrics.IncCounterVec(metrics.ExpirySweepRunsTotal, map[string]string{"result": "skipped"})
			return 0
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				s.logger.Warn("释放扫描锁失败", zap.Error(err))
			}
		}()
	}

	count, err := s.manager.ExpirySweep(ctx, time.Now())
	if err != nil && ctx.Err() == nil {
		s.logger.Error("过期扫描失败", zap.Error(err))
	}
	return count
}
