package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	appreservation "github.com/xiebiao/stockledger/internal/application/reservation"
	"github.com/xiebiao/stockledger/internal/domain/stock"
	"github.com/xiebiao/stockledger/internal/infrastructure/config"
	"github.com/xiebiao/stockledger/internal/infrastructure/logger"
	"github.com/xiebiao/stockledger/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/stockledger/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/stockledger/internal/interface/http/router"
	"github.com/xiebiao/stockledger/pkg/mq"
)

// sweepLockKey 过期扫描分布式锁的Redis键
const sweepLockKey = "stockledger:sweep:lock"

// ========================================
// Custom Providers (自定义Provider)
// ========================================
// 教学说明：
// 有些依赖的构造函数参数不是直接的类型，需要从Config中提取
// 这时需要编写自定义Provider函数

// provideLogger 创建全局logger
// 返回的cleanup在退出时刷新缓冲区
func provideLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	log, err := logger.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	zap.ReplaceGlobals(log)
	return log, func() { _ = log.Sync() }, nil
}

// provideDB 创建数据库连接，cleanup关闭连接池
func provideDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, func(), error) {
	db, err := mysql.NewDB(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

// provideLedgerOptions 从配置提取账本参数
func provideLedgerOptions(cfg *config.Config) stock.LedgerOptions {
	opts := stock.DefaultLedgerOptions()
	if cfg.Ledger.MaxRetries > 0 {
		opts.MaxRetries = cfg.Ledger.MaxRetries
	}
	if cfg.Ledger.RetryInitialInterval > 0 {
		opts.InitialInterval = cfg.Ledger.RetryInitialInterval
	}
	if cfg.Ledger.RetryMaxInterval > 0 {
		opts.MaxInterval = cfg.Ledger.RetryMaxInterval
	}
	opts.DefaultLowStockThreshold = cfg.Ledger.DefaultLowStockThreshold
	return opts
}

// provideManagerOptions 从配置提取预占参数
func provideManagerOptions(cfg *config.Config) appreservation.Options {
	opts := appreservation.DefaultOptions()
	opts.DefaultTTL = cfg.Reservation.DefaultTTL
	opts.MaxTTL = cfg.Reservation.MaxTTL
	opts.SweepBatchSize = cfg.Reservation.SweepBatchSize
	return opts
}

// provideSweepLock Redis启用时返回分布式锁，否则返回nil（单副本部署）
func provideSweepLock(cfg *config.Config, log *zap.Logger) (appreservation.LeaderLock, func(), error) {
	if !cfg.Redis.Enabled {
		log.Info("Redis未启用，过期扫描不加分布式锁")
		return nil, func() {}, nil
	}

	client, err := redis.NewClient(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	lock := redis.NewSweepLock(client, sweepLockKey, cfg.Reservation.SweepLockTTL)
	return lock, func() { _ = client.Close() }, nil
}

// provideSweeper 创建过期扫描任务
func provideSweeper(manager *appreservation.Manager, cfg *config.Config, lock appreservation.LeaderLock, log *zap.Logger) *appreservation.Sweeper {
	return appreservation.NewSweeper(manager, cfg.Reservation.SweepInterval, lock, log)
}

// provideCommandConsumer 结算命令队列消费者，mq.enabled=false时为nil
func provideCommandConsumer(cfg *config.Config, log *zap.Logger) (*mq.Consumer, func(), error) {
	if !cfg.MQ.Enabled {
		return nil, func() {}, nil
	}

	c, err := mq.NewConsumer(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, cfg.MQ.CommandQueue, cfg.MQ.CommandKeys, log.Named("mq"))
	if err != nil {
		return nil, nil, fmt.Errorf("创建结算命令消费者失败: %w", err)
	}
	return c, func() { _ = c.Close() }, nil
}

// provideGinEngine 创建并配置Gin引擎
func provideGinEngine(cfg *config.Config, log *zap.Logger, handlers router.Handlers) *gin.Engine {
	return router.New(cfg, log, handlers)
}

// pingDB 数据库探活（gRPC健康检查使用）
func pingDB(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
