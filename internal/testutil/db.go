// Package testutil 测试辅助:基于SQLite内存库搭建真实的仓储与账本
package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xiebiao/stockledger/internal/domain/stock"
	"github.com/xiebiao/stockledger/internal/infrastructure/config"
	"github.com/xiebiao/stockledger/internal/infrastructure/persistence/mysql"
)

// NewDB 创建已迁移表结构的SQLite内存库,测试结束自动关闭
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{
			Driver:      "sqlite",
			Path:        ":memory:",
			AutoMigrate: true,
		},
	}
	db, err := mysql.NewDB(cfg, zap.NewNop())
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Ledger 测试用账本及其依赖
type Ledger struct {
	DB        *gorm.DB
	Tx        *mysql.TxManager
	Items     stock.Repository
	Movements stock.MovementRepository
	Ledger    *stock.Ledger
}

// NewLedger 基于SQLite内存库创建账本
// warehouses为nil时不校验仓库
func NewLedger(t testing.TB, warehouses stock.WarehouseDirectory) *Ledger {
	t.Helper()

	db := NewDB(t)
	tx := mysql.NewTxManager(db)
	items := mysql.NewStockItemRepository(db)
	movements := mysql.NewMovementRepository(db)

	opts := stock.DefaultLedgerOptions()
	opts.InitialInterval = time.Millisecond
	opts.MaxRetries = 20 // 并发测试中冲突较多
	return &Ledger{
		DB:        db,
		Tx:        tx,
		Items:     items,
		Movements: movements,
		Ledger:    stock.NewLedger(items, movements, tx, warehouses, opts, zap.NewNop()),
	}
}

// IntPtr 返回int指针
func IntPtr(v int) *int { return &v }

// BoolPtr 返回bool指针
func BoolPtr(v bool) *bool { return &v }

// StringPtr 返回string指针
func StringPtr(v string) *string { return &v }
