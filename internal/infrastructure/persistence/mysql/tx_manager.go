package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// txKey 事务DB在context中的key
type txKey struct{}

// TxManager 事务管理器
// 教学要点:
// 1. 封装GORM的Transaction方法
// 2. 通过context传递事务DB(避免全局变量)
// 3. ctx中已有事务时嵌套执行(GORM自动使用Savepoint)
type TxManager struct {
	db *gorm.DB
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction 执行事务
// 教学要点:
// 1. fn函数内的所有Repository操作都会在同一事务中执行
// 2. fn返回error时自动ROLLBACK,返回nil时自动COMMIT
// 3. fn内必须使用传入的ctx调用仓储,否则会拿到事务外的连接
//
// 使用示例:
//
//	err := txManager.Transaction(ctx, func(ctx context.Context) error {
//	    r, err := reservationRepo.LockByID(ctx, id)
//	    if err != nil {
//	        return err
//	    }
//	    if _, err := ledger.ConfirmReserved(ctx, r.StockItemID, r.Quantity, ref, actor); err != nil {
//	        return err // 自动回滚
//	    }
//	    return reservationRepo.Transition(ctx, r, reservation.StatusReserved)
//	})
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return getDB(ctx, m.db).Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, txKey{}, tx)
		return fn(txCtx)
	})
}

// getDB 优先返回context中的事务DB
func getDB(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// forUpdate 加行锁读取
// SQLite没有行锁(单写者),只对MySQL追加FOR UPDATE
func forUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "mysql" {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}
