package mysql

import (
	"errors"
	"fmt"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/xiebiao/stockledger/internal/domain/stock"
	apperrors "github.com/xiebiao/stockledger/pkg/errors"
)

// MySQL行锁竞争错误号
const (
	errLockWaitTimeout = 1205
	errDeadlock        = 1213
)

// isDuplicateError 判断是否为唯一索引冲突错误
// - MySQL 1062: Duplicate entry 'xxx' for key 'yyy'
// - SQLite: UNIQUE constraint failed: table.column
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}

// isLockContention 判断是否为死锁或锁等待超时
func isLockContention(err error) bool {
	var myErr *mysqldriver.MySQLError
	if !errors.As(err, &myErr) {
		return false
	}
	return myErr.Number == errDeadlock || myErr.Number == errLockWaitTimeout
}

// wrapDBError 包装数据库错误
// 行锁竞争转换为可重试的ErrConcurrentModification:死锁时MySQL已回滚整个事务,
// 不能在Savepoint内重试,由调用方(HTTP客户端、消息重投)重新发起
func wrapDBError(err error, message string) error {
	if isLockContention(err) {
		return fmt.Errorf("%w: %w", apperrors.WithDetail(stock.ErrConcurrentModification, message), err)
	}
	return apperrors.WrapCode(err, apperrors.ErrCodeDatabaseError, message)
}

// normalizePage 分页参数兜底
func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
