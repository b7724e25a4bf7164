package mysql

import (
	"errors"
	"fmt"
	"testing"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"

	"github.com/xiebiao/stockledger/internal/domain/stock"
	apperrors "github.com/xiebiao/stockledger/pkg/errors"
)

func TestWrapDBError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"死锁", &mysqldriver.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"}, apperrors.ErrCodeConcurrentModification},
		{"锁等待超时", &mysqldriver.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"}, apperrors.ErrCodeConcurrentModification},
		{"其他MySQL错误", &mysqldriver.MySQLError{Number: 1146, Message: "Table doesn't exist"}, apperrors.ErrCodeDatabaseError},
		{"连接断开", errors.New("driver: bad connection"), apperrors.ErrCodeDatabaseError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := wrapDBError(fmt.Errorf("gorm: %w", tt.err), "更新库存数量失败")

			contention := tt.wantCode == apperrors.ErrCodeConcurrentModification
			assert.Equal(t, tt.wantCode, apperrors.GetAppError(err).Code)
			assert.Equal(t, contention, errors.Is(err, stock.ErrConcurrentModification))
			assert.Equal(t, contention, apperrors.IsClientError(err))
			assert.ErrorIs(t, err, tt.err, "原始驱动错误保留在错误链中")
			assert.NotErrorIs(t, err, stock.ErrVersionConflict, "不在事务内重试")
		})
	}
}

func TestIsLockContention(t *testing.T) {
	assert.True(t, isLockContention(&mysqldriver.MySQLError{Number: errDeadlock}))
	assert.True(t, isLockContention(fmt.Errorf("wrap: %w", &mysqldriver.MySQLError{Number: errLockWaitTimeout})))
	assert.False(t, isLockContention(&mysqldriver.MySQLError{Number: 1062}))
	assert.False(t, isLockContention(nil))
}
