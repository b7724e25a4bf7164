package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithDetail(t *testing.T) {
	base := New(ErrCodeInvalidParams, "参数错误")

	err := WithDetail(base, "quantity必须大于0")

	assert.Equal(t, ErrCodeInvalidParams, err.Code)
	assert.Equal(t, "参数错误: quantity必须大于0", err.Message)
	assert.True(t, errors.Is(err, base), "附加细节后仍应匹配原始错误")

	// 再包一层fmt.Errorf也能匹配
	wrapped := fmt.Errorf("处理第2行: %w", err)
	assert.True(t, errors.Is(wrapped, base))
	assert.Equal(t, err, GetAppError(wrapped))
}

func TestGetAppError(t *testing.T) {
	t.Run("AppError原样返回", func(t *testing.T) {
		assert.Same(t, ErrNotFound, GetAppError(ErrNotFound))
	})

	t.Run("普通错误包装为内部错误", func(t *testing.T) {
		raw := errors.New("connection refused")
		appErr := GetAppError(raw)
		assert.Equal(t, ErrCodeInternal, appErr.Code)
		assert.ErrorIs(t, appErr, raw)
	})
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(ErrInvalidParams))
	assert.True(t, IsClientError(WithDetail(ErrNotFound, "id=1")))
	assert.False(t, IsClientError(ErrInternal))
	assert.False(t, IsClientError(errors.New("boom")))
}

func TestWrapCode(t *testing.T) {
	cause := errors.New("dial tcp: i/o timeout")
	err := WrapCode(cause, ErrCodeDatabaseError, "查询库存记录失败")

	assert.Equal(t, ErrCodeDatabaseError, err.Code)
	assert.True(t, errors.Is(err, cause))
	assert.False(t, IsClientError(err))
}

func TestWrap(t *testing.T) {
	cause := errors.New("no such table: warehouses")
	err := Wrap(cause, "查询仓库失败")

	assert.Equal(t, ErrCodeInternal, err.Code)
	assert.Equal(t, "[50000] 查询仓库失败: no such table: warehouses", err.Error())
	assert.Equal(t, "[40900] 参数错误", ErrInvalidParams.Error())
}
