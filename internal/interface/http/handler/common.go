package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/stockledger/pkg/errors"
	"github.com/xiebiao/stockledger/pkg/response"
)

// bindError 参数绑定/校验失败
func bindError(c *gin.Context, err error) {
	response.Error(c, apperrors.WithDetail(apperrors.ErrInvalidParams, err.Error()))
}

// pathID 解析路径中的数字ID,失败时已写入响应
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, apperrors.WithDetail(apperrors.ErrInvalidParams, "无效的"+name))
		return 0, false
	}
	return uint(id), true
}
