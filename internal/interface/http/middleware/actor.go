package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/stockledger/internal/domain/stock"
)

// 操作人请求头
// 认证由网关负责，这里只透传操作人身份写入流水
const (
	HeaderActorType = "X-Actor-Type"
	HeaderActorID   = "X-Actor-Id"

	actorKey = "actor"
)

// 未携带请求头时的默认操作人
const (
	DefaultActorType = "ADMIN"
	DefaultActorID   = "anonymous"
)

var actorTypes = map[string]bool{
	"ADMIN":         true,
	"VENDOR":        true,
	"SYSTEM":        true,
	"ORDER_SERVICE": true,
}

// Actor 解析操作人请求头
// 未知类型按ADMIN处理
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := stock.Actor{Type: DefaultActorType, ID: DefaultActorID}

		if t := strings.ToUpper(strings.TrimSpace(c.GetHeader(HeaderActorType))); actorTypes[t] {
			actor.Type = t
		}
		if id := strings.TrimSpace(c.GetHeader(HeaderActorID)); id != "" {
			actor.ID = id
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// GetActor 获取当前操作人
func GetActor(c *gin.Context) stock.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(stock.Actor); ok {
			return actor
		}
	}
	return stock.Actor{Type: DefaultActorType, ID: DefaultActorID}
}
