package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/stockledger/pkg/errors"
)

// releaseLockScript 只删除自己持有的锁
// 先GET再DEL必须原子执行，否则可能删掉锁过期后其他实例刚拿到的锁
var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SweepLock 过期扫描的分布式锁
// 设计说明：
// 1. 多实例部署时同一时刻只有一个实例执行扫描
// 2. SET key token NX PX ttl 抢锁，token为uuid
// 3. ttl兜底：持有锁的实例崩溃后锁自动过期
// 4. 锁只是减少重复劳动，正确性由预占状态的条件更新保证
type SweepLock struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewSweepLock 创建扫描锁
func NewSweepLock(client *redis.Client, key string, ttl time.Duration) *SweepLock {
	return &SweepLock{client: client, key: key, ttl: ttl}
}

// TryLock 尝试获取锁
// 返回ok=false表示锁被其他实例持有；ok=true时必须调用unlock释放
func (l *SweepLock) TryLock(ctx context.Context) (unlock func(context.Context) error, ok bool, err error) {
	token := uuid.NewString()

	acquired, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, false, apperrors.WrapCode(err, apperrors.ErrCodeRedisError, "获取扫描锁失败")
	}
	if !acquired {
		return nil, false, nil
	}

	unlock = func(ctx context.Context) error {
		if err := releaseLockScript.Run(ctx, l.client, []string{l.key}, token).Err(); err != nil {
			return apperrors.WrapCode(err, apperrors.ErrCodeRedisError, "释放扫描锁失败")
		}
		return nil
	}
	return unlock, true, nil
}
