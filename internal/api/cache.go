package api

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"osint-api/internal/logger"
	"osint-api/internal/lookup"
)

// RedisCache：合并后 IP 记录的 Redis 缓存
// 约束：读写失败仅记录日志，按未命中处理；TTL 由配置决定。
type RedisCache struct {
	RC  *redis.Client
	TTL time.Duration
}

func (c *RedisCache) Get(ctx context.Context, key string) (*lookup.Result, bool) {
	s, err := c.RC.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			logger.From(ctx).Debug("redis_get_error", "key", key, "err", err)
		}
		return nil, false
	}
	var r lookup.Result
	if err := json.Unmarshal([]byte(s), &r); err != nil || r.Data == nil {
		logger.From(ctx).Debug("redis_decode_error", "key", key, "err", err)
		return nil, false
	}
	return &r, true
}

func (c *RedisCache) Set(ctx context.Context, key string, r *lookup.Result) {
	b, err := json.Marshal(r)
	if err != nil {
		return
	}
	if err := c.RC.Set(ctx, key, string(b), c.TTL).Err(); err != nil {
		logger.From(ctx).Debug("redis_set_error", "key", key, "err", err)
	}
}
