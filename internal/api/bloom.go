package api

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/redis/go-redis/v9"

	"osint-api/internal/logger"
	"osint-api/internal/lookup"
)

// 文档注释：计算布隆过滤器位置
// 参数：data 为参与哈希的字节序列，m 为位图大小，k 为哈希次数。
// 背景：使用 FNV64a 结合索引扰动生成 k 个位置，用于 GetBit/SetBit。
func bloomPositions(data []byte, m uint32, k int) []int64 {
	pos := make([]int64, k)
	for i := 0; i < k; i++ {
		h := fnv.New64a()
		h.Write([]byte{byte(i)})
		h.Write(data)
		pos[i] = int64(uint32(h.Sum64() % uint64(m)))
	}
	return pos
}

// 文档注释：检查并写入布隆过滤器位图
// 返回：true 表示首次见到（已写入位图）；false 表示窗口内已见过。
// 异常：Redis 交互错误时返回 (true, err)，调用方照常处理。
func bloomCheckAndSet(ctx context.Context, rc *redis.Client, key string, positions []int64, ttl time.Duration) (bool, error) {
	seen := true
	for _, p := range positions {
		b, err := rc.GetBit(ctx, key, p).Result()
		if err != nil {
			return true, err
		}
		if b == 0 {
			seen = false
		}
	}
	if seen {
		return false, nil
	}
	for _, p := range positions {
		if err := rc.SetBit(ctx, key, p, 1).Err(); err != nil {
			return true, err
		}
	}
	_ = rc.Expire(ctx, key, ttl).Err()
	return true, nil
}

const (
	bloomBits   = 1 << 20
	bloomHashes = 4
)

// BloomStats：对最近 IP 写入做短周期去重，减轻数据库写压力
// 约束：计数类统计不去重，原样转发；窗口内重复的 IP 只写一次。
type BloomStats struct {
	Next   lookup.Stats
	RC     *redis.Client
	Window time.Duration
}

func (b *BloomStats) IncrStats(ctx context.Context, kind, outcome string) error {
	return b.Next.IncrStats(ctx, kind, outcome)
}

func (b *BloomStats) RecordRecent(ctx context.Context, ip string) error {
	if b.RC == nil {
		return b.Next.RecordRecent(ctx, ip)
	}
	w := b.Window
	if w <= 0 {
		w = 10 * time.Minute
	}
	key := "osint:bloom:recent:" + time.Now().Truncate(w).Format("200601021504")
	first, err := bloomCheckAndSet(ctx, b.RC, key, bloomPositions([]byte(ip), bloomBits, bloomHashes), 2*w)
	if err != nil {
		logger.From(ctx).Debug("bloom_error", "err", err)
	}
	if !first {
		return nil
	}
	return b.Next.RecordRecent(ctx, ip)
}
