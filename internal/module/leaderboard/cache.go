package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"fest-judging-system/internal/global/metrics"

	goredis "github.com/redis/go-redis/v9"
)

const (
	keyPrefix      = "leaderboard:"
	eventsPrefix   = keyPrefix + "events:"
	genericPrefix  = keyPrefix + "generic:"
	analyticsKey   = "admin:analytics:summary"
	scanBatchCount = 100
)

// Cache 排行榜使用的键值缓存，由启动流程创建后传入 Aggregator
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

type RedisCache struct {
	client goredis.UniversalClient
}

func NewRedisCache(client goredis.UniversalClient) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// Keys 用 SCAN 遍历，避免 KEYS 阻塞 Redis
func (c *RedisCache) Keys(ctx context.Context, prefix string) ([]string, error) {
	var (
		keys   []string
		cursor uint64
	)
	for {
		batch, next, err := c.client.Scan(ctx, cursor, prefix+"*", scanBatchCount).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			return keys, nil
		}
	}
}

type cacheEntry[T any] struct {
	Data           T         `json:"data"`
	DataCapturedAt time.Time `json:"data_captured_at"`
}

// cached 命中时返回缓存数据与当时的采集时间；未命中时计算并写回
// 并发未命中时各自计算、后写者覆盖，计算本身是幂等的
func cached[T any](ctx context.Context, a *Aggregator, key string, compute func(context.Context) (T, error)) (T, time.Time, bool, error) {
	if raw, ok, err := a.cache.Get(ctx, key); err != nil {
		log.Warn("读取排行榜缓存失败", "key", key, "error", err)
	} else if ok {
		var entry cacheEntry[T]
		if err := json.Unmarshal(raw, &entry); err == nil {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			return entry.Data, entry.DataCapturedAt, true, nil
		}
		log.Warn("排行榜缓存内容无法解析，重新计算", "key", key)
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	data, err := compute(ctx)
	if err != nil {
		var zero T
		return zero, time.Time{}, false, err
	}
	entry := cacheEntry[T]{Data: data, DataCapturedAt: a.now().UTC()}
	raw, err := json.Marshal(entry)
	if err != nil {
		return data, entry.DataCapturedAt, false, nil
	}
	if err := a.cache.Set(ctx, key, raw, a.ttl); err != nil {
		log.Warn("写入排行榜缓存失败", "key", key, "error", err)
	}
	return data, entry.DataCapturedAt, false, nil
}
