package tracing

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"fest-judging-system/config"

	"github.com/redis/go-redis/v9"
)

// RedisSentryHook 实现 redis.Hook，命令名作为 span 描述（不带参数，避免高基数）
type RedisSentryHook struct {
	slowThreshold time.Duration
}

func NewRedisSentryHook() *RedisSentryHook {
	ms := config.Get().Sentry.Tracing.RedisSlowThresholdMs
	return &RedisSentryHook{slowThreshold: time.Duration(ms) * time.Millisecond}
}

func (h *RedisSentryHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h *RedisSentryHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		span := StartSpanFromContext(ctx, "db.redis", strings.ToUpper(cmd.Name()))
		if span != nil {
			span.SetData("db.system", "redis")
			ctx = span.Context()
		}
		err := next(ctx, cmd)
		if errors.Is(err, redis.Nil) {
			// 缓存未命中不算错误
			finish(span, h.sampled(start), nil)
		} else {
			finish(span, h.sampled(start), err)
		}
		return err
	}
}

func (h *RedisSentryHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		names := make([]string, 0, 3)
		for i, cmd := range cmds {
			if i == 3 {
				names = append(names, "...")
				break
			}
			names = append(names, strings.ToUpper(cmd.Name()))
		}
		span := StartSpanFromContext(ctx, "db.redis.pipeline", "PIPELINE: "+strings.Join(names, ", "))
		if span != nil {
			span.SetData("redis.pipeline_length", len(cmds))
			ctx = span.Context()
		}
		err := next(ctx, cmds)
		finish(span, h.sampled(start), err)
		return err
	}
}

func (h *RedisSentryHook) sampled(start time.Time) bool {
	return h.slowThreshold == 0 || time.Since(start) >= h.slowThreshold
}
