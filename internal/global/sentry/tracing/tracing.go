// Package tracing 把 GORM、Redis 与 resty 的调用挂到当前请求的 Sentry span 下
package tracing

import (
	"context"

	"fest-judging-system/config"

	"github.com/getsentry/sentry-go"
)

// IsEnabled 是否配置了 Sentry
func IsEnabled() bool {
	return config.Get().Sentry.Dsn != ""
}

// StartSpanFromContext 在 ctx 中的 span 下创建子 span，没有父 span 时返回 nil
// 调用方需判空后 Finish
func StartSpanFromContext(ctx context.Context, operation, description string) *sentry.Span {
	parent := sentry.SpanFromContext(ctx)
	if parent == nil {
		return nil
	}
	span := parent.StartChild(operation)
	span.Description = description
	return span
}

// finish 按慢操作阈值决定是否发送，并根据 err 设置状态
func finish(span *sentry.Span, sampled bool, err error) {
	if span == nil {
		return
	}
	if !sampled {
		span.Sampled = sentry.SampledFalse
	}
	if err != nil {
		span.Status = sentry.SpanStatusInternalError
		span.SetData("error", err.Error())
	} else {
		span.Status = sentry.SpanStatusOK
	}
	span.Finish()
}
