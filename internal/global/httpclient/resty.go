// Package httpclient 出站 HTTP 调用共用的 resty 客户端
package httpclient

import (
	"time"

	"fest-judging-system/internal/global/sentry/tracing"

	"github.com/go-resty/resty/v2"
)

var Client *resty.Client

func Init() {
	Client = New()
}

func New() *resty.Client {
	c := resty.New().
		SetTimeout(10*time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetHeader("User-Agent", "fest-judging-system")
	if tracing.IsEnabled() {
		tracing.SetupRestyTracing(c)
	}
	return c
}
