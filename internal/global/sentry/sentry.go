package sentry

import (
	"fmt"
	"time"

	"fest-judging-system/config"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// Version 随 release 上报
const Version = "1.0.0"

// CodedError 带错误码的错误，只有 5xx 才上报
type CodedError interface {
	error
	GetCode() int32
}

func enabled() bool {
	return config.Get().Sentry.Dsn != ""
}

// Init 初始化 Sentry SDK，未配置 DSN 时直接跳过
func Init() error {
	cfg := config.Get()
	if !enabled() {
		return nil
	}

	tracesSampleRate := cfg.Sentry.SampleRate
	if tracesSampleRate <= 0 {
		tracesSampleRate = 1.0
	}
	environment := cfg.Sentry.Environment
	if environment == "" {
		environment = string(cfg.Mode)
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.Sentry.Dsn,
		Environment:      environment,
		Release:          "fest-judging-system@" + Version,
		SampleRate:       1.0, // 错误事件不采样
		EnableTracing:    true,
		TracesSampleRate: tracesSampleRate,
		EnableLogs:       true,
	})
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	return nil
}

// Middleware 返回 Sentry Gin 中间件，未启用时为空中间件
func Middleware() gin.HandlerFunc {
	if !enabled() {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	return sentrygin.New(sentrygin.Options{
		Repanic:         true, // 交给后面的 Recovery 处理
		WaitForDelivery: false,
		Timeout:         2 * time.Second,
	})
}

// CaptureException 上报服务器错误，业务错误（4xx）不上报
func CaptureException(c *gin.Context, err error) {
	if !enabled() || !shouldReport(err) {
		return
	}
	hub := sentrygin.GetHubFromContext(c)
	if hub == nil {
		return
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetRequest(c.Request)
		scope.SetTag("path", c.Request.URL.Path)
		scope.SetTag("method", c.Request.Method)
		scope.SetTag("client_ip", c.ClientIP())
		if payload, exists := c.Get("payload"); exists {
			scope.SetUser(sentry.User{
				IPAddress: c.ClientIP(),
				Data:      map[string]string{"payload": fmt.Sprintf("%+v", payload)},
			})
		}
		hub.CaptureException(err)
	})
}

func shouldReport(err error) bool {
	if e, ok := err.(CodedError); ok {
		return e.GetCode() >= 500 && e.GetCode() < 600
	}
	return true
}

// Flush 程序退出前调用，确保事件发送完毕
func Flush(timeout time.Duration) {
	if enabled() {
		sentry.Flush(timeout)
	}
}
