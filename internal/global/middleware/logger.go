package middleware

import (
	"bytes"
	"log/slog"
	"strings"
	"time"

	sentrylib "github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// maxResponseLogSize 日志中记录的响应体最大大小（10KB）
const maxResponseLogSize = 10 * 1024

// responseBodyWriter 包装 gin.ResponseWriter 以捕获响应体内容
type responseBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseBodyWriter) Write(b []byte) (int, error) {
	if remaining := maxResponseLogSize - w.body.Len(); remaining > 0 {
		if len(b) <= remaining {
			w.body.Write(b)
		} else {
			w.body.Write(b[:remaining])
		}
	}
	return w.ResponseWriter.Write(b)
}

// Logger release 模式下的请求日志；只记录 JSON 响应体，导出的表格等二进制内容不记录
func Logger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		blw := &responseBodyWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = blw

		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		}
		if strings.HasPrefix(c.Writer.Header().Get("Content-Type"), "application/json") {
			attrs = append(attrs, "response_body", blw.body.String())
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			log.Error("HTTP Request", attrs...)
		case status >= 400:
			log.Warn("HTTP Request", attrs...)
		default:
			log.Info("HTTP Request", attrs...)
		}
	}
}

// SentryEnrichIP 放在 Sentry 中间件之后，把客户端 IP 写入 Scope
func SentryEnrichIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.ConfigureScope(func(scope *sentrylib.Scope) {
				clientIP := c.ClientIP()
				scope.SetUser(sentrylib.User{IPAddress: clientIP})
				scope.SetTag("client_ip", clientIP)
				if forwardedFor := c.GetHeader("X-Forwarded-For"); forwardedFor != "" {
					scope.SetTag("x_forwarded_for", forwardedFor)
				}
			})
		}
		c.Next()
	}
}
