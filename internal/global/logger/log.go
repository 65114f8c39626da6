package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"

	"fest-judging-system/config"

	sentryslog "github.com/getsentry/sentry-go/slog"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	instance *slog.Logger
	once     sync.Once
)

// Get 返回全局 Logger，首次调用时按配置构建
func Get() *slog.Logger {
	once.Do(func() {
		instance = build(config.Get())
	})
	return instance
}

// New 返回带 module 字段的 Logger，各业务模块在包级别持有一份
func New(module string) *slog.Logger {
	return Get().With("module", module)
}

func build(cfg *config.Config) *slog.Logger {
	release := cfg.Mode == config.ModeRelease
	opts := &slog.HandlerOptions{AddSource: release, Level: parseLevel(cfg.Log.Level)}

	var h slog.Handler
	if release && cfg.Log.FilePath != "" {
		h = slog.NewJSONHandler(rotatingFile(cfg.Log), opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	if cfg.Sentry.Dsn != "" {
		h = fanout{h, sentryHandler(release)}
	}

	return slog.New(h).With("app_name", "fest-judging-system", "env", string(cfg.Mode))
}

// rotatingFile release 模式下的日志文件，按大小轮转
func rotatingFile(l config.Log) io.Writer {
	return &lumberjack.Logger{
		Filename:   l.FilePath,
		MaxSize:    l.MaxSize,
		MaxBackups: l.MaxBackups,
		MaxAge:     l.MaxAge,
		Compress:   l.Compress,
	}
}

// sentryHandler Error 作为 Sentry Event 上报，Warn 及以上作为 Sentry Log
func sentryHandler(addSource bool) slog.Handler {
	return sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   []slog.Level{slog.LevelWarn, slog.LevelError},
		AddSource:  addSource,
	}.NewSentryHandler(context.Background())
}

// parseLevel 识别 debug/info/warn/error（不区分大小写），其余按 info 处理
func parseLevel(s string) slog.Level {
	var lv slog.Level
	if err := lv.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lv
}

// fanout 把同一条日志分发给多个 handler
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	return f.each(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (f fanout) WithGroup(name string) slog.Handler {
	return f.each(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (f fanout) each(fn func(slog.Handler) slog.Handler) fanout {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = fn(h)
	}
	return out
}

// requestInfo 是 *gin.Context 的最小子集，避免 logger 依赖 gin
type requestInfo interface {
	ClientIP() string
	GetHeader(string) string
}

// WithContext 给日志附上请求来源（client_ip 以及代理转发头）
func WithContext(base *slog.Logger, c requestInfo) *slog.Logger {
	args := []any{"client_ip", c.ClientIP()}
	for _, h := range [][2]string{
		{"X-Forwarded-For", "x_forwarded_for"},
		{"X-Real-IP", "x_real_ip"},
	} {
		if v := c.GetHeader(h[0]); v != "" {
			args = append(args, h[1], v)
		}
	}
	return base.With(args...)
}
