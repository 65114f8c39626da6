package logger

import (
	"bytes"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeRequest struct {
	ip     string
	header http.Header
}

func (r fakeRequest) ClientIP() string            { return r.ip }
func (r fakeRequest) GetHeader(key string) string { return r.header.Get(key) }

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("WARN"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}

func TestFanout(t *testing.T) {
	var all, errs bytes.Buffer
	h := fanout{
		slog.NewTextHandler(&all, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&errs, &slog.HandlerOptions{Level: slog.LevelError}),
	}
	l := slog.New(h).With("module", "Judgment")

	l.Info("评分已提交", "registration_id", 3)
	l.Error("发布失败", "event_id", 1)

	assert.Contains(t, all.String(), "评分已提交")
	assert.Contains(t, all.String(), "发布失败")
	assert.NotContains(t, errs.String(), "评分已提交")
	assert.Contains(t, errs.String(), "module=Judgment")
	assert.Contains(t, errs.String(), "event_id=1")
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))

	req := fakeRequest{ip: "10.0.0.5", header: http.Header{}}
	req.header.Set("X-Real-IP", "203.0.113.9")
	WithContext(base, req).Info("ok")

	assert.Contains(t, buf.String(), "client_ip=10.0.0.5")
	assert.Contains(t, buf.String(), "x_real_ip=203.0.113.9")
	assert.NotContains(t, buf.String(), "x_forwarded_for")
}
