package tracing

import (
	"time"

	"fest-judging-system/config"

	"github.com/getsentry/sentry-go"
	"gorm.io/gorm"
)

const (
	gormSpanKey    = "sentry:span"
	gormStartKey   = "sentry:start"
	callbackPrefix = "sentry_tracing"
)

// GormTracingPlugin 为每条 SQL 创建 db.sql.* span，低于慢查询阈值的不发送
type GormTracingPlugin struct {
	slowThreshold time.Duration
}

func NewGormTracingPlugin() *GormTracingPlugin {
	ms := config.Get().Sentry.Tracing.DBSlowThresholdMs
	return &GormTracingPlugin{slowThreshold: time.Duration(ms) * time.Millisecond}
}

func (p *GormTracingPlugin) Name() string {
	return "SentryTracingPlugin"
}

func (p *GormTracingPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	_ = cb.Create().Before("gorm:create").Register(callbackPrefix+":before_create", p.before("db.sql.create"))
	_ = cb.Query().Before("gorm:query").Register(callbackPrefix+":before_query", p.before("db.sql.query"))
	_ = cb.Update().Before("gorm:update").Register(callbackPrefix+":before_update", p.before("db.sql.update"))
	_ = cb.Delete().Before("gorm:delete").Register(callbackPrefix+":before_delete", p.before("db.sql.delete"))
	_ = cb.Row().Before("gorm:row").Register(callbackPrefix+":before_row", p.before("db.sql.row"))
	_ = cb.Raw().Before("gorm:raw").Register(callbackPrefix+":before_raw", p.before("db.sql.raw"))

	_ = cb.Create().After("gorm:create").Register(callbackPrefix+":after_create", p.after)
	_ = cb.Query().After("gorm:query").Register(callbackPrefix+":after_query", p.after)
	_ = cb.Update().After("gorm:update").Register(callbackPrefix+":after_update", p.after)
	_ = cb.Delete().After("gorm:delete").Register(callbackPrefix+":after_delete", p.after)
	_ = cb.Row().After("gorm:row").Register(callbackPrefix+":after_row", p.after)
	_ = cb.Raw().After("gorm:raw").Register(callbackPrefix+":after_raw", p.after)
	return nil
}

func (p *GormTracingPlugin) before(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		if db.Statement == nil || db.Statement.Context == nil {
			return
		}
		db.InstanceSet(gormStartKey, time.Now())
		table := db.Statement.Table
		if table == "" {
			table = "unknown"
		}
		span := StartSpanFromContext(db.Statement.Context, operation, table)
		if span == nil {
			return
		}
		span.SetData("db.system", db.Dialector.Name())
		db.InstanceSet(gormSpanKey, span)
		db.Statement.Context = span.Context()
	}
}

func (p *GormTracingPlugin) after(db *gorm.DB) {
	startVal, ok := db.InstanceGet(gormStartKey)
	if !ok {
		return
	}
	spanVal, ok := db.InstanceGet(gormSpanKey)
	if !ok {
		return
	}
	span, ok := spanVal.(*sentry.Span)
	if !ok {
		return
	}
	elapsed := time.Since(startVal.(time.Time))
	span.SetData("db.rows_affected", db.RowsAffected)
	finish(span, p.slowThreshold == 0 || elapsed >= p.slowThreshold, db.Error)
}
