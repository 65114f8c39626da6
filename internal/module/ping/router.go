package ping

import (
	"fest-judging-system/internal/global/database"
	"fest-judging-system/internal/global/redis"
	"fest-judging-system/internal/global/response"
	"fest-judging-system/internal/global/sentry"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (p *ModulePing) InitRouter(r *gin.RouterGroup) {
	r.GET("/ping", Ping)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Ping 顺带检查数据库与 Redis 连接
func Ping(c *gin.Context) {
	ctx := c.Request.Context()
	status := gin.H{"database": "ok", "redis": "ok"}

	if database.DB != nil {
		sqlDB, err := database.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			log.Warn("数据库连接异常", "error", err)
			status["database"] = "down"
		}
	}
	if redis.Client != nil {
		if err := redis.Client.Ping(ctx).Err(); err != nil {
			log.Warn("Redis 连接异常", "error", err)
			status["redis"] = "down"
		}
	}

	response.Success(c, gin.H{
		"message":  "pong",
		"version":  sentry.Version,
		"services": status,
	})
}
