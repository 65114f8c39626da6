package leaderboard

import (
	"fest-judging-system/internal/global/middleware"
	"fest-judging-system/internal/model"

	"github.com/gin-gonic/gin"
)

func (m *ModuleLeaderboard) InitRouter(r *gin.RouterGroup) {
	lb := r.Group("/leaderboard")
	{
		lb.GET("", GetLeaderboard)
		lb.GET("/events", GetEventLeaderboards)
		lb.POST("/purge-cache", middleware.Auth(model.RoleAdmin), PurgeCache)
	}

	admin := r.Group("/admin/analytics", middleware.Auth(model.RoleAdmin))
	{
		admin.GET("", GetAnalytics)
		admin.POST("/purge-cache", PurgeAnalyticsCache)
	}
}
