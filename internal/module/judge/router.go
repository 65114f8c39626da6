package judge

import (
	"fest-judging-system/internal/global/middleware"
	"fest-judging-system/internal/model"

	"github.com/gin-gonic/gin"
)

func (m *ModuleJudge) InitRouter(r *gin.RouterGroup) {
	judgeGroup := r.Group("/judges", middleware.Auth(model.RoleAdmin))
	{
		judgeGroup.GET("", ListJudges)
		judgeGroup.POST("", CreateJudge)
		judgeGroup.PUT("/:judgeId", UpdateJudge)
	}

	assignGroup := r.Group("/events/:id/judges", middleware.Auth(model.RoleAdmin))
	{
		assignGroup.POST("", AssignJudge)
		assignGroup.PUT("/:judgeId/enable", EnableJudge)
		assignGroup.DELETE("/:judgeId", UnassignJudge)
	}
}
