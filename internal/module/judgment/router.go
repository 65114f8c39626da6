package judgment

import (
	"fest-judging-system/internal/global/middleware"
	"fest-judging-system/internal/model"

	"github.com/gin-gonic/gin"
)

func (m *ModuleJudgment) InitRouter(r *gin.RouterGroup) {
	judgeGroup := r.Group("/judge")
	judgeGroup.POST("/login", Login)

	judgeGroup.Use(middleware.Auth(model.RoleJudge))
	{
		judgeGroup.GET("/assignments", ListAssignments)
		judgeGroup.GET("/events/:id/registrations", ListEventRegistrations)
		judgeGroup.POST("/judgments", SubmitJudgment)
	}
}
