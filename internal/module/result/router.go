package result

import (
	"fest-judging-system/internal/global/middleware"
	"fest-judging-system/internal/model"

	"github.com/gin-gonic/gin"
)

func (m *ModuleResult) InitRouter(r *gin.RouterGroup) {
	r.POST("/events/:id/mark-complete", middleware.Auth(model.RoleAdmin), MarkComplete)

	admin := r.Group("/admin/events/:id", middleware.Auth(model.RoleAdmin))
	{
		admin.GET("/results-data", GetResultsData)
		admin.GET("/results-data/export", ExportResultsData)
	}
}
