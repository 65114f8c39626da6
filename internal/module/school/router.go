package school

import (
	"fest-judging-system/internal/global/middleware"
	"fest-judging-system/internal/model"

	"github.com/gin-gonic/gin"
)

func (m *ModuleSchool) InitRouter(r *gin.RouterGroup) {
	schoolGroup := r.Group("/schools", middleware.Auth(model.RoleFaculty))
	{
		schoolGroup.GET("", ListSchools)
		schoolGroup.GET("/:id", GetSchool)
		schoolGroup.GET("/:id/students", ListStudents)
		schoolGroup.POST("/:id/students", CreateStudent)
		schoolGroup.GET("/:id/faculty", ListFaculty)
	}

	adminGroup := r.Group("/schools", middleware.Auth(model.RoleAdmin))
	{
		adminGroup.POST("", CreateSchool)
		adminGroup.POST("/:id/faculty", CreateFaculty)
	}

	r.POST("/students/:id/photo", middleware.Auth(model.RoleFaculty), UploadStudentPhoto)
}
