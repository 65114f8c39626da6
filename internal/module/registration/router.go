package registration

import (
	"fest-judging-system/internal/global/middleware"
	"fest-judging-system/internal/model"

	"github.com/gin-gonic/gin"
)

func (m *ModuleRegistration) InitRouter(r *gin.RouterGroup) {
	group := r.Group("/registrations", middleware.Auth(model.RoleFaculty))
	{
		group.GET("", ListRegistrations)
		group.GET("/:id", GetRegistration)
		group.POST("", CreateRegistration)
		group.PUT("/:id", UpdateRegistration)
		group.DELETE("/:id", DeleteRegistration)
	}
}
