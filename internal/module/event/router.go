package event

import (
	"fest-judging-system/internal/global/middleware"
	"fest-judging-system/internal/model"

	"github.com/gin-gonic/gin"
)

func (m *ModuleEvent) InitRouter(r *gin.RouterGroup) {
	eventGroup := r.Group("/events")

	eventGroup.Use(middleware.Auth(model.RoleJudge))
	{
		eventGroup.GET("", ListEvents)
		eventGroup.GET("/:id", GetEvent)
	}

	eventGroup.Use(middleware.Auth(model.RoleAdmin))
	{
		eventGroup.POST("", CreateEvent)
		eventGroup.PUT("/:id", UpdateEvent)
		eventGroup.DELETE("/:id", DeleteEvent)
		eventGroup.PUT("/:id/restore", RestoreEvent)
		eventGroup.PUT("/:id/registration-status", SetRegistrationStatus)
	}
}
