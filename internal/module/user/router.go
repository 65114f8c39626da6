package user

import (
	"fest-judging-system/internal/global/middleware"
	"fest-judging-system/internal/model"

	"github.com/gin-gonic/gin"
)

// InitRouter 登录相关端点不需要鉴权
func (u *ModuleUser) InitRouter(r *gin.RouterGroup) {
	userGroup := r.Group("/user")

	userGroup.POST("/login", Login)
	userGroup.POST("/otp/send", SendOTP)
	userGroup.POST("/otp/verify", VerifyOTP)

	userGroup.GET("/me", middleware.Auth(model.RoleFaculty), Me)
}
