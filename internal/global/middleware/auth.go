package middleware

import (
	"strings"

	"fest-judging-system/internal/global/jwt"
	"fest-judging-system/internal/global/response"

	"github.com/gin-gonic/gin"
)

// Auth 校验 Bearer 令牌，角色低于 minRoleID 的拒绝
// 角色顺序：评委 < 带队老师 < 管理员
func Auth(minRoleID int) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			response.Fail(c, response.ErrTokenInvalid)
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")

		payload, valid := jwt.ParseToken(token)
		if !valid {
			response.Fail(c, response.ErrTokenInvalid)
			return
		}
		if payload.RoleID < minRoleID {
			response.Fail(c, response.ErrForbidden)
			return
		}
		c.Set(jwt.PayloadKey, payload)
		c.Next()
	}
}
