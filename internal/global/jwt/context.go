package jwt

import (
	"fest-judging-system/internal/model"

	"github.com/gin-gonic/gin"
)

const PayloadKey = "payload"

func GetUserPayload(c *gin.Context) (userPayload *Claims, exist bool) {
	payload, _ := c.Get(PayloadKey)
	userPayload, exist = payload.(*Claims)
	return
}

// IsAdmin 当前请求是否为管理员
func IsAdmin(c *gin.Context) bool {
	p, ok := GetUserPayload(c)
	return ok && p.RoleID >= model.RoleAdmin
}
