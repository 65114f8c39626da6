package user

import (
	"strings"

	"fest-judging-system/internal/global/database"
	"fest-judging-system/internal/global/jwt"
	"fest-judging-system/internal/global/response"
	"fest-judging-system/internal/model"
	"fest-judging-system/tools"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login 管理员与老师用邮箱 + 密码登录
func Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定登录请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	user, err := findByEmail(req.Email)
	if err != nil {
		response.Fail(c, err)
		return
	}
	if !tools.PasswordCompare(req.Password, user.Password) {
		log.Warn("密码错误", "user_id", user.ID)
		response.Fail(c, response.ErrInvalidPassword)
		return
	}

	log.Info("用户登录成功", "user_id", user.ID, "role_id", user.RoleID)
	response.Success(c, loginResult(user))
}

// Me 当前登录用户
func Me(c *gin.Context) {
	payload, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return
	}
	var user model.User
	if err := database.DB.Preload("Faculty").First(&user, payload.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithTips("用户不存在"))
			return
		}
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, gin.H{"user": user})
}

func findByEmail(email string) (*model.User, error) {
	var user model.User
	err := database.DB.Preload("Faculty").Where("email = ?", strings.ToLower(email)).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		log.Warn("用户不存在", "email", email)
		return nil, response.ErrInvalidPassword
	case err != nil:
		log.Error("数据库查询失败", "error", err)
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	return &user, nil
}

// loginResult 老师的令牌带上所属学校，用于限制只能操作本校数据
func loginResult(user *model.User) gin.H {
	payload := jwt.Payload{UserID: user.ID, RoleID: user.RoleID}
	if user.Faculty != nil {
		payload.FacultyID = user.Faculty.ID
		payload.SchoolID = user.Faculty.SchoolID
	}
	return gin.H{
		"token":   jwt.CreateToken(payload),
		"user_id": user.ID,
		"role_id": user.RoleID,
		"faculty": user.Faculty,
	}
}
