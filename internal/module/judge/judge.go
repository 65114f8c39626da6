package judge

import (
	"strconv"

	"fest-judging-system/internal/global/database"
	"fest-judging-system/internal/global/response"
	"fest-judging-system/internal/model"
	"fest-judging-system/tools"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type CreateJudgeReq struct {
	Name         string `json:"name" binding:"required,max=100"`
	MobileNumber string `json:"mobile_number" binding:"required,max=20"`
	Pin          string `json:"pin" binding:"required,min=4,max=12"`
}

type UpdateJudgeReq struct {
	Name *string `json:"name" binding:"omitempty,max=100"`
	Pin  *string `json:"pin" binding:"omitempty,min=4,max=12"`
}

func CreateJudge(c *gin.Context) {
	var req CreateJudgeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	var count int64
	if err := database.DB.Model(&model.Judge{}).Where("mobile_number = ?", req.MobileNumber).Count(&count).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if count > 0 {
		response.Fail(c, response.ErrAlreadyExists.WithTips("手机号已被其他评委使用"))
		return
	}

	pin, err := tools.PasswordHash(req.Pin)
	if err != nil {
		response.Fail(c, response.ErrServerInternal.WithOrigin(err))
		return
	}
	judge := model.Judge{Name: req.Name, MobileNumber: req.MobileNumber, Pin: pin}
	if err := database.DB.Create(&judge).Error; err != nil {
		log.Error("创建评委失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	log.Info("评委创建成功", "judge_id", judge.ID)
	response.Success(c, gin.H{"judge": judge})
}

func UpdateJudge(c *gin.Context) {
	judgeID, ok := uintParam(c, "judgeId")
	if !ok {
		return
	}
	var req UpdateJudgeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	var judge model.Judge
	if err := database.DB.First(&judge, judgeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithTips("评委不存在"))
			return
		}
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if req.Name != nil {
		judge.Name = *req.Name
	}
	if req.Pin != nil {
		pin, err := tools.PasswordHash(*req.Pin)
		if err != nil {
			response.Fail(c, response.ErrServerInternal.WithOrigin(err))
			return
		}
		judge.Pin = pin
	}
	if err := database.DB.Save(&judge).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, gin.H{"judge": judge})
}

type judgeItem struct {
	model.Judge
	Assignments []model.EventJudge `json:"assignments"`
}

// ListJudges 评委列表，附带各自的活动分配
func ListJudges(c *gin.Context) {
	var judges []model.Judge
	if err := database.DB.Order("name").Find(&judges).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	var assignments []model.EventJudge
	if err := database.DB.Preload("Event").Order("event_id").Find(&assignments).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	byJudge := make(map[uint][]model.EventJudge, len(judges))
	for _, a := range assignments {
		byJudge[a.JudgeID] = append(byJudge[a.JudgeID], a)
	}

	items := make([]judgeItem, 0, len(judges))
	for _, j := range judges {
		list := byJudge[j.ID]
		if list == nil {
			list = []model.EventJudge{}
		}
		items = append(items, judgeItem{Judge: j, Assignments: list})
	}
	response.Success(c, gin.H{"judges": items, "total": len(items)})
}

type assignReq struct {
	JudgeID uint `json:"judge_id" binding:"required"`
	Enabled bool `json:"enabled"`
}

func AssignJudge(c *gin.Context) {
	eventID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req assignReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	assignment, err := Assign(c.Request.Context(), database.DB, eventID, req.JudgeID, req.Enabled)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"assignment": assignment})
}

func EnableJudge(c *gin.Context) {
	eventID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	judgeID, ok := uintParam(c, "judgeId")
	if !ok {
		return
	}
	if err := Enable(c.Request.Context(), database.DB, eventID, judgeID); err != nil {
		response.Fail(c, err)
		return
	}
	log.Info("评委已启用", "event_id", eventID, "judge_id", judgeID)
	response.Success(c)
}

func UnassignJudge(c *gin.Context) {
	eventID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	judgeID, ok := uintParam(c, "judgeId")
	if !ok {
		return
	}
	if err := Unassign(c.Request.Context(), database.DB, eventID, judgeID); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c)
}

func uintParam(c *gin.Context, key string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips(key+" 格式错误"))
		return 0, false
	}
	return uint(id), true
}
