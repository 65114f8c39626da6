package judgment

import (
	"strconv"

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
	MobileNumber string `json:"mobile_number" binding:"required"`
	Pin          string `json:"pin" binding:"required"`
}

// Login 评委用手机号 + PIN 登录
func Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	var judge model.Judge
	err := database.DB.Where("mobile_number = ?", req.MobileNumber).First(&judge).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		log.Warn("评委不存在", "mobile_number", req.MobileNumber)
		response.Fail(c, response.ErrInvalidPassword)
		return
	case err != nil:
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if judge.Pin == "" || !tools.PasswordCompare(req.Pin, judge.Pin) {
		log.Warn("评委 PIN 错误", "judge_id", judge.ID)
		response.Fail(c, response.ErrInvalidPassword)
		return
	}

	log.Info("评委登录成功", "judge_id", judge.ID)
	response.Success(c, gin.H{
		"token": jwt.CreateToken(jwt.Payload{RoleID: model.RoleJudge, JudgeID: judge.ID}),
		"judge": judge,
	})
}

// SubmitJudgment 评委只能以自己的身份打分，管理员可以代录
func SubmitJudgment(c *gin.Context) {
	var req SubmitReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	payload, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return
	}
	if !jwt.IsAdmin(c) && payload.JudgeID != req.JudgeID {
		response.Fail(c, response.ErrForbidden.WithTips("不能以其他评委身份打分"))
		return
	}

	judgment, err := Submit(c.Request.Context(), database.DB, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"judgment": judgment})
}

type assignmentResp struct {
	EventID     uint              `json:"event_id"`
	EventName   string            `json:"event_name"`
	EventType   model.EventType   `json:"event_type"`
	AgeCategory model.AgeCategory `json:"age_category"`
	Criteria    []string          `json:"criteria"`
	IsCompleted bool              `json:"is_completed"`
	Enabled     bool              `json:"enabled"`
}

// ListAssignments 当前评委的全部分配，启用的排在前面
func ListAssignments(c *gin.Context) {
	judgeID, ok := currentJudgeID(c)
	if !ok {
		response.Fail(c, response.ErrForbidden.WithTips("仅评委可用"))
		return
	}

	var assignments []model.EventJudge
	err := database.DB.WithContext(c.Request.Context()).
		Joins("Event").
		Where("event_judge.judge_id = ?", judgeID).
		Order("event_judge.enabled DESC, event_judge.id").
		Find(&assignments).Error
	if err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	result := make([]assignmentResp, 0, len(assignments))
	for _, a := range assignments {
		result = append(result, assignmentResp{
			EventID:     a.EventID,
			EventName:   a.Event.Name,
			EventType:   a.Event.EventType,
			AgeCategory: a.Event.AgeCategory,
			Criteria:    a.Event.Criteria,
			IsCompleted: a.Event.IsCompleted,
			Enabled:     a.Enabled,
		})
	}
	response.Success(c, gin.H{"assignments": result})
}

type scoringRow struct {
	RegistrationID uint     `json:"registration_id"`
	SchoolName     string   `json:"school_name"`
	TeamName       *string  `json:"team_name"`
	Participants   []string `json:"participants"`
	Score          *float64 `json:"score"`
	Comments       *string  `json:"comments"`
}

// ListEventRegistrations 打分页面：活动下所有报名及当前评委已给的分
func ListEventRegistrations(c *gin.Context) {
	judgeID, ok := currentJudgeID(c)
	if !ok {
		response.Fail(c, response.ErrForbidden.WithTips("仅评委可用"))
		return
	}
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips("活动ID格式错误"))
		return
	}

	ctx := c.Request.Context()
	assigned, err := IsAssigned(ctx, database.DB, judgeID, uint(eventID))
	if err != nil {
		response.Fail(c, err)
		return
	}
	if !assigned {
		response.Fail(c, response.ErrForbidden.WithTips("未被分配到该活动"))
		return
	}

	var registrations []model.Registration
	err = database.DB.WithContext(ctx).
		Preload("School").
		Preload("Participants.Student").
		Preload("Participants.Faculty").
		Where("event_id = ?", eventID).
		Order("created_at, id").
		Find(&registrations).Error
	if err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	var judgments []model.Judgment
	err = database.DB.WithContext(ctx).
		Where("judge_id = ? AND registration_id IN (?)", judgeID,
			database.DB.Model(&model.Registration{}).Select("id").Where("event_id = ?", eventID)).
		Find(&judgments).Error
	if err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	byRegistration := make(map[uint]model.Judgment, len(judgments))
	for _, j := range judgments {
		byRegistration[j.RegistrationID] = j
	}

	rows := make([]scoringRow, 0, len(registrations))
	for _, r := range registrations {
		row := scoringRow{RegistrationID: r.ID, SchoolName: r.School.Name, TeamName: r.TeamName}
		for _, p := range r.Participants {
			row.Participants = append(row.Participants, p.DisplayName())
		}
		if j, ok := byRegistration[r.ID]; ok {
			row.Score = &j.Score
			row.Comments = j.Comments
		}
		rows = append(rows, row)
	}
	response.Success(c, gin.H{"registrations": rows})
}

func currentJudgeID(c *gin.Context) (uint, bool) {
	payload, ok := jwt.GetUserPayload(c)
	if !ok || payload.JudgeID == 0 {
		return 0, false
	}
	return payload.JudgeID, true
}
