package event

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

type EventCreateReq struct {
	Name        string            `json:"name" binding:"required,max=100"`
	Description string            `json:"description" binding:"max=500"`
	EventType   model.EventType   `json:"event_type" binding:"required"`
	AgeCategory model.AgeCategory `json:"age_category" binding:"required"`
	Gender      *string           `json:"gender"`
	MaxTeamSize *int              `json:"max_team_size" binding:"omitempty,min=1"`
	Criteria    []string          `json:"criteria"`
}

// EventUpdateReq 指针字段支持部分更新
type EventUpdateReq struct {
	Name        *string            `json:"name" binding:"omitempty,max=100"`
	Description *string            `json:"description" binding:"omitempty,max=500"`
	EventType   *model.EventType   `json:"event_type"`
	AgeCategory *model.AgeCategory `json:"age_category"`
	Gender      *string            `json:"gender"`
	MaxTeamSize *int               `json:"max_team_size" binding:"omitempty,min=1"`
	Criteria    []string           `json:"criteria"`
}

func validateKinds(eventType model.EventType, age model.AgeCategory) error {
	if !eventType.Valid() {
		return response.ErrInvalidRequest.WithTips("event_type 只能是 Individual、Group 或 Combined")
	}
	if !age.Valid() {
		return response.ErrInvalidRequest.WithTips("age_category 不合法")
	}
	return nil
}

func CreateEvent(c *gin.Context) {
	var req EventCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定创建活动请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	if err := validateKinds(req.EventType, req.AgeCategory); err != nil {
		response.Fail(c, err)
		return
	}

	var existing model.Event
	err := database.DB.Where("name = ? AND age_category = ?", req.Name, req.AgeCategory).First(&existing).Error
	if err == nil {
		log.Warn("活动已存在", "name", req.Name, "age_category", req.AgeCategory)
		response.Fail(c, response.ErrAlreadyExists.WithTips(req.Name+" 已存在"))
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	event := model.Event{
		Name:        req.Name,
		Description: req.Description,
		EventType:   req.EventType,
		AgeCategory: req.AgeCategory,
		Gender:      req.Gender,
		MaxTeamSize: req.MaxTeamSize,
		Criteria:    req.Criteria,
	}
	if err := database.DB.Create(&event).Error; err != nil {
		log.Error("创建活动失败", "error", err, "name", req.Name)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("活动创建成功", "event_id", event.ID, "name", event.Name)
	response.Success(c, gin.H{"event": event})
}

type ListEventsReq struct {
	tools.Pagination
	Name        string `form:"name"`
	EventType   string `form:"event_type"`
	AgeCategory string `form:"age_category"`
	IsCompleted *bool  `form:"is_completed"`
}

func ListEvents(c *gin.Context) {
	var req ListEventsReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	req.Normalize(20, 100)

	query := database.DB.Model(&model.Event{})
	if req.Name != "" {
		query = query.Where("name LIKE ?", "%"+req.Name+"%")
	}
	if req.EventType != "" {
		query = query.Where("event_type = ?", req.EventType)
	}
	if req.AgeCategory != "" {
		query = query.Where("age_category = ?", req.AgeCategory)
	}
	if req.IsCompleted != nil {
		query = query.Where("is_completed = ?", *req.IsCompleted)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	var events []model.Event
	if err := query.Order("id").Offset(req.Offset()).Limit(req.PageSize).Find(&events).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, gin.H{
		"events":      events,
		"total":       total,
		"page":        req.Page,
		"page_size":   req.PageSize,
		"total_pages": req.TotalPages(total),
	})
}

type judgeInEvent struct {
	JudgeID uint   `json:"judge_id"`
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// GetEvent 活动详情，附带报名数与评委分配
func GetEvent(c *gin.Context) {
	event, ok := loadEvent(c, database.DB)
	if !ok {
		return
	}

	var registrations int64
	if err := database.DB.Model(&model.Registration{}).Where("event_id = ?", event.ID).Count(&registrations).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	var judges []judgeInEvent
	err := database.DB.Model(&model.EventJudge{}).
		Select("event_judge.judge_id, judge.name, event_judge.enabled").
		Joins("JOIN judge ON judge.id = event_judge.judge_id").
		Where("event_judge.event_id = ?", event.ID).
		Order("event_judge.judge_id").
		Scan(&judges).Error
	if err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, gin.H{
		"event":         event,
		"registrations": registrations,
		"judges":        judges,
	})
}

func UpdateEvent(c *gin.Context) {
	event, ok := loadEvent(c, database.DB)
	if !ok {
		return
	}
	var req EventUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	if req.Name != nil {
		event.Name = *req.Name
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.EventType != nil {
		event.EventType = *req.EventType
	}
	if req.AgeCategory != nil {
		event.AgeCategory = *req.AgeCategory
	}
	if req.Gender != nil {
		event.Gender = req.Gender
		if *req.Gender == "" {
			event.Gender = nil
		}
	}
	if req.MaxTeamSize != nil {
		event.MaxTeamSize = req.MaxTeamSize
	}
	if req.Criteria != nil {
		event.Criteria = req.Criteria
	}
	if err := validateKinds(event.EventType, event.AgeCategory); err != nil {
		response.Fail(c, err)
		return
	}

	// is_completed 只能通过发布接口修改
	if err := database.DB.Omit("is_completed").Save(event).Error; err != nil {
		log.Error("更新活动失败", "error", err, "event_id", event.ID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	log.Info("活动更新成功", "event_id", event.ID)
	response.Success(c, gin.H{"event": event})
}

func DeleteEvent(c *gin.Context) {
	event, ok := loadEvent(c, database.DB)
	if !ok {
		return
	}
	if err := database.DB.Delete(event).Error; err != nil {
		log.Error("删除活动失败", "error", err, "event_id", event.ID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	log.Info("活动删除成功", "event_id", event.ID)
	response.Success(c)
}

func RestoreEvent(c *gin.Context) {
	event, ok := loadEvent(c, database.DB.Unscoped())
	if !ok {
		return
	}
	if !event.DeletedAt.Valid {
		response.Success(c, gin.H{"event": event})
		return
	}
	if err := database.DB.Unscoped().Model(event).Update("deleted_at", nil).Error; err != nil {
		log.Error("还原活动失败", "error", err, "event_id", event.ID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	event.DeletedAt = gorm.DeletedAt{}
	log.Info("活动还原成功", "event_id", event.ID)
	response.Success(c, gin.H{"event": event})
}

type registrationStatusReq struct {
	RegistrationClosed *bool `json:"registration_closed" binding:"required"`
}

// SetRegistrationStatus 开启或关闭报名
func SetRegistrationStatus(c *gin.Context) {
	event, ok := loadEvent(c, database.DB)
	if !ok {
		return
	}
	var req registrationStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	if err := database.DB.Model(event).Update("registration_closed", *req.RegistrationClosed).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	event.RegistrationClosed = *req.RegistrationClosed
	log.Info("活动报名状态已更新", "event_id", event.ID, "registration_closed", event.RegistrationClosed)
	response.Success(c, gin.H{"event": event})
}

func loadEvent(c *gin.Context, db *gorm.DB) (*model.Event, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips("活动ID格式错误"))
		return nil, false
	}
	var event model.Event
	if err := db.WithContext(c.Request.Context()).First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithTips("活动不存在"))
			return nil, false
		}
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return nil, false
	}
	return &event, true
}
