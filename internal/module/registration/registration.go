package registration

import (
	"strconv"

	"fest-judging-system/internal/global/database"
	"fest-judging-system/internal/global/jwt"
	"fest-judging-system/internal/global/response"
	"fest-judging-system/internal/model"
	"fest-judging-system/tools"

	"github.com/gin-gonic/gin"
)

// CreateRegistration 老师只能给本校报名，管理员需要指定 school_id
func CreateRegistration(c *gin.Context) {
	payload, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return
	}
	var req CreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	if !jwt.IsAdmin(c) {
		if req.SchoolID != 0 && req.SchoolID != payload.SchoolID {
			response.Fail(c, response.ErrForbidden.WithTips("只能为本校报名"))
			return
		}
		req.SchoolID = payload.SchoolID
		req.RegisteredByFacultyID = payload.FacultyID
	}
	if req.SchoolID == 0 {
		response.Fail(c, response.ErrInvalidRequest.WithTips("缺少 school_id"))
		return
	}

	ctx := c.Request.Context()
	registration, err := Create(ctx, database.DB, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	if registration, err = Find(ctx, database.DB, registration.ID); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"registration": registration})
}

func UpdateRegistration(c *gin.Context) {
	existing, ok := loadOwned(c)
	if !ok {
		return
	}
	var req UpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	ctx := c.Request.Context()
	if _, err := Update(ctx, database.DB, existing, req); err != nil {
		response.Fail(c, err)
		return
	}
	registration, err := Find(ctx, database.DB, existing.ID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"registration": registration})
}

func DeleteRegistration(c *gin.Context) {
	existing, ok := loadOwned(c)
	if !ok {
		return
	}
	if err := Delete(c.Request.Context(), database.DB, existing); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c)
}

func GetRegistration(c *gin.Context) {
	registration, ok := loadOwned(c)
	if !ok {
		return
	}
	response.Success(c, gin.H{"registration": registration})
}

type listReq struct {
	tools.Pagination
	EventID  uint `form:"event_id"`
	SchoolID uint `form:"school_id"`
}

// ListRegistrations 分页查询，老师只能看到本校的报名
func ListRegistrations(c *gin.Context) {
	var req listReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	req.Normalize(20, 100)
	if !jwt.IsAdmin(c) {
		payload, _ := jwt.GetUserPayload(c)
		req.SchoolID = payload.SchoolID
	}

	query := database.DB.WithContext(c.Request.Context()).Model(&model.Registration{})
	if req.EventID != 0 {
		query = query.Where("event_id = ?", req.EventID)
	}
	if req.SchoolID != 0 {
		query = query.Where("school_id = ?", req.SchoolID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	var registrations []model.Registration
	err := query.
		Preload("Event").
		Preload("School").
		Preload("Participants.Student").
		Preload("Participants.Faculty").
		Order("id DESC").
		Offset(req.Offset()).
		Limit(req.PageSize).
		Find(&registrations).Error
	if err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, gin.H{
		"registrations": registrations,
		"total":         total,
		"page":          req.Page,
		"page_size":     req.PageSize,
		"total_pages":   req.TotalPages(total),
	})
}

// loadOwned 加载报名并校验老师是否属于该报名学校
func loadOwned(c *gin.Context) (*model.Registration, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips("报名ID格式错误"))
		return nil, false
	}
	registration, err := Find(c.Request.Context(), database.DB, uint(id))
	if err != nil {
		response.Fail(c, err)
		return nil, false
	}
	if !jwt.IsAdmin(c) {
		payload, ok := jwt.GetUserPayload(c)
		if !ok || payload.SchoolID != registration.SchoolID {
			response.Fail(c, response.ErrForbidden.WithTips("只能操作本校的报名"))
			return nil, false
		}
	}
	return registration, true
}
