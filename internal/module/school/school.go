package school

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

type CreateSchoolReq struct {
	Name    string `json:"name" binding:"required,max=150"`
	Code    string `json:"code" binding:"max=20"`
	Address string `json:"address" binding:"max=255"`
}

func CreateSchool(c *gin.Context) {
	var req CreateSchoolReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	school := model.School{Name: req.Name, Code: req.Code, Address: req.Address}
	if err := database.DB.Create(&school).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			response.Fail(c, response.ErrAlreadyExists.WithTips("学校已存在"))
			return
		}
		log.Error("创建学校失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	log.Info("学校创建成功", "school_id", school.ID, "name", school.Name)
	response.Success(c, gin.H{"school": school})
}

// ListSchools 老师只能看到本校
func ListSchools(c *gin.Context) {
	query := database.DB.Model(&model.School{}).Order("name")
	if !jwt.IsAdmin(c) {
		payload, _ := jwt.GetUserPayload(c)
		query = query.Where("id = ?", payload.SchoolID)
	}
	var schools []model.School
	if err := query.Find(&schools).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, gin.H{"schools": schools, "total": len(schools)})
}

func GetSchool(c *gin.Context) {
	school, ok := loadSchool(c)
	if !ok {
		return
	}
	var students, faculty int64
	if err := database.DB.Model(&model.Student{}).Where("school_id = ?", school.ID).Count(&students).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if err := database.DB.Model(&model.Faculty{}).Where("school_id = ?", school.ID).Count(&faculty).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, gin.H{"school": school, "students": students, "faculty": faculty})
}

type CreateStudentReq struct {
	Name        string            `json:"name" binding:"required,max=100"`
	AgeCategory model.AgeCategory `json:"age_category" binding:"required"`
	Gender      string            `json:"gender" binding:"omitempty,oneof=M F"`
	ClassName   string            `json:"class_name" binding:"max=20"`
}

func CreateStudent(c *gin.Context) {
	school, ok := loadSchool(c)
	if !ok {
		return
	}
	var req CreateStudentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	switch req.AgeCategory {
	case model.AgeCategorySubJunior, model.AgeCategoryJunior, model.AgeCategorySenior:
	default:
		response.Fail(c, response.ErrInvalidRequest.WithTips("学生年龄组只能是 Sub Junior、Junior 或 Senior"))
		return
	}

	student := model.Student{
		SchoolID:    school.ID,
		Name:        req.Name,
		AgeCategory: req.AgeCategory,
		Gender:      req.Gender,
		ClassName:   req.ClassName,
	}
	if err := database.DB.Omit("School").Create(&student).Error; err != nil {
		log.Error("创建学生失败", "error", err, "school_id", school.ID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	log.Info("学生创建成功", "student_id", student.ID, "school_id", school.ID)
	response.Success(c, gin.H{"student": student})
}

type listStudentsReq struct {
	tools.Pagination
	AgeCategory string `form:"age_category"`
	Name        string `form:"name"`
}

func ListStudents(c *gin.Context) {
	school, ok := loadSchool(c)
	if !ok {
		return
	}
	var req listStudentsReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	req.Normalize(50, 200)

	query := database.DB.Model(&model.Student{}).Where("school_id = ?", school.ID)
	if req.AgeCategory != "" {
		query = query.Where("age_category = ?", req.AgeCategory)
	}
	if req.Name != "" {
		query = query.Where("name LIKE ?", "%"+req.Name+"%")
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	var students []model.Student
	if err := query.Order("name").Offset(req.Offset()).Limit(req.PageSize).Find(&students).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, gin.H{
		"students":    students,
		"total":       total,
		"page":        req.Page,
		"page_size":   req.PageSize,
		"total_pages": req.TotalPages(total),
	})
}

type CreateFacultyReq struct {
	Name         string `json:"name" binding:"required,max=100"`
	Email        string `json:"email" binding:"required,email"`
	MobileNumber string `json:"mobile_number" binding:"max=20"`
	// 填写时同时创建老师登录账号
	Password string `json:"password" binding:"omitempty,min=8"`
}

func CreateFaculty(c *gin.Context) {
	school, ok := loadSchool(c)
	if !ok {
		return
	}
	var req CreateFacultyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	faculty := model.Faculty{SchoolID: school.ID, Name: req.Name, Email: req.Email, MobileNumber: req.MobileNumber}
	err := database.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("School").Create(&faculty).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return response.ErrAlreadyExists.WithTips("邮箱已被使用")
			}
			return response.ErrDatabase.WithOrigin(err)
		}
		if req.Password == "" {
			return nil
		}
		hash, err := tools.PasswordHash(req.Password)
		if err != nil {
			return response.ErrServerInternal.WithOrigin(err)
		}
		user := model.User{Email: req.Email, Password: hash, RoleID: model.RoleFaculty, FacultyID: &faculty.ID}
		if err := tx.Omit("Faculty").Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return response.ErrAlreadyExists.WithTips("邮箱已被使用")
			}
			return response.ErrDatabase.WithOrigin(err)
		}
		return nil
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	log.Info("老师创建成功", "faculty_id", faculty.ID, "school_id", school.ID)
	response.Success(c, gin.H{"faculty": faculty})
}

func ListFaculty(c *gin.Context) {
	school, ok := loadSchool(c)
	if !ok {
		return
	}
	var faculty []model.Faculty
	if err := database.DB.Where("school_id = ?", school.ID).Order("name").Find(&faculty).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, gin.H{"faculty": faculty, "total": len(faculty)})
}

// loadSchool 读取路径中的学校，老师只能访问本校
func loadSchool(c *gin.Context) (*model.School, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips("学校ID格式错误"))
		return nil, false
	}
	if !jwt.IsAdmin(c) {
		payload, ok := jwt.GetUserPayload(c)
		if !ok || payload.SchoolID != uint(id) {
			response.Fail(c, response.ErrForbidden.WithTips("只能访问本校数据"))
			return nil, false
		}
	}
	var school model.School
	if err := database.DB.First(&school, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithTips("学校不存在"))
			return nil, false
		}
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return nil, false
	}
	return &school, true
}
