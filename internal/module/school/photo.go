package school

import (
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"fest-judging-system/config"
	"fest-judging-system/internal/global/database"
	"fest-judging-system/internal/global/jwt"
	"fest-judging-system/internal/global/objectstore"
	"fest-judging-system/internal/global/response"
	"fest-judging-system/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const maxPhotoSize = 5 << 20

var photoExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

// UploadStudentPhoto 上传学生照片到对象存储并保存公开地址
func UploadStudentPhoto(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips("学生ID格式错误"))
		return
	}
	var student model.Student
	if err := database.DB.First(&student, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithTips("学生不存在"))
			return
		}
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if !jwt.IsAdmin(c) {
		payload, ok := jwt.GetUserPayload(c)
		if !ok || payload.SchoolID != student.SchoolID {
			response.Fail(c, response.ErrForbidden.WithTips("只能上传本校学生照片"))
			return
		}
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips("缺少 photo 文件"))
		return
	}
	if fileHeader.Size > maxPhotoSize {
		response.Fail(c, response.ErrInvalidRequest.WithTips("照片不能超过 5MB"))
		return
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !photoExts[ext] {
		response.Fail(c, response.ErrInvalidRequest.WithTips("只支持 jpg、png、webp 格式"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Fail(c, response.ErrServerInternal.WithOrigin(err))
		return
	}
	defer file.Close()
	body, err := io.ReadAll(file)
	if err != nil {
		response.Fail(c, response.ErrServerInternal.WithOrigin(err))
		return
	}

	if uploader == nil {
		response.Fail(c, response.ErrServerInternal.WithTips("对象存储未配置"))
		return
	}
	key := objectstore.Key(config.Get().S3.Prefix, "students", student.Name, ext)
	url, err := uploader.Upload(c.Request.Context(), key, body, http.DetectContentType(body))
	if err != nil {
		log.Error("上传学生照片失败", "error", err, "student_id", student.ID)
		response.Fail(c, response.ErrUpstream.WithOrigin(err))
		return
	}

	if err := database.DB.Model(&student).Update("photo_url", url).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	student.PhotoURL = url
	log.Info("学生照片上传成功", "student_id", student.ID, "key", key)
	response.Success(c, gin.H{"student": student})
}
