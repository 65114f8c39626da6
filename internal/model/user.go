package model

const (
	RoleJudge   = 0
	RoleFaculty = 1
	RoleAdmin   = 2
)

// User 管理员与带队老师的登录账号，评委单独用 Judge 登录
type User struct {
	Model
	Email     string   `gorm:"type:varchar(150);uniqueIndex;not null" json:"email"`
	Password  string   `gorm:"type:varchar(255);not null" json:"-"`
	RoleID    int      `gorm:"default:1;not null" json:"role_id"`
	FacultyID *uint    `gorm:"" json:"faculty_id"`
	Faculty   *Faculty `gorm:"foreignKey:FacultyID;references:ID" json:"faculty,omitempty"`
}
