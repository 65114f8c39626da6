package model

type ParticipantType string

const (
	ParticipantStudent ParticipantType = "student"
	ParticipantFaculty ParticipantType = "faculty"
)

type Registration struct {
	Base
	EventID               uint                      `gorm:"not null;index" json:"event_id"`
	SchoolID              uint                      `gorm:"not null;index" json:"school_id"`
	TeamName              *string                   `gorm:"type:varchar(100)" json:"team_name"`
	RegisteredByFacultyID uint                      `gorm:"not null" json:"registered_by_faculty_id"`
	Event                 Event                     `gorm:"foreignKey:EventID;references:ID" json:"event,omitempty"`
	School                School                    `gorm:"foreignKey:SchoolID;references:ID" json:"school,omitempty"`
	Participants          []RegistrationParticipant `gorm:"foreignKey:RegistrationID;constraint:OnDelete:CASCADE" json:"participants"`
}

// RegistrationParticipant 报名与学生/老师的关联，按 ParticipantType 区分
type RegistrationParticipant struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	RegistrationID  uint            `gorm:"not null;index" json:"registration_id"`
	ParticipantType ParticipantType `gorm:"type:varchar(10);not null" json:"participant_type"`
	StudentID       *uint           `gorm:"index" json:"student_id,omitempty"`
	FacultyID       *uint           `gorm:"index" json:"faculty_id,omitempty"`
	Student         *Student        `gorm:"foreignKey:StudentID;references:ID" json:"student,omitempty"`
	Faculty         *Faculty        `gorm:"foreignKey:FacultyID;references:ID" json:"faculty,omitempty"`
}

// DisplayName 参赛者姓名
func (p *RegistrationParticipant) DisplayName() string {
	switch {
	case p.Student != nil:
		return p.Student.Name
	case p.Faculty != nil:
		return p.Faculty.Name
	}
	return ""
}
