package test

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"fest-judging-system/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var seq atomic.Int64

func Ptr[T any](v T) *T {
	return &v
}

func CreateSchool(t *testing.T, db *gorm.DB, name string) *model.School {
	t.Helper()
	s := &model.School{Name: name, Code: name[:1]}
	require.NoError(t, db.Create(s).Error)
	return s
}

func CreateStudent(t *testing.T, db *gorm.DB, schoolID uint, name string, age model.AgeCategory) *model.Student {
	t.Helper()
	s := &model.Student{SchoolID: schoolID, Name: name, AgeCategory: age, Gender: "F", ClassName: "7A"}
	require.NoError(t, db.Create(s).Error)
	return s
}

func CreateFaculty(t *testing.T, db *gorm.DB, schoolID uint, name string) *model.Faculty {
	t.Helper()
	f := &model.Faculty{SchoolID: schoolID, Name: name, Email: fmt.Sprintf("%s-%d@school.test", name, seq.Add(1))}
	require.NoError(t, db.Create(f).Error)
	return f
}

func CreateEvent(t *testing.T, db *gorm.DB, e model.Event) *model.Event {
	t.Helper()
	if e.EventType == "" {
		e.EventType = model.EventTypeIndividual
	}
	if e.AgeCategory == "" {
		e.AgeCategory = model.AgeCategoryJunior
	}
	require.NoError(t, db.Create(&e).Error)
	return &e
}

func CreateJudge(t *testing.T, db *gorm.DB, name string) *model.Judge {
	t.Helper()
	j := &model.Judge{Name: name, MobileNumber: fmt.Sprintf("9%09d", seq.Add(1))}
	require.NoError(t, db.Create(j).Error)
	return j
}

func AssignJudge(t *testing.T, db *gorm.DB, eventID, judgeID uint, enabled bool) *model.EventJudge {
	t.Helper()
	ej := &model.EventJudge{EventID: eventID, JudgeID: judgeID}
	require.NoError(t, db.Create(ej).Error)
	// gorm 不写零值，需要显式更新
	require.NoError(t, db.Model(ej).Update("enabled", enabled).Error)
	ej.Enabled = enabled
	return ej
}

// CreateRegistration 学生报名；createdAt 决定同分时的先后
func CreateRegistration(t *testing.T, db *gorm.DB, eventID, schoolID uint, teamName *string, createdAt time.Time, students ...*model.Student) *model.Registration {
	t.Helper()
	r := &model.Registration{
		Base:                  model.Base{CreatedAt: createdAt},
		EventID:               eventID,
		SchoolID:              schoolID,
		TeamName:              teamName,
		RegisteredByFacultyID: 1,
	}
	for _, s := range students {
		r.Participants = append(r.Participants, model.RegistrationParticipant{
			ParticipantType: model.ParticipantStudent,
			StudentID:       &s.ID,
		})
	}
	require.NoError(t, db.Create(r).Error)
	return r
}

func CreateJudgment(t *testing.T, db *gorm.DB, judgeID, registrationID uint, score float64) *model.Judgment {
	t.Helper()
	j := &model.Judgment{JudgeID: judgeID, RegistrationID: registrationID, Score: score}
	require.NoError(t, db.Create(j).Error)
	return j
}
