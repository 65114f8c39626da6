package registration

import (
	"context"
	"fmt"
	"strings"

	"fest-judging-system/internal/global/response"
	"fest-judging-system/internal/model"

	"gorm.io/gorm"
)

type Participant struct {
	Type model.ParticipantType `json:"participant_type" binding:"required"`
	ID   uint                  `json:"id" binding:"required"`
}

// Candidate 待校验的新报名或修改后的报名
type Candidate struct {
	Event                 *model.Event
	SchoolID              uint
	TeamName              *string
	Participants          []Participant
	ExcludeRegistrationID uint // 修改报名时排除自身
}

// resolved 校验过程中加载出的参赛者
type resolved struct {
	Participant
	name        string
	schoolID    uint
	ageCategory model.AgeCategory
	gender      string
}

type participation struct {
	RegistrationID uint
	EventID        uint
	EventName      string
	EventType      model.EventType
	AgeCategory    model.AgeCategory
}

// Validate 在写入前检查报名规则，返回可直接保存的参赛者关联
//
// 每名学生在不计入限制的活动（综合组、时装秀）之外，最多报名一个个人项目和一个团体项目；
// 带队老师只能参加特别组活动，且不受该限制。错误信息带上具体参赛者姓名。
func Validate(ctx context.Context, db *gorm.DB, c Candidate) ([]model.RegistrationParticipant, error) {
	event := c.Event
	if event.RegistrationClosed {
		return nil, response.ErrForbidden.WithTips(event.Name + " 报名已关闭")
	}
	if err := checkCardinality(c); err != nil {
		return nil, err
	}

	db = db.WithContext(ctx)
	participants := make([]model.RegistrationParticipant, 0, len(c.Participants))
	for _, p := range c.Participants {
		r, err := resolve(db, p)
		if err != nil {
			return nil, err
		}
		if err := checkEligibility(event, c.SchoolID, r); err != nil {
			return nil, err
		}
		if err := checkParticipation(db, event, c.ExcludeRegistrationID, r); err != nil {
			return nil, err
		}

		link := model.RegistrationParticipant{ParticipantType: p.Type}
		id := p.ID
		if p.Type == model.ParticipantStudent {
			link.StudentID = &id
		} else {
			link.FacultyID = &id
		}
		participants = append(participants, link)
	}
	return participants, nil
}

func checkCardinality(c Candidate) error {
	event := c.Event
	if len(c.Participants) == 0 {
		return response.ErrInvalidRequest.WithTips("至少需要一名参赛者")
	}
	seen := make(map[Participant]struct{}, len(c.Participants))
	for _, p := range c.Participants {
		if p.Type != model.ParticipantStudent && p.Type != model.ParticipantFaculty {
			return response.ErrInvalidRequest.WithTips("参赛者类型只能是 student 或 faculty")
		}
		if _, dup := seen[p]; dup {
			return response.ErrInvalidRequest.WithTips("参赛者重复")
		}
		seen[p] = struct{}{}
	}

	switch event.EventType {
	case model.EventTypeIndividual:
		if len(c.Participants) != 1 {
			return response.ErrInvalidRequest.WithTips("个人项目只能有一名参赛者")
		}
	case model.EventTypeGroup:
		if c.TeamName == nil || strings.TrimSpace(*c.TeamName) == "" {
			return response.ErrInvalidRequest.WithTips("团体项目需要填写队名")
		}
	}
	if event.MaxTeamSize != nil && len(c.Participants) > *event.MaxTeamSize {
		return response.ErrInvalidRequest.WithTips(fmt.Sprintf("队伍人数不能超过 %d 人", *event.MaxTeamSize))
	}
	return nil
}

func resolve(db *gorm.DB, p Participant) (resolved, error) {
	r := resolved{Participant: p}
	if p.Type == model.ParticipantStudent {
		var s model.Student
		if err := db.First(&s, p.ID).Error; err != nil {
			return r, notFoundOr(err, fmt.Sprintf("学生 %d 不存在", p.ID))
		}
		r.name, r.schoolID, r.ageCategory, r.gender = s.Name, s.SchoolID, s.AgeCategory, s.Gender
		return r, nil
	}
	var f model.Faculty
	if err := db.First(&f, p.ID).Error; err != nil {
		return r, notFoundOr(err, fmt.Sprintf("老师 %d 不存在", p.ID))
	}
	r.name, r.schoolID = f.Name, f.SchoolID
	return r, nil
}

func checkEligibility(event *model.Event, schoolID uint, r resolved) error {
	if r.schoolID != schoolID {
		return response.ErrForbidden.WithTips(r.name + " 不属于报名学校")
	}
	if r.Type == model.ParticipantFaculty {
		if event.AgeCategory != model.AgeCategorySpecial {
			return response.ErrInvalidRequest.WithTips(r.name + " 是老师，只能参加特别组活动")
		}
		return nil
	}
	if event.AgeCategory != model.AgeCategoryCombined && event.AgeCategory != model.AgeCategorySpecial &&
		r.ageCategory != event.AgeCategory {
		return response.ErrInvalidRequest.WithTips(fmt.Sprintf("%s 属于 %s 组，不能报名 %s 组活动", r.name, r.ageCategory, event.AgeCategory))
	}
	if event.Gender != nil && *event.Gender != "" && !strings.EqualFold(*event.Gender, r.gender) {
		return response.ErrInvalidRequest.WithTips(r.name + " 的性别不符合活动要求")
	}
	return nil
}

func checkParticipation(db *gorm.DB, event *model.Event, excludeID uint, r resolved) error {
	existing, err := participations(db, r.Participant, excludeID)
	if err != nil {
		return response.ErrDatabase.WithOrigin(err)
	}
	for _, e := range existing {
		if e.EventID == event.ID {
			return response.ErrAlreadyExists.WithTips(r.name + " 已报名该活动")
		}
	}
	if r.Type == model.ParticipantFaculty || !event.CountsTowardParticipationLimit() {
		return nil
	}

	for _, e := range existing {
		counted := model.Event{Name: e.EventName, AgeCategory: e.AgeCategory}
		if !counted.CountsTowardParticipationLimit() || e.EventType != event.EventType {
			continue
		}
		switch event.EventType {
		case model.EventTypeIndividual:
			return response.ErrAlreadyExists.WithTips(fmt.Sprintf("%s 已报名个人项目 %s", r.name, e.EventName))
		case model.EventTypeGroup:
			return response.ErrAlreadyExists.WithTips(fmt.Sprintf("%s 已报名团体项目 %s", r.name, e.EventName))
		}
	}
	return nil
}

// participations 参赛者现有的报名及对应活动（不含已删除的活动）
func participations(db *gorm.DB, p Participant, excludeID uint) ([]participation, error) {
	column := "registration_participant.student_id"
	if p.Type == model.ParticipantFaculty {
		column = "registration_participant.faculty_id"
	}
	query := db.Model(&model.RegistrationParticipant{}).
		Select("registration.id AS registration_id, event.id AS event_id, event.name AS event_name, " +
			"event.event_type, event.age_category").
		Joins("JOIN registration ON registration.id = registration_participant.registration_id").
		Joins("JOIN event ON event.id = registration.event_id AND event.deleted_at IS NULL").
		Where(column+" = ?", p.ID)
	if excludeID != 0 {
		query = query.Where("registration.id <> ?", excludeID)
	}
	var rows []participation
	err := query.Scan(&rows).Error
	return rows, err
}
