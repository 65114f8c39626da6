package model

import "gorm.io/datatypes"

type EventType string

const (
	EventTypeIndividual EventType = "Individual"
	EventTypeGroup      EventType = "Group"
	EventTypeCombined   EventType = "Combined"
)

func (t EventType) Valid() bool {
	switch t {
	case EventTypeIndividual, EventTypeGroup, EventTypeCombined:
		return true
	}
	return false
}

type AgeCategory string

const (
	AgeCategorySubJunior AgeCategory = "Sub Junior"
	AgeCategoryJunior    AgeCategory = "Junior"
	AgeCategorySenior    AgeCategory = "Senior"
	AgeCategoryCombined  AgeCategory = "Combined"
	AgeCategorySpecial   AgeCategory = "Special"
)

func (a AgeCategory) Valid() bool {
	switch a {
	case AgeCategorySubJunior, AgeCategoryJunior, AgeCategorySenior, AgeCategoryCombined, AgeCategorySpecial:
		return true
	}
	return false
}

// FashionShowEventName 时装秀不计入每人一个个人项目、一个团体项目的限制
const FashionShowEventName = "Fashion Show"

type Event struct {
	Model
	Name               string                      `gorm:"type:varchar(100);not null" json:"name"`
	Description        string                      `gorm:"type:varchar(500)" json:"description"`
	EventType          EventType                   `gorm:"type:varchar(20);not null" json:"event_type"`
	AgeCategory        AgeCategory                 `gorm:"type:varchar(20);not null" json:"age_category"`
	Gender             *string                     `gorm:"type:varchar(10)" json:"gender"`                 // 为空表示不限
	MaxTeamSize        *int                        `json:"max_team_size"`                                  // 仅团体项目
	Criteria           datatypes.JSONSlice[string] `gorm:"type:json" json:"criteria"`                      // 评分标准，展示给评委
	IsCompleted        bool                        `gorm:"default:false;not null" json:"is_completed"`     // 成绩已发布
	RegistrationClosed bool                        `gorm:"default:false;not null" json:"registration_closed"`
}

// CountsTowardParticipationLimit 综合组与时装秀不计入参赛次数限制
func (e *Event) CountsTowardParticipationLimit() bool {
	return e.AgeCategory != AgeCategoryCombined && e.Name != FashionShowEventName
}
