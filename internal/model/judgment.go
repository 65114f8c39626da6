package model

const (
	MinScore = 0
	MaxScore = 10
)

// Judgment 一位评委对一条报名的打分，(judge_id, registration_id) 唯一
type Judgment struct {
	Base
	JudgeID        uint         `gorm:"not null;uniqueIndex:idx_judge_registration" json:"judge_id"`
	RegistrationID uint         `gorm:"not null;uniqueIndex:idx_judge_registration;index" json:"registration_id"`
	Score          float64      `gorm:"type:decimal(3,1);not null" json:"score"`
	Comments       *string      `gorm:"type:varchar(500)" json:"comments"`
	Judge          Judge        `gorm:"foreignKey:JudgeID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Registration   Registration `gorm:"foreignKey:RegistrationID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

// PositionReward 成绩发布时前三名的名次加分
type PositionReward struct {
	Base
	RegistrationID uint         `gorm:"not null;uniqueIndex:idx_reward_registration_event" json:"registration_id"`
	EventID        uint         `gorm:"not null;uniqueIndex:idx_reward_registration_event;index" json:"event_id"`
	Position       int          `gorm:"not null" json:"position"`
	RewardPoints   int          `gorm:"not null" json:"reward_points"`
	Registration   Registration `gorm:"foreignKey:RegistrationID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

// PositionRewardPoints 名次到加分的映射，只有前三名有加分
var PositionRewardPoints = map[int]int{1: 10, 2: 5, 3: 3}
