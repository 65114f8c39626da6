package model

type Judge struct {
	Base
	Name         string `gorm:"type:varchar(100);not null" json:"name"`
	MobileNumber string `gorm:"type:varchar(20);uniqueIndex;not null" json:"mobile_number"`
	Pin          string `gorm:"type:varchar(255)" json:"-"`
}

// EventJudge 评委分配；同一评委同一时间最多一个 Enabled 的分配
type EventJudge struct {
	Base
	EventID uint  `gorm:"not null;uniqueIndex:idx_event_judge" json:"event_id"`
	JudgeID uint  `gorm:"not null;uniqueIndex:idx_event_judge;index" json:"judge_id"`
	Enabled bool  `gorm:"default:false;not null" json:"enabled"`
	Event   Event `gorm:"foreignKey:EventID;references:ID" json:"event,omitempty"`
	Judge   Judge `gorm:"foreignKey:JudgeID;references:ID;constraint:OnDelete:CASCADE" json:"judge,omitempty"`
}
