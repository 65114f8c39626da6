package model

type School struct {
	Model
	Name    string `gorm:"type:varchar(150);uniqueIndex;not null" json:"name"`
	Code    string `gorm:"type:varchar(20)" json:"code"`
	Address string `gorm:"type:varchar(255)" json:"address"`
}

type Student struct {
	Model
	SchoolID    uint        `gorm:"not null;index" json:"school_id"`
	Name        string      `gorm:"type:varchar(100);not null" json:"name"`
	AgeCategory AgeCategory `gorm:"type:varchar(20);not null" json:"age_category"`
	Gender      string      `gorm:"type:varchar(10)" json:"gender"`
	ClassName   string      `gorm:"type:varchar(20)" json:"class_name"`
	PhotoURL    string      `gorm:"type:varchar(255)" json:"photo_url"`
	School      School      `gorm:"foreignKey:SchoolID;references:ID" json:"-"`
}

type Faculty struct {
	Model
	SchoolID     uint   `gorm:"not null;index" json:"school_id"`
	Name         string `gorm:"type:varchar(100);not null" json:"name"`
	Email        string `gorm:"type:varchar(150);uniqueIndex;not null" json:"email"`
	MobileNumber string `gorm:"type:varchar(20)" json:"mobile_number"`
	School       School `gorm:"foreignKey:SchoolID;references:ID" json:"-"`
}
