package models

import "time"

type MinimumSkill string

const (
	SkillBeginner     MinimumSkill = "beginner"
	SkillIntermediate MinimumSkill = "intermediate"
	SkillAdvanced     MinimumSkill = "advanced"
)

type Course struct {
	ID                   uint         `json:"id" gorm:"primaryKey"`
	Title                string       `json:"title" gorm:"not null;size:100"`
	Description          string       `json:"description" gorm:"not null;size:1000"`
	Weeks                string       `json:"weeks" gorm:"not null;size:10"`
	Tuition              float64      `json:"tuition" gorm:"not null"`
	MinimumSkill         MinimumSkill `json:"minimumSkill" gorm:"not null;size:20"`
	ScholarshipAvailable bool         `json:"scholarshipAvailable" gorm:"default:false"`

	BootcampID uint      `json:"bootcamp" gorm:"index;not null"`
	Bootcamp   *Bootcamp `json:"bootcampInfo,omitempty" gorm:"foreignKey:BootcampID"`

	UserID uint `json:"user" gorm:"index;not null"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

func (Course) TableName() string {
	return "courses"
}
