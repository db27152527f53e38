package models

import (
	"time"

	"gorm.io/datatypes"
)

// Career values accepted for a bootcamp.
var ValidCareers = []string{
	"Web Development",
	"Mobile Development",
	"UI/UX",
	"Data Science",
	"Business",
	"Other",
}

const DefaultBootcampPhoto = "no-photo.jpg"

type Bootcamp struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"uniqueIndex;not null;size:50"`
	Slug        string `json:"slug" gorm:"index;size:60"`
	Description string `json:"description" gorm:"not null;size:500"`
	Website     string `json:"website,omitempty" gorm:"size:255"`
	Phone       string `json:"phone,omitempty" gorm:"size:20"`
	Email       string `json:"email,omitempty" gorm:"size:255"`
	Address     string `json:"address" gorm:"not null;size:255"`
	Zipcode     string `json:"zipcode,omitempty" gorm:"index;size:16"`

	Careers datatypes.JSONSlice[string] `json:"careers" gorm:"not null"`

	// Derived fields, recomputed by the service layer.
	AverageRating *float64 `json:"averageRating,omitempty"`
	AverageCost   *float64 `json:"averageCost,omitempty"`

	Photo string `json:"photo" gorm:"size:255;default:no-photo.jpg"`

	Housing       bool `json:"housing" gorm:"default:false"`
	JobAssistance bool `json:"jobAssistance" gorm:"default:false"`
	JobGuarantee  bool `json:"jobGuarantee" gorm:"default:false"`
	AcceptGi      bool `json:"acceptGi" gorm:"default:false"`

	UserID uint  `json:"user" gorm:"index;not null"`
	Owner  *User `json:"-" gorm:"foreignKey:UserID"`

	Courses []Course `json:"-" gorm:"foreignKey:BootcampID"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

func (Bootcamp) TableName() string {
	return "bootcamps"
}
