package models

import "time"

type Review struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	Title  string `json:"title" gorm:"not null;size:100"`
	Text   string `json:"text" gorm:"not null;size:2000"`
	Rating int    `json:"rating" gorm:"not null"`

	// One review per user per bootcamp.
	BootcampID uint      `json:"bootcamp" gorm:"not null;uniqueIndex:idx_reviews_bootcamp_user"`
	Bootcamp   *Bootcamp `json:"bootcampInfo,omitempty" gorm:"foreignKey:BootcampID"`

	UserID uint `json:"user" gorm:"not null;uniqueIndex:idx_reviews_bootcamp_user"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

func (Review) TableName() string {
	return "reviews"
}
