package models

import (
	"time"
)

type UserRole string

const (
	RoleUser      UserRole = "user"
	RolePublisher UserRole = "publisher"
	RoleAdmin     UserRole = "admin"
)

type User struct {
	ID    uint     `json:"id" gorm:"primaryKey"`
	Name  string   `json:"name" gorm:"not null;size:100"`
	Email string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Role  UserRole `json:"role" gorm:"not null;size:20;default:user"`

	// Stored as a bcrypt hash, never serialized.
	Password string `json:"-" gorm:"not null;size:100"`

	// Set only while a password reset is pending. The token column holds a
	// SHA-256 hex digest of the raw token that was mailed out.
	ResetPasswordToken  *string    `json:"-" gorm:"size:64;index"`
	ResetPasswordExpire *time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
