package models

import (
	"time"
)

// Role values stored in users.role.
const (
	RoleStudent = "student"
	RoleHOD     = "hod"
	RoleAdmin   = "admin"
)

type User struct {
	UserID     int     `gorm:"primaryKey;column:user_id" json:"user_id"`
	Name       string  `gorm:"column:name" json:"name"`
	Email      string  `gorm:"column:email;unique" json:"email"`
	RollNumber *string `gorm:"column:roll_number" json:"rollnumber,omitempty"`
	Password   string  `gorm:"column:password" json:"-"`
	Role       string  `gorm:"column:role" json:"role"`

	// Classification copied into feedback records at submission time.
	ClassYear string `gorm:"column:class_year" json:"class"`
	Section   string `gorm:"column:section" json:"section"`
	Semester  string `gorm:"column:semester" json:"semester"`

	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// StudentKey returns the canonical identifier used to key feedback
// records. Students are identified by roll number; staff accounts have
// no roll number and never submit feedback.
func (u *User) StudentKey() string {
	if u.RollNumber != nil {
		return *u.RollNumber
	}
	return ""
}

func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}
