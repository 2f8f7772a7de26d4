package models

import "time"

// User roles recognised by the API.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// ValidRole reports whether the supplied role is one the system recognises.
func ValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// User represents an account that can authenticate against the API.
// Accounts are deactivated via IsActive, never hard-deleted.
type User struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Username           string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email              string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash       string    `gorm:"size:255;not null" json:"-"`
	Role               string    `gorm:"size:16;not null;default:student" json:"role"`
	IsActive           bool      `gorm:"not null;default:true" json:"is_active"`
	SecurityQuestion   string    `gorm:"size:255" json:"-"`
	SecurityAnswerHash string    `gorm:"size:255" json:"-"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
