package models

import "time"

// Enrollment status values. Status is informational; IsDeleted alone decides
// whether a row is visible to listings and capacity counts.
const (
	EnrollmentStatusEnrolled  = "enrolled"
	EnrollmentStatusCompleted = "completed"
	EnrollmentStatusDropped   = "dropped"
)

// ValidEnrollmentStatus reports whether the supplied status is recognised.
func ValidEnrollmentStatus(status string) bool {
	switch status {
	case EnrollmentStatusEnrolled, EnrollmentStatusCompleted, EnrollmentStatusDropped:
		return true
	}
	return false
}

// Enrollment joins a student to a course. Rows are soft-deleted so the audit
// trail keeps referencing them.
type Enrollment struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	StudentID      uint      `gorm:"not null;index" json:"student_id"`
	CourseID       uint      `gorm:"not null;index" json:"course_id"`
	Status         string    `gorm:"size:16;not null;default:enrolled" json:"status"`
	Grade          *string   `gorm:"size:5" json:"grade"`
	EnrollmentDate time.Time `gorm:"not null" json:"enrollment_date"`
	IsDeleted      bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Student User   `gorm:"foreignKey:StudentID" json:"-"`
	Course  Course `gorm:"foreignKey:CourseID" json:"-"`
}
