package models

import "time"

// Course is a catalog entry owned by a teacher. TeacherID is nullable so
// removing a teacher never cascades into the catalog.
type Course struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CourseCode  string    `gorm:"size:10;uniqueIndex;not null" json:"course_code"`
	CourseName  string    `gorm:"size:100;not null" json:"course_name"`
	Description string    `gorm:"type:text" json:"description"`
	Credits     int       `gorm:"not null" json:"credits"`
	TeacherID   *uint     `gorm:"index" json:"teacher_id"`
	Semester    string    `gorm:"size:20;not null" json:"semester"`
	MaxStudents int       `gorm:"not null" json:"max_students"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
