package dto

import (
	"time"

	"github.com/campushub/campushub-api/internal/repository"
)

// CourseCreateRequest is the payload for adding a course to the catalog.
type CourseCreateRequest struct {
	CourseCode  string `json:"courseCode" validate:"required,max=10"`
	CourseName  string `json:"courseName" validate:"required,max=100"`
	Description string `json:"description"`
	Credits     int    `json:"credits" validate:"required,gt=0"`
	Semester    string `json:"semester" validate:"required,max=20"`
	MaxStudents int    `json:"maxStudents" validate:"required,gt=0"`
	TeacherID   *uint  `json:"teacherId"`
}

// CourseUpdateRequest carries a partial course update; nil fields are left
// untouched.
type CourseUpdateRequest struct {
	CourseName  *string `json:"courseName" validate:"omitempty,max=100"`
	Description *string `json:"description"`
	Credits     *int    `json:"credits" validate:"omitempty,gt=0"`
	Semester    *string `json:"semester" validate:"omitempty,max=20"`
	MaxStudents *int    `json:"maxStudents" validate:"omitempty,gt=0"`
}

// CourseListRequest filters catalog listings.
type CourseListRequest struct {
	Search   string
	Semester string
}

// CourseResponse serializes a catalog entry with its computed stats.
type CourseResponse struct {
	ID            uint      `json:"id"`
	CourseCode    string    `json:"course_code"`
	CourseName    string    `json:"course_name"`
	Description   string    `json:"description"`
	Credits       int       `json:"credits"`
	TeacherID     *uint     `json:"teacher_id"`
	TeacherName   string    `json:"teacher_name"`
	Semester      string    `json:"semester"`
	MaxStudents   int       `json:"max_students"`
	EnrolledCount int64     `json:"enrolled_count"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewCourseResponse converts a joined catalog row into its response shape.
func NewCourseResponse(course repository.CourseWithStats) CourseResponse {
	return CourseResponse{
		ID:            course.ID,
		CourseCode:    course.CourseCode,
		CourseName:    course.CourseName,
		Description:   course.Description,
		Credits:       course.Credits,
		TeacherID:     course.TeacherID,
		TeacherName:   course.TeacherName,
		Semester:      course.Semester,
		MaxStudents:   course.MaxStudents,
		EnrolledCount: course.EnrolledCount,
		IsActive:      course.IsActive,
		CreatedAt:     course.CreatedAt,
		UpdatedAt:     course.UpdatedAt,
	}
}

// NewCourseResponseSlice converts a list of joined catalog rows.
func NewCourseResponseSlice(courses []repository.CourseWithStats) []CourseResponse {
	responses := make([]CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, NewCourseResponse(course))
	}
	return responses
}
