package dto

import (
	"time"

	"github.com/campushub/campushub-api/internal/repository"
)

// EnrollRequest is the payload for joining a course. StudentID is honoured
// for admin callers only; everyone else enrolls themselves.
type EnrollRequest struct {
	CourseID  uint  `json:"courseId" validate:"required"`
	StudentID *uint `json:"studentId"`
}

// EnrollmentUpdateRequest carries a partial status/grade change.
type EnrollmentUpdateRequest struct {
	Status *string `json:"status" validate:"omitempty,oneof=enrolled completed dropped"`
	Grade  *string `json:"grade" validate:"omitempty,max=5"`
}

// EnrollmentResponse serializes a ledger row with its joined display fields.
type EnrollmentResponse struct {
	ID             uint      `json:"id"`
	StudentID      uint      `json:"student_id"`
	CourseID       uint      `json:"course_id"`
	Status         string    `json:"status"`
	Grade          *string   `json:"grade"`
	EnrollmentDate time.Time `json:"enrollment_date"`
	CourseCode     string    `json:"course_code"`
	CourseName     string    `json:"course_name"`
	Credits        int       `json:"credits"`
	Semester       string    `json:"semester"`
	StudentName    string    `json:"student_name"`
	StudentEmail   string    `json:"student_email"`
	TeacherName    string    `json:"teacher_name"`
}

// NewEnrollmentResponse converts a joined ledger row into its response shape.
func NewEnrollmentResponse(enrollment repository.EnrollmentWithDetails) EnrollmentResponse {
	return EnrollmentResponse{
		ID:             enrollment.ID,
		StudentID:      enrollment.StudentID,
		CourseID:       enrollment.CourseID,
		Status:         enrollment.Status,
		Grade:          enrollment.Grade,
		EnrollmentDate: enrollment.EnrollmentDate,
		CourseCode:     enrollment.CourseCode,
		CourseName:     enrollment.CourseName,
		Credits:        enrollment.Credits,
		Semester:       enrollment.Semester,
		StudentName:    enrollment.StudentName,
		StudentEmail:   enrollment.StudentEmail,
		TeacherName:    enrollment.TeacherName,
	}
}

// NewEnrollmentResponseSlice converts a list of joined ledger rows.
func NewEnrollmentResponseSlice(enrollments []repository.EnrollmentWithDetails) []EnrollmentResponse {
	responses := make([]EnrollmentResponse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		responses = append(responses, NewEnrollmentResponse(enrollment))
	}
	return responses
}
