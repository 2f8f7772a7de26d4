package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/campushub/campushub-api/internal/models"
)

// Errors returned by the guarded enrollment insert. The service layer maps
// them onto its own sentinels.
var (
	ErrEnrollmentDuplicate = errors.New("student already enrolled in course")
	ErrCourseAtCapacity    = errors.New("course has reached max students")
)

// EnrollmentScope limits listings to what the actor may see.
type EnrollmentScope struct {
	StudentID *uint
	TeacherID *uint
}

// EnrollmentWithDetails is an enrollment row joined with course and user
// display fields.
type EnrollmentWithDetails struct {
	models.Enrollment
	CourseCode   string `json:"course_code"`
	CourseName   string `json:"course_name"`
	Credits      int    `json:"credits"`
	Semester     string `json:"semester"`
	StudentName  string `json:"student_name"`
	StudentEmail string `json:"student_email"`
	TeacherName  string `json:"teacher_name"`
}

// EnrollmentRepository provides access to the enrollment ledger.
type EnrollmentRepository interface {
	// Enroll atomically re-checks duplicate and capacity constraints and
	// inserts the row while holding a lock on the course record.
	Enroll(ctx context.Context, enrollment *models.Enrollment) error
	GetByID(ctx context.Context, id uint) (models.Enrollment, error)
	List(ctx context.Context, scope EnrollmentScope) ([]EnrollmentWithDetails, error)
	Update(ctx context.Context, enrollment *models.Enrollment) error
	CountActiveByCourse(ctx context.Context, courseID uint) (int64, error)
	CountActiveByStudent(ctx context.Context, studentID uint) (int64, error)
	CountActiveByTeacher(ctx context.Context, teacherID uint) (int64, error)
	CountActive(ctx context.Context) (int64, error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository constructs an enrollment repository.
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) Enroll(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		courseQuery := tx.Where("id = ? AND is_active = ?", enrollment.CourseID, true)
		if tx.Dialector.Name() == "postgres" {
			// Row lock serialises concurrent enrolls on the same course so
			// the count below cannot race past max_students. SQLite (used in
			// tests) rejects FOR UPDATE and serialises writers on its own.
			courseQuery = courseQuery.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var course models.Course
		if err := courseQuery.First(&course).Error; err != nil {
			return err
		}

		var existing int64
		err := tx.Model(&models.Enrollment{}).
			Where("student_id = ? AND course_id = ? AND is_deleted = ?", enrollment.StudentID, enrollment.CourseID, false).
			Count(&existing).Error
		if err != nil {
			return err
		}
		if existing > 0 {
			return ErrEnrollmentDuplicate
		}

		var enrolled int64
		err = tx.Model(&models.Enrollment{}).
			Where("course_id = ? AND is_deleted = ?", enrollment.CourseID, false).
			Count(&enrolled).Error
		if err != nil {
			return err
		}
		if enrolled >= int64(course.MaxStudents) {
			return ErrCourseAtCapacity
		}

		return tx.Create(enrollment).Error
	})
}

func (r *enrollmentRepository) GetByID(ctx context.Context, id uint) (models.Enrollment, error) {
	// Soft-deleted rows are invisible to every caller.
	var enrollment models.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Course").
		Where("is_deleted = ?", false).
		First(&enrollment, id).Error
	if err != nil {
		return models.Enrollment{}, err
	}
	return enrollment, nil
}

func (r *enrollmentRepository) List(ctx context.Context, scope EnrollmentScope) ([]EnrollmentWithDetails, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Select(`enrollments.*, courses.course_code, courses.course_name, courses.credits, courses.semester,
students.username AS student_name, students.email AS student_email, COALESCE(teachers.username, '') AS teacher_name`).
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Joins("JOIN users AS students ON students.id = enrollments.student_id").
		Joins("LEFT JOIN users AS teachers ON teachers.id = courses.teacher_id").
		Where("enrollments.is_deleted = ?", false)

	if scope.StudentID != nil {
		query = query.Where("enrollments.student_id = ?", *scope.StudentID)
	}

	if scope.TeacherID != nil {
		query = query.Where("courses.teacher_id = ?", *scope.TeacherID)
	}

	var enrollments []EnrollmentWithDetails
	if err := query.Order("enrollments.enrollment_date DESC").Find(&enrollments).Error; err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (r *enrollmentRepository) Update(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.WithContext(ctx).Omit("Student", "Course").Save(enrollment).Error
}

func (r *enrollmentRepository) CountActiveByCourse(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("course_id = ? AND is_deleted = ?", courseID, false).
		Count(&count).Error
	return count, err
}

func (r *enrollmentRepository) CountActiveByStudent(ctx context.Context, studentID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("student_id = ? AND is_deleted = ?", studentID, false).
		Count(&count).Error
	return count, err
}

func (r *enrollmentRepository) CountActiveByTeacher(ctx context.Context, teacherID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("courses.teacher_id = ? AND enrollments.is_deleted = ?", teacherID, false).
		Count(&count).Error
	return count, err
}

func (r *enrollmentRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("is_deleted = ?", false).
		Count(&count).Error
	return count, err
}
