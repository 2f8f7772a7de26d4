package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/campushub/campushub-api/internal/models"
)

// CourseFilter narrows catalog listings.
type CourseFilter struct {
	Search   string
	Semester string
}

// CourseWithStats is a catalog row joined with its denormalized teacher name
// and the count of non-deleted enrollments.
type CourseWithStats struct {
	models.Course
	TeacherName   string `json:"teacher_name"`
	EnrolledCount int64  `json:"enrolled_count"`
}

// CourseRepository provides access to the course catalog.
type CourseRepository interface {
	List(ctx context.Context, filter CourseFilter) ([]CourseWithStats, error)
	GetByID(ctx context.Context, id uint) (models.Course, error)
	GetByIDWithStats(ctx context.Context, id uint) (CourseWithStats, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	CountActive(ctx context.Context) (int64, error)
	CountActiveByTeacher(ctx context.Context, teacherID uint) (int64, error)
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository constructs a course repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

const courseStatsSelect = `courses.*, COALESCE(teachers.username, '') AS teacher_name,
(SELECT COUNT(*) FROM enrollments WHERE enrollments.course_id = courses.id AND enrollments.is_deleted = ?) AS enrolled_count`

func (r *courseRepository) statsQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Course{}).
		Select(courseStatsSelect, false).
		Joins("LEFT JOIN users AS teachers ON teachers.id = courses.teacher_id")
}

func (r *courseRepository) List(ctx context.Context, filter CourseFilter) ([]CourseWithStats, error) {
	query := r.statsQuery(ctx).Where("courses.is_active = ?", true)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("courses.course_code LIKE ? OR courses.course_name LIKE ?", pattern, pattern)
	}

	if filter.Semester != "" {
		query = query.Where("courses.semester = ?", filter.Semester)
	}

	var courses []CourseWithStats
	if err := query.Order("courses.course_code ASC").Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepository) GetByID(ctx context.Context, id uint) (models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, id).Error; err != nil {
		return models.Course{}, err
	}
	return course, nil
}

func (r *courseRepository) GetByIDWithStats(ctx context.Context, id uint) (CourseWithStats, error) {
	var course CourseWithStats
	err := r.statsQuery(ctx).Where("courses.id = ?", id).Take(&course).Error
	if err != nil {
		return CourseWithStats{}, err
	}
	return course, nil
}

func (r *courseRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	// Codes stay unique across the whole catalog, inactive courses included.
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("course_code = ?", code).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

func (r *courseRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

func (r *courseRepository) CountActiveByTeacher(ctx context.Context, teacherID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("teacher_id = ? AND is_active = ?", teacherID, true).
		Count(&count).Error
	return count, err
}
