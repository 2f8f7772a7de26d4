package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/campushub/campushub-api/internal/models"
)

func TestCourseRepositoryListFiltersAndCounts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCourseRepository(db)

	smith := seedUser(t, db, "smith", models.RoleTeacher)
	cs := seedCourse(t, db, "CS101", smith.ID, 30)
	seedCourse(t, db, "MA201", smith.ID, 30)
	inactive := seedCourse(t, db, "ZZ999", smith.ID, 30)
	require.NoError(t, db.Model(&models.Course{}).Where("id = ?", inactive.ID).Update("is_active", false).Error)

	alice := seedUser(t, db, "alice", models.RoleStudent)
	bob := seedUser(t, db, "bob", models.RoleStudent)
	require.NoError(t, db.Create(&models.Enrollment{StudentID: alice.ID, CourseID: cs.ID, Status: models.EnrollmentStatusEnrolled, EnrollmentDate: time.Now()}).Error)
	require.NoError(t, db.Create(&models.Enrollment{StudentID: bob.ID, CourseID: cs.ID, Status: models.EnrollmentStatusEnrolled, EnrollmentDate: time.Now(), IsDeleted: true}).Error)

	courses, err := repo.List(context.Background(), CourseFilter{})
	require.NoError(t, err)
	require.Len(t, courses, 2, "inactive courses stay out of the catalog")
	require.Equal(t, "CS101", courses[0].CourseCode, "expected course_code ascending")
	require.Equal(t, int64(1), courses[0].EnrolledCount, "soft-deleted enrollments do not count")
	require.Equal(t, "smith", courses[0].TeacherName)

	matched, err := repo.List(context.Background(), CourseFilter{Search: "MA2"})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	require.Equal(t, "MA201", matched[0].CourseCode)
}

func TestCourseRepositoryExistsByCodeIncludesInactive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCourseRepository(db)

	smith := seedUser(t, db, "smith", models.RoleTeacher)
	course := seedCourse(t, db, "CS101", smith.ID, 30)
	require.NoError(t, db.Model(&models.Course{}).Where("id = ?", course.ID).Update("is_active", false).Error)

	exists, err := repo.ExistsByCode(context.Background(), "CS101")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = repo.ExistsByCode(context.Background(), "CS999")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestCourseRepositoryGetByIDWithStats(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCourseRepository(db)

	smith := seedUser(t, db, "smith", models.RoleTeacher)
	course := seedCourse(t, db, "CS101", smith.ID, 30)

	found, err := repo.GetByIDWithStats(context.Background(), course.ID)
	require.NoError(t, err)
	require.Equal(t, "CS101", found.CourseCode)
	require.Equal(t, int64(0), found.EnrolledCount)

	_, err = repo.GetByIDWithStats(context.Background(), 9999)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
