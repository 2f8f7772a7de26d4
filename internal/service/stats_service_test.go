package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/campushub/campushub-api/internal/authz"
	"github.com/campushub/campushub-api/internal/models"
)

func statsFixtures(t *testing.T) (*memoryUserRepo, *memoryCourseRepo, *memoryEnrollmentRepo) {
	t.Helper()

	users := newMemoryUserRepo()
	require.NoError(t, users.Create(context.Background(), &models.User{Username: "admin", Email: "admin@example.com", Role: models.RoleAdmin, IsActive: true}))
	require.NoError(t, users.Create(context.Background(), &models.User{Username: "teacher", Email: "teacher@example.com", Role: models.RoleTeacher, IsActive: true}))
	require.NoError(t, users.Create(context.Background(), &models.User{Username: "alice", Email: "alice@example.com", Role: models.RoleStudent, IsActive: true}))
	require.NoError(t, users.Create(context.Background(), &models.User{Username: "gone", Email: "gone@example.com", Role: models.RoleStudent, IsActive: false}))

	courses := newMemoryCourseRepo()
	taught := models.Course{CourseCode: "CS101", CourseName: "Intro to Computing", Credits: 3, TeacherID: ptrUint(2), Semester: "Fall 2026", MaxStudents: 30, IsActive: true}
	require.NoError(t, courses.Create(context.Background(), &taught))
	other := models.Course{CourseCode: "MA101", CourseName: "Calculus", Credits: 4, Semester: "Fall 2026", MaxStudents: 30, IsActive: true}
	require.NoError(t, courses.Create(context.Background(), &other))

	enrollments := newMemoryEnrollmentRepo(taught, other)
	require.NoError(t, enrollments.Enroll(context.Background(), &models.Enrollment{StudentID: 3, CourseID: taught.ID, Status: models.EnrollmentStatusEnrolled, EnrollmentDate: time.Now()}))
	require.NoError(t, enrollments.Enroll(context.Background(), &models.Enrollment{StudentID: 4, CourseID: other.ID, Status: models.EnrollmentStatusEnrolled, EnrollmentDate: time.Now()}))

	return users, courses, enrollments
}

func TestStatsServiceDashboardPerRole(t *testing.T) {
	users, courses, enrollments := statsFixtures(t)
	svc := NewStatsService(users, courses, enrollments, nil, time.Minute, testLogger())

	student, err := svc.Dashboard(context.Background(), authz.Actor{ID: 3, Role: models.RoleStudent})
	require.NoError(t, err)
	require.Equal(t, int64(1), *student.EnrolledCourses)
	require.Equal(t, int64(2), *student.AvailableCourses)
	require.Nil(t, student.TotalUsers)

	teacher, err := svc.Dashboard(context.Background(), authz.Actor{ID: 2, Role: models.RoleTeacher})
	require.NoError(t, err)
	require.Equal(t, int64(1), *teacher.MyCourses)
	require.Equal(t, int64(1), *teacher.TotalStudents)

	admin, err := svc.Dashboard(context.Background(), authz.Actor{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)
	require.Equal(t, int64(3), *admin.TotalUsers, "inactive accounts excluded")
	require.Equal(t, int64(2), *admin.TotalCourses)
	require.Equal(t, int64(2), *admin.TotalEnrollments)

	_, err = svc.Dashboard(context.Background(), authz.Actor{ID: 9, Role: "auditor"})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestStatsServiceDashboardCaching(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = cache.Close() })

	users, courses, enrollments := statsFixtures(t)
	svc := NewStatsService(users, courses, enrollments, cache, time.Minute, testLogger())

	actor := authz.Actor{ID: 3, Role: models.RoleStudent}
	first, err := svc.Dashboard(context.Background(), actor)
	require.NoError(t, err)
	require.Equal(t, int64(1), *first.EnrolledCourses)
	require.True(t, mr.Exists("dashboard:student:3"))

	// A new enrollment is invisible until the cached entry expires.
	require.NoError(t, enrollments.Enroll(context.Background(), &models.Enrollment{StudentID: 3, CourseID: 2, Status: models.EnrollmentStatusEnrolled, EnrollmentDate: time.Now()}))

	cached, err := svc.Dashboard(context.Background(), actor)
	require.NoError(t, err)
	require.Equal(t, int64(1), *cached.EnrolledCourses)

	mr.FastForward(2 * time.Minute)

	fresh, err := svc.Dashboard(context.Background(), actor)
	require.NoError(t, err)
	require.Equal(t, int64(2), *fresh.EnrolledCourses)
}
