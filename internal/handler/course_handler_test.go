package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestCourseRequiresSession(t *testing.T) {
	app := setupApp(t)

	resp, env := doJSON(t, app, http.MethodGet, "/api/courses", "", nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "UNAUTHORIZED", env.Code)
}

func TestCourseCreateAndList(t *testing.T) {
	app := setupApp(t)
	teacher := registerAndLogin(t, app, "prof", "teacher")
	student := registerAndLogin(t, app, "alice", "student")

	courseID := createCourse(t, app, teacher, "CS101", 30)
	require.NotZero(t, courseID)

	// Students cannot create courses.
	resp, env := doJSON(t, app, http.MethodPost, "/api/courses", student, map[string]interface{}{
		"courseCode":  "MA101",
		"courseName":  "Calculus",
		"credits":     4,
		"semester":    "Fall 2026",
		"maxStudents": 30,
	})
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	require.Equal(t, "FORBIDDEN", env.Code)

	// Course codes are unique across the catalog.
	resp, env = doJSON(t, app, http.MethodPost, "/api/courses", teacher, map[string]interface{}{
		"courseCode":  "CS101",
		"courseName":  "Duplicate",
		"credits":     3,
		"semester":    "Fall 2026",
		"maxStudents": 10,
	})
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
	require.Equal(t, "CONFLICT", env.Code)

	resp, env = doJSON(t, app, http.MethodGet, "/api/courses", student, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var listing struct {
		Courses []struct {
			CourseCode    string `json:"course_code"`
			TeacherName   string `json:"teacher_name"`
			EnrolledCount int64  `json:"enrolled_count"`
		} `json:"courses"`
	}
	decodeData(t, env, &listing)
	require.Len(t, listing.Courses, 1)
	require.Equal(t, "CS101", listing.Courses[0].CourseCode)
	require.Equal(t, "prof", listing.Courses[0].TeacherName)
	require.Zero(t, listing.Courses[0].EnrolledCount)
}

func TestCourseCreateValidation(t *testing.T) {
	app := setupApp(t)
	teacher := registerAndLogin(t, app, "prof", "teacher")

	resp, env := doJSON(t, app, http.MethodPost, "/api/courses", teacher, map[string]interface{}{
		"courseCode":  "CS101",
		"courseName":  "Broken",
		"credits":     -1,
		"semester":    "Fall 2026",
		"maxStudents": 30,
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "VALIDATION", env.Code)
}

func TestCourseUpdateOwnership(t *testing.T) {
	app := setupApp(t)
	owner := registerAndLogin(t, app, "prof", "teacher")
	other := registerAndLogin(t, app, "rival", "teacher")

	courseID := createCourse(t, app, owner, "CS101", 30)
	path := fmt.Sprintf("/api/courses/%d", courseID)

	resp, env := doJSON(t, app, http.MethodPut, path, other, map[string]interface{}{"credits": 4})
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	require.Equal(t, "FORBIDDEN", env.Code)

	resp, env = doJSON(t, app, http.MethodPut, path, owner, map[string]interface{}{"credits": 4})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var course struct {
		Credits int `json:"credits"`
	}
	decodeData(t, env, &course)
	require.Equal(t, 4, course.Credits)

	resp, env = doJSON(t, app, http.MethodPut, "/api/courses/9999", owner, map[string]interface{}{"credits": 4})
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	require.Equal(t, "NOT_FOUND", env.Code)
}

func TestCourseDeactivateAdminOnly(t *testing.T) {
	app := setupApp(t)
	teacher := registerAndLogin(t, app, "prof", "teacher")
	admin := registerAndLogin(t, app, "root", "admin")

	courseID := createCourse(t, app, teacher, "CS101", 30)
	path := fmt.Sprintf("/api/courses/%d", courseID)

	resp, env := doJSON(t, app, http.MethodDelete, path, teacher, nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	require.Equal(t, "FORBIDDEN", env.Code)

	resp, _ = doJSON(t, app, http.MethodDelete, path, admin, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, env = doJSON(t, app, http.MethodGet, "/api/courses", teacher, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var listing struct {
		Courses []struct{} `json:"courses"`
	}
	decodeData(t, env, &listing)
	require.Empty(t, listing.Courses)

	// The record itself stays readable.
	resp, _ = doJSON(t, app, http.MethodGet, path, teacher, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}
