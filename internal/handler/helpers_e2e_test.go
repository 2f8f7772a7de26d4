package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/campushub/campushub-api/internal/config"
	"github.com/campushub/campushub-api/internal/handler"
	"github.com/campushub/campushub-api/internal/models"
	"github.com/campushub/campushub-api/internal/repository"
	"github.com/campushub/campushub-api/internal/router"
	"github.com/campushub/campushub-api/internal/service"
)

const testJWTSecret = "handler-test-secret"

// setupApp wires the whole API against an in-memory database so handler
// tests exercise routing, session middleware and RBAC end to end.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Course{}, &models.Enrollment{}, &models.AuditLog{}))

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = cache.Close() })

	logger := zerolog.New(io.Discard)
	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	auditService := service.NewAuditService(auditRepo, logger)
	authService := service.NewAuthService(userRepo, auditService, validate, service.AuthConfig{
		JWTSecret:  testJWTSecret,
		SessionTTL: 30 * time.Minute,
		BcryptCost: 4,
	}, logger)
	courseService := service.NewCourseService(courseRepo, auditService, validate, logger)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, auditService, validate, logger)
	userService := service.NewUserService(userRepo, auditService, validate, logger)
	statsService := service.NewStatsService(userRepo, courseRepo, enrollmentRepo, cache, time.Minute, logger)

	cfg := config.Config{AppName: "campushub-test", AppEnv: "test", JWTSecret: testJWTSecret}

	app := fiber.New()
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       handler.NewAuthHandler(authService, logger),
		CourseHandler:     handler.NewCourseHandler(courseService, logger),
		EnrollmentHandler: handler.NewEnrollmentHandler(enrollmentService, logger),
		UserHandler:       handler.NewUserHandler(userService, logger),
		AuditHandler:      handler.NewAuditHandler(auditService, logger),
		StatsHandler:      handler.NewStatsHandler(statsService, logger),
	})

	return app
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload interface{}) (*http.Response, envelope) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var env envelope
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func decodeData(t *testing.T, env envelope, target interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, target))
}

// registerAndLogin provisions an account through the public API and returns
// its session token.
func registerAndLogin(t *testing.T, app *fiber.App, username, role string) string {
	t.Helper()

	resp, _ := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password-123",
		"role":     role,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, env := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": username,
		"password": "password-123",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var session struct {
		Token string `json:"token"`
	}
	decodeData(t, env, &session)
	require.NotEmpty(t, session.Token)
	return session.Token
}

func createCourse(t *testing.T, app *fiber.App, token, code string, maxStudents int) uint {
	t.Helper()

	resp, env := doJSON(t, app, http.MethodPost, "/api/courses", token, map[string]interface{}{
		"courseCode":  code,
		"courseName":  "Course " + code,
		"credits":     3,
		"semester":    "Fall 2026",
		"maxStudents": maxStudents,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var course struct {
		ID uint `json:"id"`
	}
	decodeData(t, env, &course)
	return course.ID
}
