package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/campushub/campushub-api/internal/middleware"
)

func TestAuthRegisterValidationAndConflict(t *testing.T) {
	app := setupApp(t)

	resp, env := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "al",
		"email":    "not-an-email",
		"password": "short",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "VALIDATION", env.Code)

	payload := map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password-123",
	}
	resp, _ = doJSON(t, app, http.MethodPost, "/api/auth/register", "", payload)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, env = doJSON(t, app, http.MethodPost, "/api/auth/register", "", payload)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
	require.Equal(t, "CONFLICT", env.Code)
}

func TestAuthLoginSetsSessionCookie(t *testing.T) {
	app := setupApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "bob",
		"email":    "bob@example.com",
		"password": "password-123",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "bob",
		"password": "password-123",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var sessionCookie *http.Cookie
	for _, cookie := range resp.Cookies() {
		if cookie.Name == middleware.SessionCookieName {
			sessionCookie = cookie
		}
	}
	require.NotNil(t, sessionCookie)
	require.True(t, sessionCookie.HttpOnly)
	require.Equal(t, http.SameSiteLaxMode, sessionCookie.SameSite)
	require.NotEmpty(t, sessionCookie.Value)

	// The cookie alone authenticates follow-up requests.
	req := httptest.NewRequest(http.MethodGet, "/api/enrollments", nil)
	req.AddCookie(sessionCookie)
	cookieResp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, cookieResp.StatusCode)
}

func TestAuthLoginFailures(t *testing.T) {
	app := setupApp(t)

	resp, env := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "ghost",
		"password": "whatever-123",
	})
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "UNAUTHORIZED", env.Code)
}

func TestAuthSessionIntrospection(t *testing.T) {
	app := setupApp(t)

	resp, env := doJSON(t, app, http.MethodGet, "/api/auth/session", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var anonymous struct {
		Authenticated bool `json:"authenticated"`
	}
	decodeData(t, env, &anonymous)
	require.False(t, anonymous.Authenticated)

	token := registerAndLogin(t, app, "carol", "teacher")
	resp, env = doJSON(t, app, http.MethodGet, "/api/auth/session", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var active struct {
		Authenticated bool `json:"authenticated"`
		User          struct {
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"user"`
	}
	decodeData(t, env, &active)
	require.True(t, active.Authenticated)
	require.Equal(t, "carol", active.User.Username)
	require.Equal(t, "teacher", active.User.Role)
}

func TestAuthLogoutClearsCookie(t *testing.T) {
	app := setupApp(t)
	token := registerAndLogin(t, app, "dave", "student")

	resp, _ := doJSON(t, app, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	for _, cookie := range resp.Cookies() {
		if cookie.Name == middleware.SessionCookieName {
			require.Empty(t, cookie.Value)
		}
	}
}

func TestAuthRecoverFlow(t *testing.T) {
	app := setupApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username":         "erin",
		"email":            "erin@example.com",
		"password":         "old-password",
		"securityQuestion": "favourite course?",
		"securityAnswer":   "compilers",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, env := doJSON(t, app, http.MethodPost, "/api/auth/recover", "", map[string]string{
		"email":          "nobody@example.com",
		"securityAnswer": "compilers",
		"newPassword":    "new-password",
	})
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	require.Equal(t, "NOT_FOUND", env.Code)

	resp, env = doJSON(t, app, http.MethodPost, "/api/auth/recover", "", map[string]string{
		"email":          "erin@example.com",
		"securityAnswer": "databases",
		"newPassword":    "new-password",
	})
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "UNAUTHORIZED", env.Code)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/auth/recover", "", map[string]string{
		"email":          "erin@example.com",
		"securityAnswer": "compilers",
		"newPassword":    "new-password",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "erin",
		"password": "new-password",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}
