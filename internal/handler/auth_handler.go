package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campushub/campushub-api/internal/dto"
	"github.com/campushub/campushub-api/internal/middleware"
	"github.com/campushub/campushub-api/internal/service"
	"github.com/campushub/campushub-api/internal/utils"
)

// AuthHandler exposes registration, login and recovery endpoints.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs an auth handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register wires auth routes. The session group carries the optional-session
// middleware so introspection works for anonymous callers too.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/register", h.register)
	router.Post("/login", h.login)
	router.Post("/logout", h.logout)
	router.Get("/session", h.session)
	router.Post("/recover", h.recover)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var payload dto.RegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendErrorWithCode(c, fiber.StatusBadRequest, "VALIDATION", "invalid payload")
	}

	user, err := h.service.Register(c.Context(), payload, c.IP())
	if err != nil {
		switch {
		case isValidationError(err), errors.Is(err, service.ErrInvalidRole):
			return utils.SendErrorWithCode(c, fiber.StatusBadRequest, "VALIDATION", "invalid registration payload")
		case errors.Is(err, service.ErrUserConflict):
			return utils.SendErrorWithCode(c, fiber.StatusConflict, "CONFLICT", "username or email already registered")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to register user")
			return utils.SendErrorWithCode(c, fiber.StatusInternalServerError, "INTERNAL", "failed to register user")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "user registered", user)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendErrorWithCode(c, fiber.StatusBadRequest, "VALIDATION", "invalid payload")
	}

	session, err := h.service.Login(c.Context(), payload, c.IP())
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendErrorWithCode(c, fiber.StatusBadRequest, "VALIDATION", "username and password are required")
		case errors.Is(err, service.ErrInvalidCredentials):
			return utils.SendErrorWithCode(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "invalid username or password")
		case errors.Is(err, service.ErrAccountInactive):
			return utils.SendErrorWithCode(c, fiber.StatusForbidden, "FORBIDDEN", "account is deactivated")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to log in")
			return utils.SendErrorWithCode(c, fiber.StatusInternalServerError, "INTERNAL", "failed to log in")
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.Token,
		Expires:  session.ExpiresAt,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})

	return utils.SendSuccess(c, "login successful", session)
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	if userID := userIDFromContext(c); userID > 0 {
		h.service.Logout(c.Context(), userID, c.IP())
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})

	return utils.SendSuccess(c, "logout successful", nil)
}

func (h *AuthHandler) session(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendSuccess(c, "no active session", dto.SessionResponse{Authenticated: false})
	}

	user, err := h.service.Session(c.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrAccountInactive) {
			return utils.SendSuccess(c, "no active session", dto.SessionResponse{Authenticated: false})
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to resolve session")
		return utils.SendErrorWithCode(c, fiber.StatusInternalServerError, "INTERNAL", "failed to resolve session")
	}

	return utils.SendSuccess(c, "session active", dto.SessionResponse{Authenticated: true, User: &user})
}

func (h *AuthHandler) recover(c *fiber.Ctx) error {
	var payload dto.RecoverRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendErrorWithCode(c, fiber.StatusBadRequest, "VALIDATION", "invalid payload")
	}

	if err := h.service.RecoverPassword(c.Context(), payload, c.IP()); err != nil {
		switch {
		case isValidationError(err):
			return utils.SendErrorWithCode(c, fiber.StatusBadRequest, "VALIDATION", "invalid recovery payload")
		case errors.Is(err, service.ErrRecoveryNotAvailable):
			return utils.SendErrorWithCode(c, fiber.StatusNotFound, "NOT_FOUND", "recovery is not available for this account")
		case errors.Is(err, service.ErrWrongSecurityAnswer):
			return utils.SendErrorWithCode(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "security answer does not match")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to recover password")
			return utils.SendErrorWithCode(c, fiber.StatusInternalServerError, "INTERNAL", "failed to recover password")
		}
	}

	return utils.SendSuccess(c, "password updated", nil)
}
