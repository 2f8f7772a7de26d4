package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campushub/campushub-api/internal/dto"
	"github.com/campushub/campushub-api/internal/service"
	"github.com/campushub/campushub-api/internal/utils"
)

// UserHandler exposes the admin user-management endpoints.
type UserHandler struct {
	service service.UserService
	logger  zerolog.Logger
}

// NewUserHandler constructs a user handler.
func NewUserHandler(service service.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger.With().Str("component", "user_handler").Logger(),
	}
}

// Register wires user administration routes.
func (h *UserHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Put("/:id", h.update)
}

func (h *UserHandler) list(c *fiber.Ctx) error {
	filter := dto.UserListRequest{
		Role:   c.Query("role"),
		Search: c.Query("search"),
	}

	users, err := h.service.List(c.Context(), actorFromContext(c), filter)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendErrorWithCode(c, fiber.StatusBadRequest, "VALIDATION", "invalid user filter")
		case errors.Is(err, service.ErrForbidden):
			return utils.SendErrorWithCode(c, fiber.StatusForbidden, "FORBIDDEN", err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to list users")
			return utils.SendErrorWithCode(c, fiber.StatusInternalServerError, "INTERNAL", "failed to list users")
		}
	}

	return utils.SendSuccess(c, "users retrieved", fiber.Map{"users": users})
}

func (h *UserHandler) update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendErrorWithCode(c, fiber.StatusBadRequest, "VALIDATION", "invalid user id")
	}

	var payload dto.UserUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendErrorWithCode(c, fiber.StatusBadRequest, "VALIDATION", "invalid payload")
	}

	user, err := h.service.Update(c.Context(), actorFromContext(c), id, payload, c.IP())
	if err != nil {
		switch {
		case isValidationError(err), errors.Is(err, service.ErrInvalidRole):
			return utils.SendErrorWithCode(c, fiber.StatusBadRequest, "VALIDATION", "invalid user payload")
		case errors.Is(err, service.ErrUserNotFound):
			return utils.SendErrorWithCode(c, fiber.StatusNotFound, "NOT_FOUND", "user not found")
		case errors.Is(err, service.ErrForbidden):
			return utils.SendErrorWithCode(c, fiber.StatusForbidden, "FORBIDDEN", err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update user")
			return utils.SendErrorWithCode(c, fiber.StatusInternalServerError, "INTERNAL", "failed to update user")
		}
	}

	return utils.SendSuccess(c, "user updated", user)
}
