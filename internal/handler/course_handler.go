package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campushub/campushub-api/internal/dto"
	"github.com/campushub/campushub-api/internal/service"
	"github.com/campushub/campushub-api/internal/utils"
)

// CourseHandler exposes the course catalog endpoints.
type CourseHandler struct {
	service service.CourseService
	logger  zerolog.Logger
}

// NewCourseHandler constructs a course handler.
func NewCourseHandler(service service.CourseService, logger zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		service: service,
		logger:  logger.With().Str("component", "course_handler").Logger(),
	}
}

// Register wires catalog routes.
func (h *CourseHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", h.create)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.deactivate)
}

func (h *CourseHandler) list(c *fiber.Ctx) error {
	filter := dto.CourseListRequest{
		Search:   c.Query("search"),
		Semester: c.Query("semester"),
	}

	courses, err := h.service.List(c.Context(), filter)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list courses")
		return utils.SendErrorWithCode(c, fiber.StatusInternalServerError, "INTERNAL", "failed to list courses")
	}

	return utils.SendSuccess(c, "courses retrieved", fiber.Map{"courses": courses})
}

func (h *CourseHandler) get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendErrorWithCode(c, fiber.StatusBadRequest, "VALIDATION", "invalid course id")
	}

	course, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			return utils.SendErrorWithCode(c, fiber.StatusNotFound, "NOT_FOUND", "course not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load course")
		return utils.SendErrorWithCode(c, fiber.StatusInternalServerError, "INTERNAL", "failed to load course")
	}

	return utils.SendSuccess(c, "course retrieved", course)
}

func (h *CourseHandler) create(c *fiber.Ctx) error {
	var payload dto.CourseCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendErrorWithCode(c, fiber.StatusBadRequest, "VALIDATION", "invalid payload")
	}

	course, err := h.service.Create(c.Context(), actorFromContext(c), payload, c.IP())
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendErrorWithCode(c, fiber.StatusBadRequest, "VALIDATION", "invalid course payload")
		case errors.Is(err, service.ErrForbidden):
			return utils.SendErrorWithCode(c, fiber.StatusForbidden, "FORBIDDEN", err.Error())
		case errors.Is(err, service.ErrCourseCodeTaken):
			return utils.SendErrorWithCode(c, fiber.StatusConflict, "CONFLICT", "course code already exists")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create course")
			return utils.SendErrorWithCode(c, fiber.StatusInternalServerError, "INTERNAL", "failed to create course")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "course created", course)
}

func (h *CourseHandler) update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendErrorWithCode(c, fiber.StatusBadRequest, "VALIDATION", "invalid course id")
	}

	var payload dto.CourseUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendErrorWithCode(c, fiber.StatusBadRequest, "VALIDATION", "invalid payload")
	}

	course, err := h.service.Update(c.Context(), actorFromContext(c), id, payload, c.IP())
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendErrorWithCode(c, fiber.StatusBadRequest, "VALIDATION", "invalid course payload")
		case errors.Is(err, service.ErrCourseNotFound):
			return utils.SendErrorWithCode(c, fiber.StatusNotFound, "NOT_FOUND", "course not found")
		case errors.Is(err, service.ErrForbidden):
			return utils.SendErrorWithCode(c, fiber.StatusForbidden, "FORBIDDEN", err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update course")
			return utils.SendErrorWithCode(c, fiber.StatusInternalServerError, "INTERNAL", "failed to update course")
		}
	}

	return utils.SendSuccess(c, "course updated", course)
}

func (h *CourseHandler) deactivate(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendErrorWithCode(c, fiber.StatusBadRequest, "VALIDATION", "invalid course id")
	}

	if err := h.service.Deactivate(c.Context(), actorFromContext(c), id, c.IP()); err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			return utils.SendErrorWithCode(c, fiber.StatusNotFound, "NOT_FOUND", "course not found")
		case errors.Is(err, service.ErrForbidden):
			return utils.SendErrorWithCode(c, fiber.StatusForbidden, "FORBIDDEN", err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to deactivate course")
			return utils.SendErrorWithCode(c, fiber.StatusInternalServerError, "INTERNAL", "failed to deactivate course")
		}
	}

	return utils.SendSuccess(c, "course deactivated", nil)
}
