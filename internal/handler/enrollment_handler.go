package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campushub/campushub-api/internal/dto"
	"github.com/campushub/campushub-api/internal/service"
	"github.com/campushub/campushub-api/internal/utils"
)

// EnrollmentHandler exposes the enrollment ledger endpoints.
type EnrollmentHandler struct {
	service service.EnrollmentService
	logger  zerolog.Logger
}

// NewEnrollmentHandler constructs an enrollment handler.
func NewEnrollmentHandler(service service.EnrollmentService, logger zerolog.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		service: service,
		logger:  logger.With().Str("component", "enrollment_handler").Logger(),
	}
}

// Register wires ledger routes.
func (h *EnrollmentHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.enroll)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.drop)
}

func (h *EnrollmentHandler) list(c *fiber.Ctx) error {
	enrollments, err := h.service.List(c.Context(), actorFromContext(c))
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			return utils.SendErrorWithCode(c, fiber.StatusForbidden, "FORBIDDEN", err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list enrollments")
		return utils.SendErrorWithCode(c, fiber.StatusInternalServerError, "INTERNAL", "failed to list enrollments")
	}

	return utils.SendSuccess(c, "enrollments retrieved", fiber.Map{"enrollments": enrollments})
}

func (h *EnrollmentHandler) enroll(c *fiber.Ctx) error {
	var payload dto.EnrollRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendErrorWithCode(c, fiber.StatusBadRequest, "VALIDATION", "invalid payload")
	}

	enrollment, err := h.service.Enroll(c.Context(), actorFromContext(c), payload, c.IP())
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendErrorWithCode(c, fiber.StatusBadRequest, "VALIDATION", "courseId is required")
		case errors.Is(err, service.ErrForbidden):
			return utils.SendErrorWithCode(c, fiber.StatusForbidden, "FORBIDDEN", err.Error())
		case errors.Is(err, service.ErrCourseNotFound):
			return utils.SendErrorWithCode(c, fiber.StatusNotFound, "NOT_FOUND", "course not found")
		case errors.Is(err, service.ErrAlreadyEnrolled):
			return utils.SendErrorWithCode(c, fiber.StatusConflict, "CONFLICT", "already enrolled in this course")
		case errors.Is(err, service.ErrCourseFull):
			return utils.SendErrorWithCode(c, fiber.StatusBadRequest, "CAPACITY_EXCEEDED", "course is full")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to enroll")
			return utils.SendErrorWithCode(c, fiber.StatusInternalServerError, "INTERNAL", "failed to enroll")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "enrollment created", enrollment)
}

func (h *EnrollmentHandler) update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendErrorWithCode(c, fiber.StatusBadRequest, "VALIDATION", "invalid enrollment id")
	}

	var payload dto.EnrollmentUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendErrorWithCode(c, fiber.StatusBadRequest, "VALIDATION", "invalid payload")
	}

	enrollment, err := h.service.Update(c.Context(), actorFromContext(c), id, payload, c.IP())
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendErrorWithCode(c, fiber.StatusBadRequest, "VALIDATION", "invalid enrollment payload")
		case errors.Is(err, service.ErrEnrollmentNotFound):
			return utils.SendErrorWithCode(c, fiber.StatusNotFound, "NOT_FOUND", "enrollment not found")
		case errors.Is(err, service.ErrForbidden):
			return utils.SendErrorWithCode(c, fiber.StatusForbidden, "FORBIDDEN", err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update enrollment")
			return utils.SendErrorWithCode(c, fiber.StatusInternalServerError, "INTERNAL", "failed to update enrollment")
		}
	}

	return utils.SendSuccess(c, "enrollment updated", enrollment)
}

func (h *EnrollmentHandler) drop(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendErrorWithCode(c, fiber.StatusBadRequest, "VALIDATION", "invalid enrollment id")
	}

	if err := h.service.Drop(c.Context(), actorFromContext(c), id, c.IP()); err != nil {
		switch {
		case errors.Is(err, service.ErrEnrollmentNotFound):
			return utils.SendErrorWithCode(c, fiber.StatusNotFound, "NOT_FOUND", "enrollment not found")
		case errors.Is(err, service.ErrForbidden):
			return utils.SendErrorWithCode(c, fiber.StatusForbidden, "FORBIDDEN", err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to drop enrollment")
			return utils.SendErrorWithCode(c, fiber.StatusInternalServerError, "INTERNAL", "failed to drop enrollment")
		}
	}

	return utils.SendSuccess(c, "enrollment dropped", nil)
}
