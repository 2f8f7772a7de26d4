package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campushub/campushub-api/internal/dto"
	"github.com/campushub/campushub-api/internal/service"
	"github.com/campushub/campushub-api/internal/utils"
)

// AuditHandler exposes the admin audit-trail listing.
type AuditHandler struct {
	service service.AuditService
	logger  zerolog.Logger
}

// NewAuditHandler constructs an audit handler.
func NewAuditHandler(service service.AuditService, logger zerolog.Logger) *AuditHandler {
	return &AuditHandler{
		service: service,
		logger:  logger.With().Str("component", "audit_handler").Logger(),
	}
}

// Register wires the audit trail route. RBAC gating happens in the router.
func (h *AuditHandler) Register(router fiber.Router) {
	router.Get("/audit-logs", h.list)
}

func (h *AuditHandler) list(c *fiber.Ctx) error {
	filter := dto.AuditListRequest{
		Action:    c.Query("action"),
		TableName: c.Query("table"),
	}

	entries, err := h.service.List(c.Context(), filter)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list audit logs")
		return utils.SendErrorWithCode(c, fiber.StatusInternalServerError, "INTERNAL", "failed to list audit logs")
	}

	return utils.SendSuccess(c, "audit logs retrieved", fiber.Map{"logs": entries})
}
