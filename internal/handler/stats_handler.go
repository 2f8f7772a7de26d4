package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campushub/campushub-api/internal/service"
	"github.com/campushub/campushub-api/internal/utils"
)

// StatsHandler exposes the role-scoped dashboard counters.
type StatsHandler struct {
	service service.StatsService
	logger  zerolog.Logger
}

// NewStatsHandler constructs a stats handler.
func NewStatsHandler(service service.StatsService, logger zerolog.Logger) *StatsHandler {
	return &StatsHandler{
		service: service,
		logger:  logger.With().Str("component", "stats_handler").Logger(),
	}
}

// Register wires the dashboard route.
func (h *StatsHandler) Register(router fiber.Router) {
	router.Get("/stats", h.dashboard)
}

func (h *StatsHandler) dashboard(c *fiber.Ctx) error {
	stats, err := h.service.Dashboard(c.Context(), actorFromContext(c))
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			return utils.SendErrorWithCode(c, fiber.StatusForbidden, "FORBIDDEN", err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build dashboard stats")
		return utils.SendErrorWithCode(c, fiber.StatusInternalServerError, "INTERNAL", "failed to build dashboard stats")
	}

	return utils.SendSuccess(c, "dashboard stats retrieved", stats)
}
