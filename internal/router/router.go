package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/campushub/campushub-api/internal/config"
	"github.com/campushub/campushub-api/internal/handler"
	"github.com/campushub/campushub-api/internal/middleware"
	"github.com/campushub/campushub-api/internal/models"
	"github.com/campushub/campushub-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	CourseHandler     *handler.CourseHandler
	EnrollmentHandler *handler.EnrollmentHandler
	UserHandler       *handler.UserHandler
	AuditHandler      *handler.AuditHandler
	StatsHandler      *handler.StatsHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	session := middleware.SessionProtected(cfg.JWTSecret)
	optionalSession := middleware.SessionOptional(cfg.JWTSecret)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	if deps.AuthHandler != nil {
		// Credential endpoints are rate limited; session introspection and
		// logout work with or without a live session.
		auth := api.Group("/auth", optionalSession)
		auth.Use(middleware.RateLimit("auth", 20, time.Minute))
		deps.AuthHandler.Register(auth)
	}

	if deps.CourseHandler != nil {
		deps.CourseHandler.Register(api.Group("/courses", session))
	}

	if deps.EnrollmentHandler != nil {
		deps.EnrollmentHandler.Register(api.Group("/enrollments", session))
	}

	if deps.UserHandler != nil {
		deps.UserHandler.Register(api.Group("/users", session, adminOnly))
	}

	if deps.StatsHandler != nil {
		deps.StatsHandler.Register(api.Group("/dashboard", session))
	}

	if deps.AuditHandler != nil {
		deps.AuditHandler.Register(api.Group("/admin", session, adminOnly))
	}
}
