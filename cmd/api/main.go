package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/campushub/campushub-api/internal/config"
	"github.com/campushub/campushub-api/internal/database"
	"github.com/campushub/campushub-api/internal/handler"
	"github.com/campushub/campushub-api/internal/middleware"
	"github.com/campushub/campushub-api/internal/models"
	"github.com/campushub/campushub-api/internal/repository"
	"github.com/campushub/campushub-api/internal/router"
	"github.com/campushub/campushub-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Course{}, &models.Enrollment{}, &models.AuditLog{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	auditService := service.NewAuditService(auditRepo, logger)
	authService := service.NewAuthService(userRepo, auditService, validate, service.AuthConfig{
		JWTSecret:  cfg.JWTSecret,
		SessionTTL: cfg.SessionTTL,
		BcryptCost: cfg.BcryptCost,
	}, logger)
	courseService := service.NewCourseService(courseRepo, auditService, validate, logger)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, auditService, validate, logger)
	userService := service.NewUserService(userRepo, auditService, validate, logger)
	statsService := service.NewStatsService(userRepo, courseRepo, enrollmentRepo, redisClient, cfg.StatsCacheTTL, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       handler.NewAuthHandler(authService, logger),
		CourseHandler:     handler.NewCourseHandler(courseService, logger),
		EnrollmentHandler: handler.NewEnrollmentHandler(enrollmentService, logger),
		UserHandler:       handler.NewUserHandler(userService, logger),
		AuditHandler:      handler.NewAuditHandler(auditService, logger),
		StatsHandler:      handler.NewStatsHandler(statsService, logger),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
