package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/campushub/campushub-api/internal/authz"
	"github.com/campushub/campushub-api/internal/dto"
	"github.com/campushub/campushub-api/internal/models"
	"github.com/campushub/campushub-api/internal/repository"
)

// StatsService produces the role-scoped dashboard counters.
type StatsService interface {
	Dashboard(ctx context.Context, actor authz.Actor) (dto.DashboardStats, error)
}

type statsService struct {
	users       repository.UserRepository
	courses     repository.CourseRepository
	enrollments repository.EnrollmentRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
}

// NewStatsService builds the dashboard aggregator. The cache client may be
// nil, in which case every request hits the store.
func NewStatsService(users repository.UserRepository, courses repository.CourseRepository, enrollments repository.EnrollmentRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) StatsService {
	return &statsService{
		users:       users,
		courses:     courses,
		enrollments: enrollments,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "stats_service").Logger(),
	}
}

func (s *statsService) Dashboard(ctx context.Context, actor authz.Actor) (dto.DashboardStats, error) {
	cacheKey := fmt.Sprintf("dashboard:%s:%d", actor.Role, actor.ID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var stats dto.DashboardStats
			if unmarshalErr := json.Unmarshal([]byte(cached), &stats); unmarshalErr == nil {
				s.logger.Debug().Str("key", cacheKey).Msg("dashboard cache hit")
				return stats, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
	}

	stats, err := s.build(ctx, actor)
	if err != nil {
		return dto.DashboardStats{}, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
			}
		}
	}

	return stats, nil
}

func (s *statsService) build(ctx context.Context, actor authz.Actor) (dto.DashboardStats, error) {
	stats := dto.DashboardStats{}

	switch actor.Role {
	case models.RoleStudent:
		enrolled, err := s.enrollments.CountActiveByStudent(ctx, actor.ID)
		if err != nil {
			return stats, err
		}
		available, err := s.courses.CountActive(ctx)
		if err != nil {
			return stats, err
		}
		stats.EnrolledCourses = &enrolled
		stats.AvailableCourses = &available

	case models.RoleTeacher:
		mine, err := s.courses.CountActiveByTeacher(ctx, actor.ID)
		if err != nil {
			return stats, err
		}
		students, err := s.enrollments.CountActiveByTeacher(ctx, actor.ID)
		if err != nil {
			return stats, err
		}
		stats.MyCourses = &mine
		stats.TotalStudents = &students

	case models.RoleAdmin:
		users, err := s.users.CountActive(ctx)
		if err != nil {
			return stats, err
		}
		courses, err := s.courses.CountActive(ctx)
		if err != nil {
			return stats, err
		}
		enrollments, err := s.enrollments.CountActive(ctx)
		if err != nil {
			return stats, err
		}
		stats.TotalUsers = &users
		stats.TotalCourses = &courses
		stats.TotalEnrollments = &enrollments

	default:
		return stats, fmt.Errorf("%w: unknown role", ErrForbidden)
	}

	return stats, nil
}
