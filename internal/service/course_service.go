package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/campushub/campushub-api/internal/authz"
	"github.com/campushub/campushub-api/internal/dto"
	"github.com/campushub/campushub-api/internal/models"
	"github.com/campushub/campushub-api/internal/repository"
)

// CourseService exposes catalog use cases. Mutations consult the
// authorization policy before touching storage and record an audit entry
// after a successful commit.
type CourseService interface {
	List(ctx context.Context, req dto.CourseListRequest) ([]dto.CourseResponse, error)
	Get(ctx context.Context, id uint) (dto.CourseResponse, error)
	Create(ctx context.Context, actor authz.Actor, payload dto.CourseCreateRequest, ip string) (dto.CourseResponse, error)
	Update(ctx context.Context, actor authz.Actor, id uint, payload dto.CourseUpdateRequest, ip string) (dto.CourseResponse, error)
	Deactivate(ctx context.Context, actor authz.Actor, id uint, ip string) error
}

type courseService struct {
	courses   repository.CourseRepository
	audit     AuditRecorder
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewCourseService builds the catalog service.
func NewCourseService(courses repository.CourseRepository, audit AuditRecorder, validate *validator.Validate, logger zerolog.Logger) CourseService {
	return &courseService{
		courses:   courses,
		audit:     audit,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "course_service").Logger(),
	}
}

func (s *courseService) List(ctx context.Context, req dto.CourseListRequest) ([]dto.CourseResponse, error) {
	courses, err := s.courses.List(ctx, repository.CourseFilter{
		Search:   strings.TrimSpace(req.Search),
		Semester: strings.TrimSpace(req.Semester),
	})
	if err != nil {
		return nil, err
	}
	return dto.NewCourseResponseSlice(courses), nil
}

func (s *courseService) Get(ctx context.Context, id uint) (dto.CourseResponse, error) {
	course, err := s.courses.GetByIDWithStats(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, err
	}
	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Create(ctx context.Context, actor authz.Actor, payload dto.CourseCreateRequest, ip string) (dto.CourseResponse, error) {
	decision := authz.Decide(actor, authz.OpCreate, authz.Resource{Kind: authz.KindCourse})
	if !decision.Allowed {
		return dto.CourseResponse{}, fmt.Errorf("%w: %s", ErrForbidden, decision.Reason)
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	taken, err := s.courses.ExistsByCode(ctx, payload.CourseCode)
	if err != nil {
		return dto.CourseResponse{}, err
	}
	if taken {
		return dto.CourseResponse{}, ErrCourseCodeTaken
	}

	// Teachers always own what they create; admins may assign any teacher or
	// leave the course unowned.
	teacherID := payload.TeacherID
	if actor.Role == models.RoleTeacher {
		id := actor.ID
		teacherID = &id
	}

	course := models.Course{
		CourseCode:  payload.CourseCode,
		CourseName:  payload.CourseName,
		Description: s.sanitizer.Sanitize(payload.Description),
		Credits:     payload.Credits,
		TeacherID:   teacherID,
		Semester:    payload.Semester,
		MaxStudents: payload.MaxStudents,
		IsActive:    true,
	}

	if err := s.courses.Create(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:   actor.ID,
		Action:    models.AuditActionCreate,
		TableName: "courses",
		RecordID:  course.ID,
		NewValue:  courseSnapshot(course),
		IPAddress: ip,
	})
	s.logger.Info().Str("course_code", course.CourseCode).Uint("actor_id", actor.ID).Msg("course created")

	return s.Get(ctx, course.ID)
}

func (s *courseService) Update(ctx context.Context, actor authz.Actor, id uint, payload dto.CourseUpdateRequest, ip string) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, err
	}

	decision := authz.Decide(actor, authz.OpUpdate, courseResource(course))
	if !decision.Allowed {
		return dto.CourseResponse{}, fmt.Errorf("%w: %s", ErrForbidden, decision.Reason)
	}

	before := courseSnapshot(course)

	if payload.CourseName != nil {
		course.CourseName = *payload.CourseName
	}
	if payload.Description != nil {
		course.Description = s.sanitizer.Sanitize(*payload.Description)
	}
	if payload.Credits != nil {
		course.Credits = *payload.Credits
	}
	if payload.Semester != nil {
		course.Semester = *payload.Semester
	}
	if payload.MaxStudents != nil {
		course.MaxStudents = *payload.MaxStudents
	}

	if err := s.courses.Update(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:   actor.ID,
		Action:    models.AuditActionUpdate,
		TableName: "courses",
		RecordID:  course.ID,
		OldValue:  before,
		NewValue:  courseSnapshot(course),
		IPAddress: ip,
	})
	s.logger.Info().Str("course_code", course.CourseCode).Uint("actor_id", actor.ID).Msg("course updated")

	return s.Get(ctx, course.ID)
}

func (s *courseService) Deactivate(ctx context.Context, actor authz.Actor, id uint, ip string) error {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	decision := authz.Decide(actor, authz.OpDelete, courseResource(course))
	if !decision.Allowed || actor.Role != models.RoleAdmin {
		return fmt.Errorf("%w: only admins may remove courses", ErrForbidden)
	}

	// Idempotent: removing an already-inactive course succeeds silently.
	if !course.IsActive {
		return nil
	}

	before := courseSnapshot(course)
	course.IsActive = false
	if err := s.courses.Update(ctx, &course); err != nil {
		return err
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:   actor.ID,
		Action:    models.AuditActionDelete,
		TableName: "courses",
		RecordID:  course.ID,
		OldValue:  before,
		IPAddress: ip,
	})
	s.logger.Info().Str("course_code", course.CourseCode).Uint("actor_id", actor.ID).Msg("course deactivated")

	return nil
}

func courseResource(course models.Course) authz.Resource {
	resource := authz.Resource{Kind: authz.KindCourse}
	if course.TeacherID != nil {
		resource.OwnerID = *course.TeacherID
	}
	return resource
}

func courseSnapshot(course models.Course) map[string]interface{} {
	return map[string]interface{}{
		"course_code":  course.CourseCode,
		"course_name":  course.CourseName,
		"description":  course.Description,
		"credits":      course.Credits,
		"semester":     course.Semester,
		"max_students": course.MaxStudents,
		"is_active":    course.IsActive,
	}
}
