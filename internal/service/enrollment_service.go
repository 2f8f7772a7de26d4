package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/campushub/campushub-api/internal/authz"
	"github.com/campushub/campushub-api/internal/dto"
	"github.com/campushub/campushub-api/internal/models"
	"github.com/campushub/campushub-api/internal/repository"
)

// EnrollmentService exposes ledger use cases. Capacity and uniqueness are
// enforced inside the repository's guarded insert so concurrent enrolls
// cannot oversubscribe a course.
type EnrollmentService interface {
	Enroll(ctx context.Context, actor authz.Actor, payload dto.EnrollRequest, ip string) (dto.EnrollmentResponse, error)
	List(ctx context.Context, actor authz.Actor) ([]dto.EnrollmentResponse, error)
	Update(ctx context.Context, actor authz.Actor, id uint, payload dto.EnrollmentUpdateRequest, ip string) (dto.EnrollmentResponse, error)
	Drop(ctx context.Context, actor authz.Actor, id uint, ip string) error
}

type enrollmentService struct {
	enrollments repository.EnrollmentRepository
	audit       AuditRecorder
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewEnrollmentService builds the ledger service.
func NewEnrollmentService(enrollments repository.EnrollmentRepository, audit AuditRecorder, validate *validator.Validate, logger zerolog.Logger) EnrollmentService {
	return &enrollmentService{
		enrollments: enrollments,
		audit:       audit,
		validator:   validate,
		logger:      logger.With().Str("component", "enrollment_service").Logger(),
		now:         time.Now,
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, actor authz.Actor, payload dto.EnrollRequest, ip string) (dto.EnrollmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	// Admins may enroll any student; everyone else enrolls themselves.
	studentID := actor.ID
	if actor.Role == models.RoleAdmin && payload.StudentID != nil {
		studentID = *payload.StudentID
	}

	decision := authz.Decide(actor, authz.OpCreate, authz.Resource{Kind: authz.KindEnrollment, OwnerID: studentID})
	if !decision.Allowed {
		return dto.EnrollmentResponse{}, fmt.Errorf("%w: %s", ErrForbidden, decision.Reason)
	}

	enrollment := models.Enrollment{
		StudentID:      studentID,
		CourseID:       payload.CourseID,
		Status:         models.EnrollmentStatusEnrolled,
		EnrollmentDate: s.now(),
	}

	if err := s.enrollments.Enroll(ctx, &enrollment); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return dto.EnrollmentResponse{}, ErrCourseNotFound
		case errors.Is(err, repository.ErrEnrollmentDuplicate):
			return dto.EnrollmentResponse{}, ErrAlreadyEnrolled
		case errors.Is(err, repository.ErrCourseAtCapacity):
			return dto.EnrollmentResponse{}, ErrCourseFull
		}
		return dto.EnrollmentResponse{}, err
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:   actor.ID,
		Action:    models.AuditActionCreate,
		TableName: "enrollments",
		RecordID:  enrollment.ID,
		NewValue:  enrollmentSnapshot(enrollment),
		IPAddress: ip,
	})
	s.logger.Info().Uint("student_id", studentID).Uint("course_id", payload.CourseID).Msg("enrollment created")

	return s.findDetailed(ctx, actor, enrollment.ID)
}

func (s *enrollmentService) List(ctx context.Context, actor authz.Actor) ([]dto.EnrollmentResponse, error) {
	scope := repository.EnrollmentScope{}
	switch actor.Role {
	case models.RoleStudent:
		scope.StudentID = &actor.ID
	case models.RoleTeacher:
		scope.TeacherID = &actor.ID
	case models.RoleAdmin:
		// unscoped
	default:
		return nil, fmt.Errorf("%w: unknown role", ErrForbidden)
	}

	enrollments, err := s.enrollments.List(ctx, scope)
	if err != nil {
		return nil, err
	}
	return dto.NewEnrollmentResponseSlice(enrollments), nil
}

func (s *enrollmentService) Update(ctx context.Context, actor authz.Actor, id uint, payload dto.EnrollmentUpdateRequest, ip string) (dto.EnrollmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	enrollment, err := s.enrollments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollmentResponse{}, ErrEnrollmentNotFound
		}
		return dto.EnrollmentResponse{}, err
	}

	// Grading rights follow the enrollment's course owner, not the student.
	decision := authz.Decide(actor, authz.OpUpdate, gradeResource(enrollment))
	if !decision.Allowed {
		return dto.EnrollmentResponse{}, fmt.Errorf("%w: %s", ErrForbidden, decision.Reason)
	}

	before := enrollmentSnapshot(enrollment)

	if payload.Status != nil {
		enrollment.Status = *payload.Status
	}
	if payload.Grade != nil {
		enrollment.Grade = payload.Grade
	}

	if err := s.enrollments.Update(ctx, &enrollment); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:   actor.ID,
		Action:    models.AuditActionUpdate,
		TableName: "enrollments",
		RecordID:  enrollment.ID,
		OldValue:  before,
		NewValue:  enrollmentSnapshot(enrollment),
		IPAddress: ip,
	})
	s.logger.Info().Uint("enrollment_id", enrollment.ID).Uint("actor_id", actor.ID).Msg("enrollment updated")

	return s.findDetailed(ctx, actor, enrollment.ID)
}

func (s *enrollmentService) Drop(ctx context.Context, actor authz.Actor, id uint, ip string) error {
	enrollment, err := s.enrollments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEnrollmentNotFound
		}
		return err
	}

	decision := authz.Decide(actor, authz.OpDelete, authz.Resource{Kind: authz.KindEnrollment, OwnerID: enrollment.StudentID})
	if actor.Role == models.RoleTeacher || !decision.Allowed {
		return fmt.Errorf("%w: only the enrolled student or an admin may drop an enrollment", ErrForbidden)
	}

	before := enrollmentSnapshot(enrollment)
	enrollment.IsDeleted = true
	if err := s.enrollments.Update(ctx, &enrollment); err != nil {
		return err
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:   actor.ID,
		Action:    models.AuditActionDelete,
		TableName: "enrollments",
		RecordID:  enrollment.ID,
		OldValue:  before,
		IPAddress: ip,
	})
	s.logger.Info().Uint("enrollment_id", enrollment.ID).Uint("actor_id", actor.ID).Msg("enrollment dropped")

	return nil
}

// findDetailed re-reads one enrollment through the scoped listing so the
// response carries the same joined fields as List.
func (s *enrollmentService) findDetailed(ctx context.Context, actor authz.Actor, id uint) (dto.EnrollmentResponse, error) {
	scope := repository.EnrollmentScope{}
	if actor.Role == models.RoleStudent {
		scope.StudentID = &actor.ID
	}

	enrollments, err := s.enrollments.List(ctx, scope)
	if err != nil {
		return dto.EnrollmentResponse{}, err
	}
	for _, enrollment := range enrollments {
		if enrollment.ID == id {
			return dto.NewEnrollmentResponse(enrollment), nil
		}
	}
	return dto.EnrollmentResponse{}, ErrEnrollmentNotFound
}

func gradeResource(enrollment models.Enrollment) authz.Resource {
	resource := authz.Resource{Kind: authz.KindEnrollment}
	if enrollment.Course.TeacherID != nil {
		resource.OwnerID = *enrollment.Course.TeacherID
	}
	return resource
}

func enrollmentSnapshot(enrollment models.Enrollment) map[string]interface{} {
	snapshot := map[string]interface{}{
		"student_id": enrollment.StudentID,
		"course_id":  enrollment.CourseID,
		"status":     enrollment.Status,
		"is_deleted": enrollment.IsDeleted,
	}
	if enrollment.Grade != nil {
		snapshot["grade"] = *enrollment.Grade
	}
	return snapshot
}
