package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/campushub/campushub-api/internal/authz"
	"github.com/campushub/campushub-api/internal/dto"
	"github.com/campushub/campushub-api/internal/models"
	"github.com/campushub/campushub-api/internal/repository"
)

// UserService covers admin account management. Accounts are deactivated
// rather than deleted so the audit trail keeps resolving actors.
type UserService interface {
	List(ctx context.Context, actor authz.Actor, req dto.UserListRequest) ([]dto.UserResponse, error)
	Update(ctx context.Context, actor authz.Actor, id uint, payload dto.UserUpdateRequest, ip string) (dto.UserResponse, error)
}

type userService struct {
	users     repository.UserRepository
	audit     AuditRecorder
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewUserService builds the account management service.
func NewUserService(users repository.UserRepository, audit AuditRecorder, validate *validator.Validate, logger zerolog.Logger) UserService {
	return &userService{
		users:     users,
		audit:     audit,
		validator: validate,
		logger:    logger.With().Str("component", "user_service").Logger(),
	}
}

func (s *userService) List(ctx context.Context, actor authz.Actor, req dto.UserListRequest) ([]dto.UserResponse, error) {
	decision := authz.Decide(actor, authz.OpRead, authz.Resource{Kind: authz.KindUser})
	if !decision.Allowed {
		return nil, fmt.Errorf("%w: %s", ErrForbidden, decision.Reason)
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	users, err := s.users.List(ctx, repository.UserFilter{
		Role:   strings.TrimSpace(req.Role),
		Search: strings.TrimSpace(req.Search),
	})
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, dto.NewUserResponse(user))
	}
	return responses, nil
}

func (s *userService) Update(ctx context.Context, actor authz.Actor, id uint, payload dto.UserUpdateRequest, ip string) (dto.UserResponse, error) {
	decision := authz.Decide(actor, authz.OpUpdate, authz.Resource{Kind: authz.KindUser})
	if !decision.Allowed {
		return dto.UserResponse{}, fmt.Errorf("%w: %s", ErrForbidden, decision.Reason)
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	before := map[string]interface{}{"role": user.Role, "is_active": user.IsActive}

	if payload.Role != nil {
		role := strings.ToLower(strings.TrimSpace(*payload.Role))
		if !models.ValidRole(role) {
			return dto.UserResponse{}, ErrInvalidRole
		}
		user.Role = role
	}
	if payload.IsActive != nil {
		user.IsActive = *payload.IsActive
	}

	if err := s.users.Update(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:   actor.ID,
		Action:    models.AuditActionUpdate,
		TableName: "users",
		RecordID:  user.ID,
		OldValue:  before,
		NewValue:  map[string]interface{}{"role": user.Role, "is_active": user.IsActive},
		IPAddress: ip,
	})
	s.logger.Info().Str("username", user.Username).Uint("actor_id", actor.ID).Msg("user updated")

	return dto.NewUserResponse(user), nil
}
