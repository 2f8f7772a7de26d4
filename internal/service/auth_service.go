package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/campushub/campushub-api/internal/dto"
	"github.com/campushub/campushub-api/internal/models"
	"github.com/campushub/campushub-api/internal/repository"
)

// AuthConfig carries identity settings from the runtime configuration.
type AuthConfig struct {
	JWTSecret  string
	SessionTTL time.Duration
	BcryptCost int
}

// AuthService covers registration, credential verification and recovery.
// Everything beyond this boundary receives an already-authenticated actor.
type AuthService interface {
	Register(ctx context.Context, payload dto.RegisterRequest, ip string) (dto.UserResponse, error)
	Login(ctx context.Context, payload dto.LoginRequest, ip string) (dto.LoginResponse, error)
	Logout(ctx context.Context, userID uint, ip string)
	Session(ctx context.Context, userID uint) (dto.UserResponse, error)
	RecoverPassword(ctx context.Context, payload dto.RecoverRequest, ip string) error
}

type authService struct {
	users     repository.UserRepository
	audit     AuditRecorder
	validator *validator.Validate
	cfg       AuthConfig
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAuthService builds the identity service.
func NewAuthService(users repository.UserRepository, audit AuditRecorder, validate *validator.Validate, cfg AuthConfig, logger zerolog.Logger) AuthService {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		cfg.BcryptCost = bcrypt.DefaultCost
	}

	return &authService{
		users:     users,
		audit:     audit,
		validator: validate,
		cfg:       cfg,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

func (s *authService) Register(ctx context.Context, payload dto.RegisterRequest, ip string) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	role := strings.ToLower(strings.TrimSpace(payload.Role))
	if role == "" {
		role = models.RoleStudent
	}
	if !models.ValidRole(role) {
		return dto.UserResponse{}, ErrInvalidRole
	}

	taken, err := s.users.ExistsByUsernameOrEmail(ctx, payload.Username, payload.Email)
	if err != nil {
		return dto.UserResponse{}, err
	}
	if taken {
		return dto.UserResponse{}, ErrUserConflict
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), s.cfg.BcryptCost)
	if err != nil {
		return dto.UserResponse{}, err
	}

	user := models.User{
		Username:         payload.Username,
		Email:            payload.Email,
		PasswordHash:     string(passwordHash),
		Role:             role,
		IsActive:         true,
		SecurityQuestion: payload.SecurityQuestion,
	}

	if payload.SecurityAnswer != "" {
		answerHash, err := bcrypt.GenerateFromPassword([]byte(payload.SecurityAnswer), s.cfg.BcryptCost)
		if err != nil {
			return dto.UserResponse{}, err
		}
		user.SecurityAnswerHash = string(answerHash)
	}

	if err := s.users.Create(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:   user.ID,
		Action:    models.AuditActionCreate,
		TableName: "users",
		RecordID:  user.ID,
		NewValue:  map[string]interface{}{"username": user.Username, "role": user.Role},
		IPAddress: ip,
	})
	s.logger.Info().Str("username", user.Username).Str("role", user.Role).Msg("user registered")

	return dto.NewUserResponse(user), nil
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest, ip string) (dto.LoginResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LoginResponse{}, err
	}

	user, err := s.users.GetByUsername(ctx, payload.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResponse{}, ErrInvalidCredentials
		}
		return dto.LoginResponse{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)) != nil {
		s.logger.Warn().Str("username", payload.Username).Msg("failed login attempt")
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	if !user.IsActive {
		return dto.LoginResponse{}, ErrAccountInactive
	}

	expiresAt := s.now().Add(s.cfg.SessionTTL)
	token, err := s.issueToken(user, expiresAt)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:   user.ID,
		Action:    models.AuditActionLogin,
		TableName: "users",
		RecordID:  user.ID,
		NewValue:  map[string]interface{}{"username": user.Username},
		IPAddress: ip,
	})
	s.logger.Info().Str("username", user.Username).Str("role", user.Role).Msg("user logged in")

	return dto.LoginResponse{
		User:      dto.NewUserResponse(user),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *authService) Logout(ctx context.Context, userID uint, ip string) {
	s.audit.Record(ctx, AuditEntry{
		ActorID:   userID,
		Action:    models.AuditActionLogout,
		TableName: "users",
		RecordID:  userID,
		IPAddress: ip,
	})
}

// Session resolves the authenticated account for token introspection.
func (s *authService) Session(ctx context.Context, userID uint) (dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}
	if !user.IsActive {
		return dto.UserResponse{}, ErrAccountInactive
	}
	return dto.NewUserResponse(user), nil
}

func (s *authService) RecoverPassword(ctx context.Context, payload dto.RecoverRequest, ip string) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecoveryNotAvailable
		}
		return err
	}

	if user.SecurityAnswerHash == "" {
		return ErrRecoveryNotAvailable
	}

	if bcrypt.CompareHashAndPassword([]byte(user.SecurityAnswerHash), []byte(payload.SecurityAnswer)) != nil {
		return ErrWrongSecurityAnswer
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(payload.NewPassword), s.cfg.BcryptCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(newHash)
	if err := s.users.Update(ctx, &user); err != nil {
		return err
	}

	s.audit.Record(ctx, AuditEntry{
		ActorID:   user.ID,
		Action:    models.AuditActionUpdate,
		TableName: "users",
		RecordID:  user.ID,
		NewValue:  map[string]interface{}{"event": "password recovered"},
		IPAddress: ip,
	})
	s.logger.Info().Str("username", user.Username).Msg("password recovered")

	return nil
}

func (s *authService) issueToken(user models.User, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
		"iat":      s.now().Unix(),
		"exp":      expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
