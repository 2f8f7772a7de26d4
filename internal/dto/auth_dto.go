package dto

import (
	"time"

	"github.com/campushub/campushub-api/internal/models"
)

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	Username         string `json:"username" validate:"required,min=3,max=50"`
	Email            string `json:"email" validate:"required,email,max=100"`
	Password         string `json:"password" validate:"required,min=8"`
	Role             string `json:"role" validate:"omitempty,oneof=student teacher admin"`
	SecurityQuestion string `json:"securityQuestion" validate:"omitempty,max=255"`
	SecurityAnswer   string `json:"securityAnswer" validate:"omitempty,max=255"`
}

// LoginRequest is the payload for credential verification.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RecoverRequest resets a password using the account security question.
type RecoverRequest struct {
	Email          string `json:"email" validate:"required,email"`
	SecurityAnswer string `json:"securityAnswer" validate:"required"`
	NewPassword    string `json:"newPassword" validate:"required,min=8"`
}

// UserResponse serializes an account without credential material.
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserResponse converts a user model into its response shape.
func NewUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}

// LoginResponse carries the authenticated user and their session token.
type LoginResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// SessionResponse reports whether the request carries a valid session.
type SessionResponse struct {
	Authenticated bool          `json:"authenticated"`
	User          *UserResponse `json:"user,omitempty"`
}
