package dto

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// RegisterRequest payload for public end-user signup.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// CreateStaffAccountRequest payload, super-admin only.
type CreateStaffAccountRequest struct {
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Password     string      `json:"password"`
	Role         domain.Role `json:"role"`
	DepartmentID *string     `json:"department_id"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	Role         domain.Role       `json:"role"`
	DepartmentID *string           `json:"department_id,omitempty"`
	Status       domain.UserStatus `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
}

// AuthResponse carries a token alongside the authenticated user.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}
