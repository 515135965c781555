package dto

import (
	"time"

	"github.com/spec-kit/shift-service/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the signed token and employee facts.
type LoginResponse struct {
	Token          string              `json:"token"`
	ExpiresAt      time.Time           `json:"expires_at"`
	EmployeeID     string              `json:"employee_id"`
	Name           string              `json:"name"`
	Role           domain.EmployeeRole `json:"role"`
	StoreID        string              `json:"store_id"`
	EmploymentType string              `json:"employment_type"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}
