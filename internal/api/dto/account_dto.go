package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CreateAccountRequest payload.
type CreateAccountRequest struct {
	Name     string      `json:"name" validate:"required,max=30"`
	Email    string      `json:"email" validate:"required,email,max=255"`
	Password string      `json:"password" validate:"required,min=8"`
	Role     domain.Role `json:"role" validate:"required,oneof=staff supporter admin"`
}

// UpdateAccountRequest toggles suspension.
type UpdateAccountRequest struct {
	ID          int64 `json:"id" validate:"required,gt=0"`
	IsSuspended *bool `json:"is_suspended" validate:"required"`
}

// AccountResponse is the admin view of an account.
type AccountResponse struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Role        domain.Role `json:"role"`
	IsSuspended bool        `json:"is_suspended"`
	CreatedAt   time.Time   `json:"created_at"`
}

// DirectoryEntry is the non-admin view; suspension state is omitted.
type DirectoryEntry struct {
	ID    int64       `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}
