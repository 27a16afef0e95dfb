package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=5000"`
	IsPublic    bool   `json:"is_public"`
}

// ChangeStatusRequest payload.
type ChangeStatusRequest struct {
	Status domain.TicketStatus `json:"status" validate:"required"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Body string `json:"body" validate:"required,max=2000"`
}

// TicketListQuery captures query filters.
type TicketListQuery struct {
	Status   string `query:"status"`
	Page     int    `query:"page" validate:"gte=0"`
	PageSize int    `query:"page_size" validate:"gte=0,lte=100"`
}

// TicketSummary response.
type TicketSummary struct {
	ID           int64               `json:"id"`
	Title        string              `json:"title"`
	IsPublic     bool                `json:"is_public"`
	Status       domain.TicketStatus `json:"status"`
	StatusLabel  string              `json:"status_label"`
	OwnerID      int64               `json:"owner_id"`
	OwnerName    string              `json:"owner_name"`
	AssigneeID   *int64              `json:"assignee_id"`
	AssigneeName *string             `json:"assignee_name"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	TicketSummary
	Description string            `json:"description"`
	IsOwnTicket bool              `json:"is_own_ticket"`
	History     []HistoryResponse `json:"history"`
}

// HistoryResponse is one audit entry. Actor fields are null for system entries.
type HistoryResponse struct {
	ID          int64     `json:"id"`
	ActorID     *int64    `json:"actor_id"`
	ActorName   *string   `json:"actor_name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
