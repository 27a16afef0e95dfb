package dto

import "github.com/spec-kit/helpdesk-service/internal/domain"

// NewTicketSummary maps a ticket to its list shape.
func NewTicketSummary(t *domain.Ticket) TicketSummary {
	return TicketSummary{
		ID:           t.ID,
		Title:        t.Title,
		IsPublic:     t.IsPublic,
		Status:       t.Status,
		StatusLabel:  t.Status.Label(),
		OwnerID:      t.OwnerID,
		OwnerName:    t.OwnerName,
		AssigneeID:   t.AssigneeID,
		AssigneeName: t.AssigneeName,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

// NewTicketDetail maps a ticket with its history.
func NewTicketDetail(t *domain.Ticket, history []domain.TicketHistory, isOwn bool) TicketDetailResponse {
	return TicketDetailResponse{
		TicketSummary: NewTicketSummary(t),
		Description:   t.Description,
		IsOwnTicket:   isOwn,
		History:       NewHistoryList(history),
	}
}

// NewHistoryResponse maps one audit entry.
func NewHistoryResponse(h *domain.TicketHistory) HistoryResponse {
	return HistoryResponse{
		ID:          h.ID,
		ActorID:     h.ActorID,
		ActorName:   h.ActorName,
		Description: h.Description,
		CreatedAt:   h.CreatedAt,
	}
}

// NewHistoryList maps audit entries, never returning nil.
func NewHistoryList(history []domain.TicketHistory) []HistoryResponse {
	items := make([]HistoryResponse, 0, len(history))
	for i := range history {
		items = append(items, NewHistoryResponse(&history[i]))
	}
	return items
}

// NewAccountResponse maps the admin view.
func NewAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		ID:          a.ID,
		Name:        a.Name,
		Email:       a.Email,
		Role:        a.Role,
		IsSuspended: a.Suspended,
		CreatedAt:   a.CreatedAt,
	}
}

// NewDirectoryEntry maps the directory view.
func NewDirectoryEntry(a *domain.Account) DirectoryEntry {
	return DirectoryEntry{ID: a.ID, Name: a.Name, Email: a.Email, Role: a.Role}
}
