// Package policy holds the role and ownership rules that decide who may see
// or change a ticket. Every function is pure; callers load the live account
// and ticket first.
package policy

import (
	"fmt"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// RequireActive fails with Unauthenticated when the caller is missing or suspended.
// It runs before any ticket specific rule.
func RequireActive(actor *domain.Account) error {
	if !actor.Active() {
		return ErrInvalidAccount()
	}
	return nil
}

// ListScope describes which tickets a caller may list.
// A nil OwnerOrPublic means every ticket.
type ListScope struct {
	OwnerOrPublic *int64
}

// TicketListScope returns the listing scope for actor.
func TicketListScope(actor *domain.Account) (ListScope, error) {
	if err := RequireActive(actor); err != nil {
		return ListScope{}, err
	}
	switch actor.Role {
	case domain.RoleAdmin, domain.RoleSupporter:
		return ListScope{}, nil
	case domain.RoleStaff:
		id := actor.ID
		return ListScope{OwnerOrPublic: &id}, nil
	default:
		return ListScope{}, ErrInvalidAccount()
	}
}

// FilterVisible drops tickets the actor may not view.
func FilterVisible(actor *domain.Account, tickets []domain.Ticket) []domain.Ticket {
	visible := make([]domain.Ticket, 0, len(tickets))
	for i := range tickets {
		if canSee(actor, &tickets[i]) {
			visible = append(visible, tickets[i])
		}
	}
	return visible
}

func canSee(actor *domain.Account, ticket *domain.Ticket) bool {
	switch actor.Role {
	case domain.RoleAdmin, domain.RoleSupporter:
		return true
	case domain.RoleStaff:
		return ticket.OwnerID == actor.ID || ticket.IsPublic
	default:
		return false
	}
}

// CanViewTicket guards ticket detail, history and comments.
func CanViewTicket(actor *domain.Account, ticket *domain.Ticket) error {
	if err := RequireActive(actor); err != nil {
		return err
	}
	if !canSee(actor, ticket) {
		return apperrors.NewForbidden(TicketNotFoundOrForbiddenMessage)
	}
	return nil
}

// IsOwnTicket reports whether the viewer is the supporter assigned to ticket.
func IsOwnTicket(actor *domain.Account, ticket *domain.Ticket) bool {
	return actor != nil && actor.Role == domain.RoleSupporter && ticket.AssignedTo(actor.ID)
}

// CanCreateTicket allows only staff to open tickets.
func CanCreateTicket(actor *domain.Account) error {
	if err := RequireActive(actor); err != nil {
		return err
	}
	switch actor.Role {
	case domain.RoleStaff:
		return nil
	case domain.RoleSupporter, domain.RoleAdmin:
		return apperrors.NewForbidden("only staff accounts can create tickets")
	default:
		return ErrInvalidAccount()
	}
}

// CanAssignSelf checks a supporter claiming an unassigned new ticket.
func CanAssignSelf(actor *domain.Account, ticket *domain.Ticket) error {
	if err := RequireActive(actor); err != nil {
		return err
	}
	switch actor.Role {
	case domain.RoleSupporter:
	case domain.RoleStaff, domain.RoleAdmin:
		return apperrors.NewForbidden("only supporters can be assigned to tickets")
	default:
		return ErrInvalidAccount()
	}
	if ticket.HasAssignee() {
		return apperrors.NewBusinessRule(CodeTicketAlreadyAssigned, "ticket already has an assigned supporter")
	}
	if ticket.Status != domain.TicketStatusStart {
		return apperrors.NewBusinessRule(CodeInvalidTicketState, "ticket cannot be assigned in its current status")
	}
	if !domain.CanTransition(ticket.Status, domain.TicketStatusAssigned) {
		return errStatusUnreachable()
	}
	return nil
}

// CanUnassignSelf checks the assigned supporter releasing a ticket back to START.
func CanUnassignSelf(actor *domain.Account, ticket *domain.Ticket) error {
	if err := RequireActive(actor); err != nil {
		return err
	}
	if actor.Role != domain.RoleSupporter || !ticket.AssignedTo(actor.ID) {
		return apperrors.NewForbidden("only the assigned supporter can unassign the ticket")
	}
	if !domain.CanTransition(ticket.Status, domain.TicketStatusStart) {
		return errStatusUnreachable()
	}
	return nil
}

// CanChangeStatus checks an explicit status change request.
func CanChangeStatus(actor *domain.Account, ticket *domain.Ticket, target domain.TicketStatus) error {
	if err := RequireActive(actor); err != nil {
		return err
	}
	if target == domain.TicketStatusStart {
		return errStatusUnreachable()
	}
	if !target.Valid() {
		return apperrors.NewValidationError(fmt.Sprintf("unknown status %q", target), nil)
	}
	switch actor.Role {
	case domain.RoleStaff:
		return apperrors.NewForbidden("staff accounts cannot change ticket status")
	case domain.RoleSupporter, domain.RoleAdmin:
	default:
		return ErrInvalidAccount()
	}
	if !ticket.HasAssignee() {
		return apperrors.NewBusinessRule(CodeTicketNotAssigned, "ticket has no assigned supporter")
	}
	if actor.Role != domain.RoleAdmin && !ticket.AssignedTo(actor.ID) {
		return apperrors.NewForbidden("no permission to change status")
	}
	if ticket.Status == domain.TicketStatusStart {
		return apperrors.NewBusinessRule(CodeStatusLocked, "status cannot be changed from the current status")
	}
	if !domain.CanTransition(ticket.Status, target) {
		return errStatusUnreachable()
	}
	return nil
}

// CanComment requires view access and an open ticket.
func CanComment(actor *domain.Account, ticket *domain.Ticket) error {
	if err := CanViewTicket(actor, ticket); err != nil {
		return err
	}
	if ticket.Status == domain.TicketStatusClosed {
		return apperrors.NewBusinessRule(CodeTicketClosed, "closed tickets cannot receive comments")
	}
	return nil
}
