package policy

import apperrors "github.com/spec-kit/helpdesk-service/pkg/util"

// Codes carried by business-rule violations.
const (
	CodeTicketAlreadyAssigned    = "TICKET_ALREADY_ASSIGNED"
	CodeTicketNotAssigned        = "TICKET_NOT_ASSIGNED"
	CodeInvalidTicketState       = "INVALID_TICKET_STATE"
	CodeStatusUnreachable        = "STATUS_UNREACHABLE"
	CodeStatusLocked             = "STATUS_LOCKED"
	CodeTicketClosed             = "TICKET_CLOSED"
	CodeAdminCreationForbidden   = "ADMIN_CREATION_FORBIDDEN"
	CodeAdminSuspensionImmutable = "ADMIN_SUSPENSION_IMMUTABLE"
	CodeEmailAlreadyRegistered   = "EMAIL_ALREADY_REGISTERED"
)

// TicketNotFoundOrForbiddenMessage is shared by missing and hidden tickets so
// the message does not reveal whether a ticket exists.
const TicketNotFoundOrForbiddenMessage = "ticket does not exist or you do not have access to it"

// ErrInvalidAccount is returned when the caller's account is gone or suspended.
func ErrInvalidAccount() error {
	return apperrors.NewUnauthorized("this account is not valid")
}

// ErrTicketNotFound reports a missing ticket.
func ErrTicketNotFound() error {
	return apperrors.NewNotFoundMessage(TicketNotFoundOrForbiddenMessage)
}

func errStatusUnreachable() error {
	return apperrors.NewBusinessRule(CodeStatusUnreachable, "selected status is unreachable")
}
