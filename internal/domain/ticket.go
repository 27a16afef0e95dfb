package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusStart      TicketStatus = "start"
	TicketStatusAssigned   TicketStatus = "assigned"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// TicketStatuses lists every status in lifecycle order.
var TicketStatuses = []TicketStatus{
	TicketStatusStart,
	TicketStatusAssigned,
	TicketStatusInProgress,
	TicketStatusResolved,
	TicketStatusClosed,
}

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusStart, TicketStatusAssigned, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// Label is the human readable name used in history entries.
func (s TicketStatus) Label() string {
	switch s {
	case TicketStatusStart:
		return "New"
	case TicketStatusAssigned:
		return "Assigned"
	case TicketStatusInProgress:
		return "In progress"
	case TicketStatusResolved:
		return "Resolved"
	case TicketStatusClosed:
		return "Closed"
	}
	return string(s)
}

// Ticket is the aggregate for support requests.
// OwnerID never changes; AssigneeID is nil until a supporter claims the ticket.
type Ticket struct {
	ID           int64
	Title        string
	Description  string
	IsPublic     bool
	Status       TicketStatus
	OwnerID      int64
	AssigneeID   *int64
	OwnerName    string
	AssigneeName *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasAssignee reports whether a supporter currently holds the ticket.
func (t *Ticket) HasAssignee() bool {
	return t.AssigneeID != nil
}

// AssignedTo reports whether accountID is the current assignee.
func (t *Ticket) AssignedTo(accountID int64) bool {
	return t.AssigneeID != nil && *t.AssigneeID == accountID
}
