package domain

import "time"

// TicketHistory is an immutable audit trail entry.
// ActorID is nil for entries written by the system.
type TicketHistory struct {
	ID          int64
	TicketID    int64
	ActorID     *int64
	ActorName   *string
	Description string
	CreatedAt   time.Time
}
