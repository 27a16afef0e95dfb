package domain

var allowedTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusStart:      {TicketStatusAssigned},
	TicketStatusAssigned:   {TicketStatusStart, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed},
	TicketStatusInProgress: {TicketStatusStart, TicketStatusAssigned, TicketStatusResolved, TicketStatusClosed},
	TicketStatusResolved:   {TicketStatusInProgress, TicketStatusClosed},
	TicketStatusClosed:     {TicketStatusInProgress},
}

// CanTransition reports whether a ticket may move from current to next.
func CanTransition(current, next TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}
