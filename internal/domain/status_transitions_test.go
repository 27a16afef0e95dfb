package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionMatchesTable(t *testing.T) {
	allowed := map[TicketStatus]map[TicketStatus]bool{
		TicketStatusStart:      {TicketStatusAssigned: true},
		TicketStatusAssigned:   {TicketStatusStart: true, TicketStatusInProgress: true, TicketStatusResolved: true, TicketStatusClosed: true},
		TicketStatusInProgress: {TicketStatusStart: true, TicketStatusAssigned: true, TicketStatusResolved: true, TicketStatusClosed: true},
		TicketStatusResolved:   {TicketStatusInProgress: true, TicketStatusClosed: true},
		TicketStatusClosed:     {TicketStatusInProgress: true},
	}

	for _, from := range TicketStatuses {
		for _, to := range TicketStatuses {
			want := allowed[from][to]
			assert.Equalf(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanTransitionRejectsSelfTransitions(t *testing.T) {
	for _, s := range TicketStatuses {
		assert.Falsef(t, CanTransition(s, s), "self transition %s", s)
	}
}

func TestCanTransitionRejectsUnknownStatus(t *testing.T) {
	assert.False(t, CanTransition("archived", TicketStatusClosed))
	assert.False(t, CanTransition(TicketStatusStart, "archived"))
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("supporter")
	assert.NoError(t, err)
	assert.Equal(t, RoleSupporter, role)

	_, err = ParseRole("ADMIN")
	assert.Error(t, err)
}
