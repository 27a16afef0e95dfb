package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

func account(id int64, role domain.Role) *domain.Account {
	return &domain.Account{ID: id, Name: string(role), Role: role}
}

func ticket(owner int64, public bool, status domain.TicketStatus, assignee *int64) *domain.Ticket {
	return &domain.Ticket{ID: 10, OwnerID: owner, IsPublic: public, Status: status, AssigneeID: assignee}
}

func ptr(v int64) *int64 { return &v }

func TestSuspendedAccountIsUnauthenticatedEverywhere(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleStaff, domain.RoleSupporter, domain.RoleAdmin} {
		actor := account(1, role)
		actor.Suspended = true
		own := ticket(1, false, domain.TicketStatusAssigned, ptr(1))

		_, err := TicketListScope(actor)
		checks := []error{
			err,
			CanViewTicket(actor, own),
			CanCreateTicket(actor),
			CanAssignSelf(actor, ticket(2, true, domain.TicketStatusStart, nil)),
			CanUnassignSelf(actor, own),
			CanChangeStatus(actor, own, domain.TicketStatusInProgress),
			CanComment(actor, own),
			CanManageAccounts(actor),
		}
		for i, err := range checks {
			assert.Equalf(t, apperrors.KindUnauthenticated, apperrors.KindOf(err), "role %s check %d", role, i)
		}
	}
	assert.Equal(t, apperrors.KindUnauthenticated, apperrors.KindOf(RequireActive(nil)))
}

func TestTicketListScope(t *testing.T) {
	scope, err := TicketListScope(account(3, domain.RoleStaff))
	require.NoError(t, err)
	require.NotNil(t, scope.OwnerOrPublic)
	assert.Equal(t, int64(3), *scope.OwnerOrPublic)

	for _, role := range []domain.Role{domain.RoleSupporter, domain.RoleAdmin} {
		scope, err := TicketListScope(account(4, role))
		require.NoError(t, err)
		assert.Nil(t, scope.OwnerOrPublic)
	}
}

func TestFilterVisibleHidesOtherStaffPrivateTickets(t *testing.T) {
	tickets := []domain.Ticket{
		{ID: 1, OwnerID: 7, IsPublic: false},
		{ID: 2, OwnerID: 7, IsPublic: true},
		{ID: 3, OwnerID: 8, IsPublic: false},
		{ID: 4, OwnerID: 8, IsPublic: true},
	}

	got := FilterVisible(account(7, domain.RoleStaff), tickets)
	ids := make([]int64, 0, len(got))
	for _, tk := range got {
		assert.False(t, tk.OwnerID != 7 && !tk.IsPublic)
		ids = append(ids, tk.ID)
	}
	assert.Equal(t, []int64{1, 2, 4}, ids)

	assert.Len(t, FilterVisible(account(9, domain.RoleSupporter), tickets), 4)
	assert.Len(t, FilterVisible(account(9, domain.RoleAdmin), tickets), 4)
}

func TestCanViewTicket(t *testing.T) {
	private := ticket(1, false, domain.TicketStatusStart, nil)

	assert.NoError(t, CanViewTicket(account(1, domain.RoleStaff), private))
	assert.NoError(t, CanViewTicket(account(5, domain.RoleSupporter), private))
	assert.NoError(t, CanViewTicket(account(6, domain.RoleAdmin), private))

	err := CanViewTicket(account(2, domain.RoleStaff), private)
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
	assert.Equal(t, TicketNotFoundOrForbiddenMessage, apperrors.ToDomainError(err).Message)

	public := ticket(1, true, domain.TicketStatusStart, nil)
	assert.NoError(t, CanViewTicket(account(2, domain.RoleStaff), public))
}

func TestIsOwnTicket(t *testing.T) {
	tk := ticket(1, true, domain.TicketStatusAssigned, ptr(5))
	assert.True(t, IsOwnTicket(account(5, domain.RoleSupporter), tk))
	assert.False(t, IsOwnTicket(account(6, domain.RoleSupporter), tk))
	assert.False(t, IsOwnTicket(account(5, domain.RoleAdmin), tk))
	assert.False(t, IsOwnTicket(account(5, domain.RoleSupporter), ticket(1, true, domain.TicketStatusStart, nil)))
}

func TestCanCreateTicket(t *testing.T) {
	assert.NoError(t, CanCreateTicket(account(1, domain.RoleStaff)))
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(CanCreateTicket(account(1, domain.RoleSupporter))))
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(CanCreateTicket(account(1, domain.RoleAdmin))))
}

func TestCanAssignSelf(t *testing.T) {
	supporter := account(5, domain.RoleSupporter)

	assert.NoError(t, CanAssignSelf(supporter, ticket(1, false, domain.TicketStatusStart, nil)))

	err := CanAssignSelf(account(1, domain.RoleStaff), ticket(1, false, domain.TicketStatusStart, nil))
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
	err = CanAssignSelf(account(1, domain.RoleAdmin), ticket(1, false, domain.TicketStatusStart, nil))
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	err = CanAssignSelf(supporter, ticket(1, false, domain.TicketStatusStart, ptr(6)))
	assert.Equal(t, CodeTicketAlreadyAssigned, apperrors.CodeOf(err))
	err = CanAssignSelf(supporter, ticket(1, false, domain.TicketStatusAssigned, ptr(5)))
	assert.Equal(t, CodeTicketAlreadyAssigned, apperrors.CodeOf(err))

	err = CanAssignSelf(supporter, ticket(1, false, domain.TicketStatusInProgress, nil))
	assert.Equal(t, CodeInvalidTicketState, apperrors.CodeOf(err))
}

func TestCanUnassignSelf(t *testing.T) {
	supporter := account(5, domain.RoleSupporter)

	assert.NoError(t, CanUnassignSelf(supporter, ticket(1, false, domain.TicketStatusAssigned, ptr(5))))
	assert.NoError(t, CanUnassignSelf(supporter, ticket(1, false, domain.TicketStatusInProgress, ptr(5))))

	err := CanUnassignSelf(account(6, domain.RoleSupporter), ticket(1, false, domain.TicketStatusAssigned, ptr(5)))
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
	err = CanUnassignSelf(account(5, domain.RoleAdmin), ticket(1, false, domain.TicketStatusAssigned, ptr(5)))
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))

	err = CanUnassignSelf(supporter, ticket(1, false, domain.TicketStatusResolved, ptr(5)))
	assert.Equal(t, CodeStatusUnreachable, apperrors.CodeOf(err))
	err = CanUnassignSelf(supporter, ticket(1, false, domain.TicketStatusClosed, ptr(5)))
	assert.Equal(t, CodeStatusUnreachable, apperrors.CodeOf(err))
}

func TestCanChangeStatus(t *testing.T) {
	assignee := account(5, domain.RoleSupporter)
	admin := account(9, domain.RoleAdmin)

	cases := []struct {
		name   string
		actor  *domain.Account
		ticket *domain.Ticket
		target domain.TicketStatus
		kind   apperrors.ErrorKind
		code   string
	}{
		{"assignee moves to in progress", assignee, ticket(1, false, domain.TicketStatusAssigned, ptr(5)), domain.TicketStatusInProgress, "", ""},
		{"admin overrides", admin, ticket(1, false, domain.TicketStatusInProgress, ptr(5)), domain.TicketStatusResolved, "", ""},
		{"reopen closed", assignee, ticket(1, false, domain.TicketStatusClosed, ptr(5)), domain.TicketStatusInProgress, "", ""},
		{"start target rejected", admin, ticket(1, false, domain.TicketStatusAssigned, ptr(5)), domain.TicketStatusStart, apperrors.KindBusinessRule, CodeStatusUnreachable},
		{"resolved to start", assignee, ticket(1, false, domain.TicketStatusResolved, ptr(5)), domain.TicketStatusStart, apperrors.KindBusinessRule, CodeStatusUnreachable},
		{"unknown status", assignee, ticket(1, false, domain.TicketStatusAssigned, ptr(5)), "archived", apperrors.KindValidation, "VALIDATION_FAILED"},
		{"staff rejected", account(1, domain.RoleStaff), ticket(1, false, domain.TicketStatusAssigned, ptr(5)), domain.TicketStatusInProgress, apperrors.KindForbidden, "FORBIDDEN"},
		{"no assignee", admin, ticket(1, false, domain.TicketStatusStart, nil), domain.TicketStatusInProgress, apperrors.KindBusinessRule, CodeTicketNotAssigned},
		{"other supporter", account(6, domain.RoleSupporter), ticket(1, false, domain.TicketStatusAssigned, ptr(5)), domain.TicketStatusInProgress, apperrors.KindForbidden, "FORBIDDEN"},
		{"current start", admin, ticket(1, false, domain.TicketStatusStart, ptr(5)), domain.TicketStatusInProgress, apperrors.KindBusinessRule, CodeStatusLocked},
		{"resolved to assigned", assignee, ticket(1, false, domain.TicketStatusResolved, ptr(5)), domain.TicketStatusAssigned, apperrors.KindBusinessRule, CodeStatusUnreachable},
		{"closed to resolved", admin, ticket(1, false, domain.TicketStatusClosed, ptr(5)), domain.TicketStatusResolved, apperrors.KindBusinessRule, CodeStatusUnreachable},
		{"self transition", assignee, ticket(1, false, domain.TicketStatusInProgress, ptr(5)), domain.TicketStatusInProgress, apperrors.KindBusinessRule, CodeStatusUnreachable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CanChangeStatus(tc.actor, tc.ticket, tc.target)
			if tc.kind == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tc.kind, apperrors.KindOf(err))
			assert.Equal(t, tc.code, apperrors.CodeOf(err))
		})
	}
}

func TestOtherSupporterGetsNoPermissionMessage(t *testing.T) {
	err := CanChangeStatus(account(4, domain.RoleSupporter), ticket(1, true, domain.TicketStatusAssigned, ptr(5)), domain.TicketStatusInProgress)
	require.Error(t, err)
	assert.Equal(t, "no permission to change status", apperrors.ToDomainError(err).Message)
}

func TestCanComment(t *testing.T) {
	owner := account(1, domain.RoleStaff)

	assert.NoError(t, CanComment(owner, ticket(1, false, domain.TicketStatusResolved, ptr(5))))

	err := CanComment(owner, ticket(1, false, domain.TicketStatusClosed, ptr(5)))
	assert.Equal(t, CodeTicketClosed, apperrors.CodeOf(err))
	assert.NotEqual(t, CodeStatusUnreachable, apperrors.CodeOf(err))

	err = CanComment(account(2, domain.RoleStaff), ticket(1, false, domain.TicketStatusStart, nil))
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}
