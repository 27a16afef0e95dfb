package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

func TestCanManageAccounts(t *testing.T) {
	assert.NoError(t, CanManageAccounts(account(1, domain.RoleAdmin)))
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(CanManageAccounts(account(1, domain.RoleStaff))))
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(CanManageAccounts(account(1, domain.RoleSupporter))))
}

func TestCanCreateAccountWithRole(t *testing.T) {
	assert.NoError(t, CanCreateAccountWithRole(domain.RoleStaff))
	assert.NoError(t, CanCreateAccountWithRole(domain.RoleSupporter))

	err := CanCreateAccountWithRole(domain.RoleAdmin)
	assert.Equal(t, apperrors.KindBusinessRule, apperrors.KindOf(err))
	assert.Equal(t, CodeAdminCreationForbidden, apperrors.CodeOf(err))

	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(CanCreateAccountWithRole("root")))
}

func TestCanChangeSuspension(t *testing.T) {
	assert.NoError(t, CanChangeSuspension(account(2, domain.RoleStaff)))
	err := CanChangeSuspension(account(3, domain.RoleAdmin))
	assert.Equal(t, CodeAdminSuspensionImmutable, apperrors.CodeOf(err))
}
