package policy

import (
	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// CanManageAccounts allows only admins into account management.
func CanManageAccounts(actor *domain.Account) error {
	if err := RequireActive(actor); err != nil {
		return err
	}
	switch actor.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleStaff, domain.RoleSupporter:
		return apperrors.NewForbidden("admin role required")
	default:
		return ErrInvalidAccount()
	}
}

// CanCreateAccountWithRole rejects admin creation through the API.
func CanCreateAccountWithRole(role domain.Role) error {
	switch role {
	case domain.RoleAdmin:
		return apperrors.NewBusinessRule(CodeAdminCreationForbidden, "admin accounts cannot be created")
	case domain.RoleStaff, domain.RoleSupporter:
		return nil
	default:
		return apperrors.NewValidationError("unknown role", map[string]any{"role": role})
	}
}

// CanChangeSuspension rejects suspension changes on admin accounts.
func CanChangeSuspension(target *domain.Account) error {
	if target.Role == domain.RoleAdmin {
		return apperrors.NewBusinessRule(CodeAdminSuspensionImmutable, "admin account suspension cannot be changed")
	}
	return nil
}
