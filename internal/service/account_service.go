package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/policy"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

const maxNameLength = 30

// AccountService manages account records.
type AccountService struct {
	accounts   repository.AccountRepository
	tx         Transactor
	bcryptCost int
	validate   *validator.Validate
	logger     *zap.Logger
}

// AccountDependencies bundles account service collaborators.
type AccountDependencies struct {
	AccountRepo repository.AccountRepository
	Tx          Transactor
	BcryptCost  int
	Logger      *zap.Logger
}

// AccountCreateInput describes a new account.
type AccountCreateInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// NewAccountService creates the service.
func NewAccountService(deps AccountDependencies) *AccountService {
	return &AccountService{
		accounts:   deps.AccountRepo,
		tx:         deps.Tx,
		bcryptCost: deps.BcryptCost,
		validate:   validator.New(),
		logger:     loggerOrNop(deps.Logger),
	}
}

// ListAccounts returns every account with suspension state. Admin only.
func (s *AccountService) ListAccounts(ctx context.Context, actor *domain.Account) ([]domain.Account, error) {
	if err := policy.CanManageAccounts(actor); err != nil {
		return nil, err
	}
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return accounts, nil
}

// Directory lists accounts for any active caller.
// The transport omits suspension state for this view.
func (s *AccountService) Directory(ctx context.Context, actor *domain.Account) ([]domain.Account, error) {
	if err := policy.RequireActive(actor); err != nil {
		return nil, err
	}
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return accounts, nil
}

// CreateAccount creates a staff or supporter account on behalf of an admin.
func (s *AccountService) CreateAccount(ctx context.Context, actor *domain.Account, input AccountCreateInput) (*domain.Account, error) {
	if err := policy.CanManageAccounts(actor); err != nil {
		return nil, err
	}
	if err := policy.CanCreateAccountWithRole(input.Role); err != nil {
		return nil, err
	}
	return s.create(ctx, input)
}

// BootstrapAccount creates an account of any role, including admin.
// It is reachable only from the operator CLI.
func (s *AccountService) BootstrapAccount(ctx context.Context, input AccountCreateInput) (*domain.Account, error) {
	if !input.Role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": input.Role})
	}
	return s.create(ctx, input)
}

func (s *AccountService) create(ctx context.Context, input AccountCreateInput) (*domain.Account, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	account := &domain.Account{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
	}

	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		existing, err := s.accounts.GetByEmail(ctx, account.Email)
		if err != nil {
			return apperrors.MapError(err)
		}
		if existing != nil {
			return errEmailRegistered()
		}
		if err := s.accounts.Create(ctx, account); err != nil {
			if errors.Is(err, repository.ErrDuplicateEmail) {
				return errEmailRegistered()
			}
			return apperrors.MapError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("account created", zap.Int64("account_id", account.ID), zap.String("role", string(account.Role)))
	return account, nil
}

func (s *AccountService) validateInput(input AccountCreateInput) error {
	if n := utf8.RuneCountInString(input.Name); n == 0 || n > maxNameLength {
		return apperrors.NewValidationError("name must be between 1 and 30 characters", map[string]any{"field": "name"})
	}
	if err := s.validate.Var(input.Email, "required,email"); err != nil {
		return apperrors.NewValidationError("email is not valid", map[string]any{"field": "email"})
	}
	if err := auth.ValidatePasswordStrength(input.Password); err != nil {
		return apperrors.NewValidationError(err.Error(), map[string]any{"field": "password"})
	}
	return nil
}

// UpdateSuspension sets the suspended flag of a non-admin account.
func (s *AccountService) UpdateSuspension(ctx context.Context, actor *domain.Account, accountID int64, suspended bool) (*domain.Account, error) {
	if err := policy.CanManageAccounts(actor); err != nil {
		return nil, err
	}

	var target *domain.Account
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		target, err = s.accounts.GetByID(ctx, accountID)
		if err != nil {
			return apperrors.MapError(err)
		}
		if target == nil {
			return apperrors.NewNotFound("account", map[string]any{"account_id": accountID})
		}
		if err := policy.CanChangeSuspension(target); err != nil {
			return err
		}
		if err := s.accounts.SetSuspended(ctx, target.ID, suspended); err != nil {
			return apperrors.MapError(err)
		}
		target.Suspended = suspended
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("account suspension changed",
		zap.Int64("actor_id", actor.ID),
		zap.Int64("account_id", target.ID),
		zap.Bool("suspended", suspended))
	return target, nil
}

func errEmailRegistered() error {
	return apperrors.NewBusinessRule(policy.CodeEmailAlreadyRegistered, "email already registered")
}
