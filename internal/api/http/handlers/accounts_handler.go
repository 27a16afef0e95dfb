package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// AccountsHandler serves the account directory and admin account management.
type AccountsHandler struct {
	accounts *service.AccountService
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(accountService *service.AccountService) *AccountsHandler {
	return &AccountsHandler{accounts: accountService}
}

// Directory GET /user-accounts.
func (h *AccountsHandler) Directory(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	accounts, err := h.accounts.Directory(c.UserContext(), account)
	if err != nil {
		return err
	}
	items := make([]dto.DirectoryEntry, 0, len(accounts))
	for i := range accounts {
		items = append(items, dto.NewDirectoryEntry(&accounts[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListAccounts GET /admin/accounts.
func (h *AccountsHandler) ListAccounts(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	accounts, err := h.accounts.ListAccounts(c.UserContext(), account)
	if err != nil {
		return err
	}
	items := make([]dto.AccountResponse, 0, len(accounts))
	for i := range accounts {
		items = append(items, dto.NewAccountResponse(&accounts[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateAccount POST /admin/accounts.
func (h *AccountsHandler) CreateAccount(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	var req dto.CreateAccountRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	created, err := h.accounts.CreateAccount(c.UserContext(), account, service.AccountCreateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewAccountResponse(created)})
}

// UpdateAccount PUT /admin/accounts.
func (h *AccountsHandler) UpdateAccount(c *fiber.Ctx) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	var req dto.UpdateAccountRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	updated, err := h.accounts.UpdateSuspension(c.UserContext(), account, req.ID, *req.IsSuspended)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAccountResponse(updated)})
}
