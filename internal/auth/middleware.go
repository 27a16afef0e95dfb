package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	Account *domain.Account
	Token   domain.Token
	Raw     string
}

// AccountLookup loads the live account record; a missing account is (nil, nil).
type AccountLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
}

// AuthMiddleware validates access tokens and loads principals.
type AuthMiddleware struct {
	tokens      *TokenManager
	accounts    AccountLookup
	revocations RevocationStore
	cookieName  string
}

// NewAuthMiddleware constructs middleware. revocations may be nil.
func NewAuthMiddleware(tokens *TokenManager, accounts AccountLookup, revocations RevocationStore, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, accounts: accounts, revocations: revocations, cookieName: cookieName}
}

// Handle enforces authentication for protected routes.
// Suspension is checked against the live account on every request.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	principal, err := m.authenticate(c)
	if err != nil {
		return err
	}
	c.Locals(principalKey, principal)
	return c.Next()
}

// Optional loads the principal when the credential is valid and lets the
// request through without one otherwise.
func (m *AuthMiddleware) Optional(c *fiber.Ctx) error {
	principal, err := m.authenticate(c)
	if err != nil {
		if apperrors.KindOf(err) != apperrors.KindUnauthenticated {
			return err
		}
		return c.Next()
	}
	c.Locals(principalKey, principal)
	return c.Next()
}

func (m *AuthMiddleware) authenticate(c *fiber.Ctx) (*Principal, error) {
	raw, err := m.extractToken(c)
	if err != nil {
		return nil, err
	}

	claims, err := m.tokens.ParseToken(raw)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return nil, apperrors.NewUnauthorized("access token expired")
		}
		return nil, apperrors.NewUnauthorized("invalid access token")
	}

	ctx := c.UserContext()
	if m.revocations != nil {
		revoked, err := m.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		if revoked {
			return nil, apperrors.NewUnauthorized("access token revoked")
		}
	}

	account, err := m.accounts.GetByID(ctx, claims.AccountID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !account.Active() || account.Role != claims.Role {
		return nil, apperrors.NewUnauthorized("this account is not valid")
	}
	return &Principal{Account: account, Token: claims.Token(), Raw: raw}, nil
}

func (m *AuthMiddleware) extractToken(c *fiber.Ctx) (string, error) {
	if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", apperrors.NewUnauthorized("invalid authorization header")
		}
		return strings.TrimSpace(parts[1]), nil
	}
	if m.cookieName != "" {
		if cookie := c.Cookies(m.cookieName); cookie != "" {
			return cookie, nil
		}
	}
	return "", apperrors.NewUnauthorized("access token missing")
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
