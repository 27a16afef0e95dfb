package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/policy"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

const credentialsMismatchMessage = "email or password does not match"

// AuthService coordinates login and logout flows.
type AuthService struct {
	accounts    repository.AccountRepository
	revocations auth.RevocationStore
	tokenMgr    *auth.TokenManager
	logger      *zap.Logger
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	AccountRepo repository.AccountRepository
	Revocations auth.RevocationStore
	Logger      *zap.Logger
}

// LoginResult carries an issued access token.
type LoginResult struct {
	Account   *domain.Account
	Token     string
	ExpiresAt time.Time
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		accounts:    deps.AccountRepo,
		revocations: deps.Revocations,
		tokenMgr:    auth.NewTokenManager(cfg),
		logger:      loggerOrNop(deps.Logger),
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Login verifies credentials and issues a token for an active account.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	account, err := s.accounts.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if account == nil || auth.ComparePassword(account.PasswordHash, password) != nil {
		return nil, apperrors.NewUnauthorized(credentialsMismatchMessage)
	}
	if err := policy.RequireActive(account); err != nil {
		return nil, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(account.ID, account.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.logger.Info("account logged in", zap.Int64("account_id", account.ID), zap.String("role", string(account.Role)))
	return &LoginResult{Account: account, Token: token, ExpiresAt: exp}, nil
}

// Logout revokes the presented token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, token domain.Token) error {
	if s.revocations == nil {
		return nil
	}
	if err := s.revocations.Revoke(ctx, token.ID, token.ExpiresAt); err != nil {
		return apperrors.NewInternalError(err)
	}
	s.logger.Info("account logged out", zap.Int64("account_id", token.AccountID))
	return nil
}
