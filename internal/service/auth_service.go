package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/report-desk/internal/auth"
	"github.com/spec-kit/report-desk/internal/clock"
	"github.com/spec-kit/report-desk/internal/config"
	"github.com/spec-kit/report-desk/internal/domain"
	apperrors "github.com/spec-kit/report-desk/pkg/util/errorutil"
)

// AuthService exchanges a view access code for a role token.
type AuthService struct {
	tokenMgr *auth.TokenManager
	hashes   map[domain.Role]string
	logger   *zap.Logger
}

// LoginResult is returned after a successful login.
type LoginResult struct {
	Role      domain.Role `json:"role"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// NewAuthService hashes the configured access codes once at startup. A blank
// maintenance code leaves the maintenance view open and login for it disabled.
func NewAuthService(cfg config.AuthConfig, c clock.Clock, logger *zap.Logger) (*AuthService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &AuthService{
		tokenMgr: auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes, c),
		hashes:   make(map[domain.Role]string, 2),
		logger:   logger,
	}
	codes := map[domain.Role]string{
		domain.RoleAdmin:       cfg.AdminAccessCode,
		domain.RoleMaintenance: cfg.MaintenanceAccessCode,
	}
	for role, code := range codes {
		if code == "" {
			continue
		}
		hash, err := auth.HashAccessCode(code, cfg.BcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash %s access code: %w", role, err)
		}
		s.hashes[role] = hash
	}
	return s, nil
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// RequiresLogin reports whether the role's view is gated by a code.
func (s *AuthService) RequiresLogin(role domain.Role) bool {
	_, ok := s.hashes[role]
	return ok
}

// Login checks code against the role's access code.
func (s *AuthService) Login(_ context.Context, role domain.Role, code string) (LoginResult, error) {
	role = domain.Role(strings.ToLower(strings.TrimSpace(string(role))))
	if !role.Valid() {
		return LoginResult{}, apperrors.NewValidationError("invalid role", map[string]any{"role": role})
	}
	hash, ok := s.hashes[role]
	if !ok {
		return LoginResult{}, apperrors.NewValidationError("role has no access code", map[string]any{"role": role})
	}
	if err := auth.CompareAccessCode(hash, strings.TrimSpace(code)); err != nil {
		s.logger.Info("access code rejected", zap.String("role", string(role)))
		return LoginResult{}, apperrors.NewInvalidAccessCode()
	}

	token, exp, err := s.tokenMgr.GenerateToken(role)
	if err != nil {
		return LoginResult{}, apperrors.NewInternalError(err)
	}
	return LoginResult{Role: role, Token: token, ExpiresAt: exp}, nil
}
