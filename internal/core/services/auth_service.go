package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/library_management_app/internal/apperrors"
	portssvc "github.com/SscSPs/library_management_app/internal/core/ports/services"
	"github.com/SscSPs/library_management_app/internal/platform/config"
	"github.com/SscSPs/library_management_app/internal/utils"
)

// authService checks the configured librarian credentials and issues JWTs.
type authService struct {
	BaseService
	username     string
	passwordHash string
	jwtSecret    string
	jwtExpiry    time.Duration
	jwtIssuer    string
}

// NewAuthService hashes the configured password once so plaintext never
// stays in memory past startup.
func NewAuthService(cfg *config.Config) (portssvc.AuthSvc, error) {
	hash, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}
	return &authService{
		username:     cfg.AdminUsername,
		passwordHash: hash,
		jwtSecret:    cfg.JWTSecret,
		jwtExpiry:    cfg.JWTExpiryDuration,
		jwtIssuer:    cfg.JWTIssuer,
	}, nil
}

var _ portssvc.AuthSvc = (*authService)(nil)

func (s *authService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	// Always run bcrypt so a wrong username costs as much as a wrong password.
	passOK := utils.CheckPasswordHash(password, s.passwordHash)
	if !userOK || !passOK {
		s.LogWarn(ctx, apperrors.ErrUnauthorized, "Login failed", slog.String("username", username))
		return "", time.Time{}, apperrors.ErrUnauthorized
	}

	token, expiresAt, err := utils.GenerateJWT(username, s.jwtSecret, s.jwtExpiry, s.jwtIssuer, s.Now())
	if err != nil {
		s.LogError(ctx, err, "Failed to generate access token")
		return "", time.Time{}, err
	}

	s.LogInfo(ctx, "Librarian logged in", slog.String("username", username))
	return token, expiresAt, nil
}
