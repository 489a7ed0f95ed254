package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/library_management_app/internal/apperrors"
	"github.com/SscSPs/library_management_app/internal/core/services"
	"github.com/SscSPs/library_management_app/internal/platform/config"
	"github.com/SscSPs/library_management_app/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Login(t *testing.T) {
	cfg := &config.Config{
		AdminUsername:     "librarian",
		AdminPassword:     "correct horse",
		JWTSecret:         "test-secret",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "library-test",
	}
	auth, err := services.NewAuthService(cfg)
	require.NoError(t, err)
	ctx := context.Background()

	token, expiresAt, err := auth.Login(ctx, "librarian", "correct horse")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := utils.ParseAndValidateJWT(token, "test-secret", "library-test")
	require.NoError(t, err)
	assert.Equal(t, "librarian", claims.Subject)

	_, _, err = auth.Login(ctx, "librarian", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, _, err = auth.Login(ctx, "someone", "correct horse")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
