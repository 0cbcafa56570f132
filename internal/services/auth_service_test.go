package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wavelinehq/waveline/internal/apperrors"
	"github.com/wavelinehq/waveline/internal/config"
	"github.com/wavelinehq/waveline/internal/dto"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 24 * time.Hour,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testAuthConfig())

	resp, err := svc.Register(&dto.RegisterRequest{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "alice", resp.User.Username)
	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.False(t, resp.User.IsAdmin)

	token, err := jwt.Parse(resp.AccessToken, func(tok *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, resp.User.ID.String(), claims["sub"])
	assert.Equal(t, false, claims["admin"])

	login, err := svc.Login(&dto.LoginRequest{Email: "alice@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	_, err = svc.Login(&dto.LoginRequest{Email: "alice@example.com", Password: "wrong-password"})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUnauthenticated, apperrors.KindOf(err))
}

func TestRegisterValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testAuthConfig())

	_, err := svc.Register(&dto.RegisterRequest{Username: "", Email: "a@b.com", Password: "longenough"})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = svc.Register(&dto.RegisterRequest{Username: "bob", Email: "bob@b.com", Password: "short"})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestRegisterDuplicate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testAuthConfig())

	_, err := svc.Register(&dto.RegisterRequest{Username: "alice", Email: "alice@b.com", Password: "longenough"})
	require.NoError(t, err)

	_, err = svc.Register(&dto.RegisterRequest{Username: "alice", Email: "other@b.com", Password: "longenough"})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	_, err = svc.Register(&dto.RegisterRequest{Username: "alice2", Email: "alice@b.com", Password: "longenough"})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestRefreshTokenRotation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testAuthConfig())

	resp, err := svc.Register(&dto.RegisterRequest{Username: "alice", Email: "alice@b.com", Password: "longenough"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, resp.RefreshToken, refreshed.RefreshToken)

	// Single use: the old token is revoked on rotation.
	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUnauthenticated, apperrors.KindOf(err))

	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: refreshed.RefreshToken})
	require.NoError(t, err)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testAuthConfig())

	resp, err := svc.Register(&dto.RegisterRequest{Username: "alice", Email: "alice@b.com", Password: "longenough"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(&dto.LogoutRequest{RefreshToken: resp.RefreshToken}))

	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindUnauthenticated, apperrors.KindOf(err))
}
