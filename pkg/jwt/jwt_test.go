package jwt_test

import (
	"testing"
	"time"

	"clinic-booking/config"
	"clinic-booking/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := jwt.NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 7 * 24 * time.Hour,
	})
	userID := uuid.New()

	token, tokenID, err := svc.GenerateAccessToken(userID, "mario.rossi@example.com", "patient")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "patient", claims.Role)
	assert.Equal(t, jwt.AccessToken, claims.TokenType)
	assert.Equal(t, tokenID, claims.TokenID)

	refresh, _, err := svc.GenerateRefreshToken(userID, "mario.rossi@example.com", "patient")
	require.NoError(t, err)
	refreshClaims, err := svc.ValidateToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, jwt.RefreshToken, refreshClaims.TokenType)
}

func TestJWTService_Rejects(t *testing.T) {
	svc := jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: time.Minute})
	other := jwt.NewJWTService(config.JWTConfig{Secret: "other-secret", AccessExpiry: time.Minute})
	expired := jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: -time.Minute})

	foreign, _, err := other.GenerateAccessToken(uuid.New(), "a@example.com", "admin")
	require.NoError(t, err)
	_, err = svc.ValidateToken(foreign)
	assert.Error(t, err)

	stale, _, err := expired.GenerateAccessToken(uuid.New(), "a@example.com", "admin")
	require.NoError(t, err)
	_, err = svc.ValidateToken(stale)
	assert.Error(t, err)

	_, err = svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestJWTService_ValidateTokenOfType(t *testing.T) {
	svc := jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: time.Minute, RefreshExpiry: time.Hour})

	refresh, _, err := svc.GenerateRefreshToken(uuid.New(), "a@example.com", "patient")
	require.NoError(t, err)

	_, err = svc.ValidateTokenOfType(refresh, jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrWrongTokenType)

	claims, err := svc.ValidateTokenOfType(refresh, jwt.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "centro-medico-plus", claims.Issuer)
	assert.Equal(t, claims.TokenID, claims.ID)
}
