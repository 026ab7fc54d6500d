package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fruitflow/backend/internal/infrastructure/config"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-secret",
		Issuer:                 "fruitflow-test",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		MaxRefreshCount:        3,
	})
}

func TestGenerateAndValidateTokenPair(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{
		UserID:   userID,
		Email:    "owner@example.com",
		Approved: true,
		Admin:    false,
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "owner@example.com", claims.Email)
	assert.True(t, claims.Approved)
	assert.False(t, claims.Admin)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)

	parsed, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)

	refreshClaims, err := svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, refreshClaims.TokenType)
	assert.Equal(t, 0, refreshClaims.RefreshCount)
}

func TestValidateAccessTokenRejectsRefreshToken(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(GenerateTokenInput{UserID: uuid.New()})
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)

	_, err = svc.ValidateRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestValidateAccessTokenRejectsWrongSecret(t *testing.T) {
	svc := newTestJWTService()
	other := NewJWTService(config.JWTConfig{
		Secret:                 "different-secret",
		Issuer:                 "fruitflow-test",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
	})

	pair, err := other.GenerateTokenPair(GenerateTokenInput{UserID: uuid.New()})
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAccessTokenExpired(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{
		Secret:                 "test-secret",
		Issuer:                 "fruitflow-test",
		AccessTokenExpiration:  -time.Minute,
		RefreshTokenExpiration: time.Hour,
	})

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{UserID: uuid.New()})
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateAccessTokenGarbage(t *testing.T) {
	svc := newTestJWTService()
	_, err := svc.ValidateAccessToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenPair(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	pair, err := svc.GenerateTokenPair(GenerateTokenInput{
		UserID:   userID,
		Email:    "owner@example.com",
		Approved: false,
	})
	require.NoError(t, err)

	t.Run("rotation carries updated flags", func(t *testing.T) {
		rotated, err := svc.RefreshTokenPair(pair.RefreshToken, "owner@example.com", true, true)
		require.NoError(t, err)

		claims, err := svc.ValidateAccessToken(rotated.AccessToken)
		require.NoError(t, err)
		assert.True(t, claims.Approved)
		assert.True(t, claims.Admin)

		refreshClaims, err := svc.ValidateRefreshToken(rotated.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, 1, refreshClaims.RefreshCount)
	})

	t.Run("rotation limit", func(t *testing.T) {
		current := pair.RefreshToken
		for i := 0; i < 3; i++ {
			rotated, err := svc.RefreshTokenPair(current, "owner@example.com", true, false)
			require.NoError(t, err)
			current = rotated.RefreshToken
		}

		_, err := svc.RefreshTokenPair(current, "owner@example.com", true, false)
		assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
	})

	t.Run("access token cannot rotate", func(t *testing.T) {
		_, err := svc.RefreshTokenPair(pair.AccessToken, "owner@example.com", true, false)
		assert.ErrorIs(t, err, ErrInvalidTokenType)
	})
}

func TestInMemoryTokenBlacklist(t *testing.T) {
	ctx := context.Background()

	t.Run("blacklisted jti is rejected until expiry", func(t *testing.T) {
		blacklist := NewInMemoryTokenBlacklist()

		require.NoError(t, blacklist.AddToBlacklist(ctx, "jti-1", time.Minute))
		blocked, err := blacklist.IsBlacklisted(ctx, "jti-1")
		require.NoError(t, err)
		assert.True(t, blocked)

		blocked, err = blacklist.IsBlacklisted(ctx, "jti-unknown")
		require.NoError(t, err)
		assert.False(t, blocked)
	})

	t.Run("expired blacklist entries are pruned", func(t *testing.T) {
		blacklist := NewInMemoryTokenBlacklist()

		require.NoError(t, blacklist.AddToBlacklist(ctx, "jti-2", -time.Second))
		blocked, err := blacklist.IsBlacklisted(ctx, "jti-2")
		require.NoError(t, err)
		assert.False(t, blocked)
	})

	t.Run("user-wide invalidation rejects older tokens only", func(t *testing.T) {
		blacklist := NewInMemoryTokenBlacklist()
		issuedBefore := time.Now().Add(-time.Minute)

		require.NoError(t, blacklist.AddUserTokensToBlacklist(ctx, "user-1", time.Hour))

		invalidated, err := blacklist.IsUserTokenInvalidated(ctx, "user-1", issuedBefore)
		require.NoError(t, err)
		assert.True(t, invalidated)

		invalidated, err = blacklist.IsUserTokenInvalidated(ctx, "user-1", time.Now().Add(time.Minute))
		require.NoError(t, err)
		assert.False(t, invalidated)

		invalidated, err = blacklist.IsUserTokenInvalidated(ctx, "user-2", issuedBefore)
		require.NoError(t, err)
		assert.False(t, invalidated)
	})
}
