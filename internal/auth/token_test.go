package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svn-hms/complaint-service/internal/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:       "8a2c8a1e-0000-0000-0000-000000000001",
		Username: "jdoe",
		Role:     domain.RoleStaff,
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 10*time.Minute, time.Hour)

	token, expiresAt, err := tm.GenerateAccessToken(testUser())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), expiresAt, 5*time.Second)

	claims, err := tm.ParseToken(token, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "8a2c8a1e-0000-0000-0000-000000000001", claims.UserID)
	assert.Equal(t, "jdoe", claims.Username)
	assert.Equal(t, domain.RoleStaff, claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 10*time.Minute, time.Hour)

	token, expiresAt, err := tm.GenerateRefreshToken(testUser())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := tm.ParseToken(token, TokenTypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
}

func TestParseTokenRejectsWrongType(t *testing.T) {
	tm := NewTokenManager("test-secret", 10*time.Minute, time.Hour)

	access, _, err := tm.GenerateAccessToken(testUser())
	require.NoError(t, err)
	refresh, _, err := tm.GenerateRefreshToken(testUser())
	require.NoError(t, err)

	_, err = tm.ParseToken(access, TokenTypeRefresh)
	assert.Error(t, err)
	_, err = tm.ParseToken(refresh, TokenTypeAccess)
	assert.Error(t, err)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager("test-secret", 10*time.Minute, time.Hour)
	other := NewTokenManager("other-secret", 10*time.Minute, time.Hour)

	token, _, err := tm.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = other.ParseToken(token, TokenTypeAccess)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	tm := &TokenManager{secret: []byte("test-secret"), accessTTL: -time.Minute, refreshTTL: time.Hour}

	token, _, err := tm.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = tm.ParseToken(token, TokenTypeAccess)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", 10*time.Minute, time.Hour)
	_, err := tm.ParseToken("not.a.jwt", TokenTypeAccess)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-password", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-password", hash)

	assert.NoError(t, ComparePassword(hash, "s3cret-password"))
	assert.Error(t, ComparePassword(hash, "wrong-password"))
}
