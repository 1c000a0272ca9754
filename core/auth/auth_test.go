package auth

import (
	"testing"
	"time"

	"alujo/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIssuer(accessTTL time.Duration) *TokenIssuer {
	return NewTokenIssuer(&config.Config{
		JWTAccessSecret:  "access-secret",
		JWTRefreshSecret: "refresh-secret",
		AccessTokenTTL:   accessTTL,
		RefreshTokenTTL:  24 * time.Hour,
		ResetTokenTTL:    time.Hour,
	})
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, CheckPasswordHash("correct horse battery staple", hash))
	assert.False(t, CheckPasswordHash("wrong password", hash))
}

func TestAccessTokenRoundTrip(t *testing.T) {
	issuer := testIssuer(time.Hour)

	token, err := issuer.AccessToken("user-1")
	require.NoError(t, err)

	claims, err := issuer.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, TokenAccess, claims.Kind)
}

func TestRefreshTokenNotValidAsAccess(t *testing.T) {
	issuer := testIssuer(time.Hour)

	refresh, err := issuer.RefreshToken("user-1")
	require.NoError(t, err)

	// Different secret, so parsing as access must fail.
	_, err = issuer.ParseAccessToken(refresh)
	assert.Error(t, err)
}

func TestResetTokenKindEnforced(t *testing.T) {
	issuer := testIssuer(time.Hour)

	// Reset tokens share the access secret; the kind claim must still
	// keep them out of the access path.
	reset, err := issuer.ResetToken("user-1")
	require.NoError(t, err)

	_, err = issuer.ParseAccessToken(reset)
	assert.Error(t, err)

	claims, err := issuer.ParseResetToken(reset)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestExpiredTokenRejected(t *testing.T) {
	issuer := testIssuer(-time.Minute)

	token, err := issuer.AccessToken("user-1")
	require.NoError(t, err)

	_, err = issuer.ParseAccessToken(token)
	assert.Error(t, err)
}

func TestGarbageTokenRejected(t *testing.T) {
	issuer := testIssuer(time.Hour)
	_, err := issuer.ParseAccessToken("not.a.jwt")
	assert.Error(t, err)
}
