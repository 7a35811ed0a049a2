package jwt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	Init("test-secret-at-least-32-characters!!", 15, 24)

	token, err := GenerateAccessToken("u1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, "u1", claims.UserID)
	require.Equal(t, "access_token", claims.Subject)
	require.Equal(t, "linkup_dm", claims.Issuer)
	require.Empty(t, claims.TokenID)
}

func TestRefreshTokenSubject(t *testing.T) {
	Init("test-secret-at-least-32-characters!!", 15, 24)

	token, tokenID, err := GenerateRefreshToken("u1")
	require.NoError(t, err)
	require.NotEmpty(t, tokenID)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, "u1", claims.UserID)
	// Refresh Token 不能当 Access Token 用，靠 Subject 区分
	require.Equal(t, "refresh_token", claims.Subject)
	require.Equal(t, tokenID, claims.TokenID)
}

func TestParseRejectsGarbage(t *testing.T) {
	Init("test-secret-at-least-32-characters!!", 15, 24)

	_, err := ParseToken("not-a-token")
	require.Error(t, err)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	Init("secret-one-aaaaaaaaaaaaaaaaaaaaaaaaa", 15, 24)
	token, err := GenerateAccessToken("u1")
	require.NoError(t, err)

	Init("secret-two-bbbbbbbbbbbbbbbbbbbbbbbbb", 15, 24)
	_, err = ParseToken(token)
	require.Error(t, err)
}
