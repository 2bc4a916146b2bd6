package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateValidateAccessToken(t *testing.T) {
	a := NewJWTAuthenticator("aud", "iss")

	token, err := a.GenerateAccessToken("user-1", "a@x.com", "alice", "secret", time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := a.ValidateAccessToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "user-1", claims.Subject)
	assert.NotEmpty(t, claims.ID, "tokens carry a jti")
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	a := NewJWTAuthenticator("aud", "iss")

	token, err := a.GenerateAccessToken("user-1", "a@x.com", "alice", "secret", time.Minute)
	require.NoError(t, err)

	_, err = a.ValidateAccessToken(token, "other-secret")
	assert.Error(t, err)
}

func TestValidateAccessToken_Expired(t *testing.T) {
	a := NewJWTAuthenticator("aud", "iss")

	token, err := a.GenerateAccessToken("user-1", "a@x.com", "alice", "secret", -time.Minute)
	require.NoError(t, err)

	_, err = a.ValidateAccessToken(token, "secret")
	assert.Error(t, err)
}

func TestValidateAccessToken_WrongAudience(t *testing.T) {
	a := NewJWTAuthenticator("aud", "iss")
	b := NewJWTAuthenticator("other-aud", "iss")

	token, err := a.GenerateAccessToken("user-1", "a@x.com", "alice", "secret", time.Minute)
	require.NoError(t, err)

	_, err = b.ValidateAccessToken(token, "secret")
	assert.Error(t, err)
}

func TestGenerateValidateRefreshToken(t *testing.T) {
	a := NewJWTAuthenticator("aud", "iss")

	token, err := a.GenerateRefreshToken("user-1", "refresh-secret", time.Hour)
	require.NoError(t, err)

	claims, err := a.ValidateRefreshToken(token, "refresh-secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)

	_, err = a.ValidateRefreshToken("garbage", "refresh-secret")
	assert.Error(t, err)
}
