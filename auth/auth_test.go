package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.NoError(t, ComparePassword(hash, "correct horse battery staple"))
	assert.Error(t, ComparePassword(hash, "wrong password"))
}

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateToken(secret, 42, time.Hour)
	require.NoError(t, err)

	userID, err := ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestParseTokenRejectsBadInput(t *testing.T) {
	secret := []byte("test-secret")

	_, err := ParseToken(secret, "not.a.token")
	assert.Error(t, err)

	// Wrong secret.
	token, err := GenerateToken([]byte("other-secret"), 7, time.Hour)
	require.NoError(t, err)
	_, err = ParseToken(secret, token)
	assert.Error(t, err)

	// Expired.
	token, err = GenerateToken(secret, 7, -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(secret, token)
	assert.Error(t, err)
}

func TestParseTokenRejectsOtherSigningMethods(t *testing.T) {
	secret := []byte("test-secret")

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "7",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS384, claims).SignedString(secret)
	require.NoError(t, err)

	_, err = ParseToken(secret, token)
	assert.Error(t, err)
}
