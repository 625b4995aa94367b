package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionToken_RoundTrip(t *testing.T) {
	token, err := GenerateSessionToken("secret", "u1", "u1@test.local")
	require.NoError(t, err)

	claims, err := VerifySessionToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "u1@test.local", claims.Email)
}

func TestSessionToken_WrongSecret(t *testing.T) {
	token, err := GenerateSessionToken("secret", "u1", "")
	require.NoError(t, err)

	_, err = VerifySessionToken("other-secret", token)
	assert.Error(t, err)
}

func TestSessionToken_Expired(t *testing.T) {
	token, err := GenerateSessionToken("secret", "u1", "", -time.Minute)
	require.NoError(t, err)

	_, err = VerifySessionToken("secret", token)
	assert.Error(t, err)
}

func TestSessionToken_Garbage(t *testing.T) {
	_, err := VerifySessionToken("secret", "not.a.jwt")
	assert.Error(t, err)
}
