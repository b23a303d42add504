package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseSessionToken(t *testing.T) {
	t.Parallel()

	token, err := GenerateSessionToken("secret", "u1", "s1", "admin", "Alice", "alice@example.com", time.Hour)
	require.NoError(t, err)

	claims, err := ParseSessionToken(token, "secret")
	require.NoError(t, err)

	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "s1", claims.SessionID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "Alice", claims.Name)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestParseSessionToken_WrongSecret(t *testing.T) {
	t.Parallel()

	token, err := GenerateSessionToken("right", "u1", "s1", "user", "", "", time.Hour)
	require.NoError(t, err)

	_, err = ParseSessionToken(token, "wrong")
	assert.Error(t, err)
}

func TestParseSessionToken_Expired(t *testing.T) {
	t.Parallel()

	token, err := GenerateSessionToken("secret", "u1", "s1", "user", "", "", -time.Minute)
	require.NoError(t, err)

	_, err = ParseSessionToken(token, "secret")
	assert.Error(t, err)
}

func TestParseSessionToken_Malformed(t *testing.T) {
	t.Parallel()

	_, err := ParseSessionToken("not.a.jwt", "secret")
	assert.Error(t, err)
}
