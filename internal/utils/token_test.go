package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	tok, err := NewSessionToken("secret", 7, "grace", "admin", 30)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)

	claims, err := ParseSessionToken("secret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), claims.UserID)
	assert.Equal(t, "grace", claims.Username)
	assert.Equal(t, "admin", claims.Role)
}

func TestParseSessionTokenRejectsWrongSecret(t *testing.T) {
	tok, err := NewSessionToken("secret", 7, "grace", "admin", 30)
	require.NoError(t, err)

	_, err = ParseSessionToken("another", tok.Token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestParseSessionTokenRejectsGarbage(t *testing.T) {
	_, err := ParseSessionToken("secret", "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestParseSessionTokenRejectsExpired(t *testing.T) {
	tok, err := NewSessionToken("secret", 7, "grace", "user", -5)
	require.NoError(t, err)

	_, err = ParseSessionToken("secret", tok.Token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}
