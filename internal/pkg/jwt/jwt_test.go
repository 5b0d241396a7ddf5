package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParse(t *testing.T) {
	token, err := Sign("user-1", time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, PurposeSession, claims.Purpose)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	token, err := Sign("user-1", -time.Minute)
	require.NoError(t, err)

	_, err = Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsTamperedToken(t *testing.T) {
	token, err := Sign("user-1", time.Minute)
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = Parse(tampered)
	assert.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse("not-a-token")
	assert.Error(t, err)
}

func TestParseForEnforcesPurpose(t *testing.T) {
	token, err := SignFor("user-1", PurposeConfirmEmail, time.Minute)
	require.NoError(t, err)

	claims, err := ParseFor(token, PurposeConfirmEmail)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)

	_, err = ParseFor(token, PurposeSession)
	assert.Error(t, err)

	_, err = ParseFor(token, PurposePasswordReset)
	assert.Error(t, err)
}

func TestParseForSessionRejectsResetToken(t *testing.T) {
	token, err := SignFor("user-1", PurposePasswordReset, time.Minute)
	require.NoError(t, err)

	_, err = ParseFor(token, PurposeSession)
	assert.Error(t, err)
}

func TestParseForMissingPurposeDefaultsToSession(t *testing.T) {
	token, err := SignFor("user-1", "", time.Minute)
	require.NoError(t, err)

	claims, err := ParseFor(token, PurposeSession)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}
