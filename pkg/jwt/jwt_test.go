package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndValidateRoundTrip(t *testing.T) {
	payload := CreateTokenPayload("user-1", "rand-1", time.Now().Add(time.Hour), false)

	token, err := GenerateJwt(testSecret, payload)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := ValidateToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", parsed.UserID)
	assert.Equal(t, "rand-1", parsed.Random)
	assert.False(t, parsed.IsRefresh)
}

func TestRefreshFlagSurvivesRoundTrip(t *testing.T) {
	payload := CreateTokenPayload("user-1", "rand-2", time.Now().Add(time.Hour), true)

	token, err := GenerateJwt(testSecret, payload)
	require.NoError(t, err)

	parsed, err := ValidateToken(testSecret, token)
	require.NoError(t, err)
	assert.True(t, parsed.IsRefresh)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	payload := CreateTokenPayload("user-1", "rand-3", time.Now().Add(-time.Minute), false)

	token, err := GenerateJwt(testSecret, payload)
	require.NoError(t, err)

	_, err = ValidateToken(testSecret, token)
	assert.Error(t, err)
}

func TestWrongSecretIsRejected(t *testing.T) {
	payload := CreateTokenPayload("user-1", "rand-4", time.Now().Add(time.Hour), false)

	token, err := GenerateJwt(testSecret, payload)
	require.NoError(t, err)

	_, err = ValidateToken("other-secret", token)
	assert.Error(t, err)
}

func TestGarbageTokenIsRejected(t *testing.T) {
	_, err := ValidateToken(testSecret, "not.a.token")
	assert.Error(t, err)
}
