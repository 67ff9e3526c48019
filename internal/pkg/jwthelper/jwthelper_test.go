package jwthelper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var key = []byte("test-signing-key")

func TestGenerateAndParseToken(t *testing.T) {
	token, claims, err := GenerateToken(key, 7, "curl/8.0", time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)

	parsed, err := ParseToken(key, token, PurposeSession)
	require.NoError(t, err)
	assert.Equal(t, uint(7), parsed.AdminID)
	assert.Equal(t, "7", parsed.Subject)
	assert.Equal(t, claims.ID, parsed.ID)
	assert.Equal(t, "curl/8.0", parsed.UserAgent)
}

func TestParseToken_Expired(t *testing.T) {
	token, _, err := GenerateToken(key, 1, "", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(key, token, PurposeSession)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_WrongKey(t *testing.T) {
	token, _, err := GenerateToken(key, 1, "", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken([]byte("other"), token, PurposeSession)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_WrongPurpose(t *testing.T) {
	token, err := GenerateDownloadToken(key, 12, time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(key, token, PurposeSession)
	assert.ErrorIs(t, err, ErrWrongPurpose)

	claims, err := ParseToken(key, token, PurposeDownload)
	require.NoError(t, err)
	assert.Equal(t, uint(12), claims.ResultID)
}
