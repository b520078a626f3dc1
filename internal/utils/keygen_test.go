package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSessionToken(t *testing.T) {
	token, err := GenerateSessionToken()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(token, "sess_"))
	assert.Len(t, token, len("sess_")+64)
	assert.False(t, IsPendingToken(token))

	other, err := GenerateSessionToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestGeneratePendingToken(t *testing.T) {
	token, err := GeneratePendingToken()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(token, "pending-2fa_"))
	assert.Len(t, token, len("pending-2fa_")+64)
	assert.True(t, IsPendingToken(token))
}

func TestIsPendingToken(t *testing.T) {
	assert.True(t, IsPendingToken("pending-2fa_abc"))
	assert.False(t, IsPendingToken("sess_abc"))
	assert.False(t, IsPendingToken("pending-2fa"), "prefix without separator does not count")
	assert.False(t, IsPendingToken(""))
}
