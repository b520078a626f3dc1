package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashPasswordDeterministic(t *testing.T) {
	// Stored rows depend on the digest never changing for a given input pair.
	assert.Equal(t,
		HashPassword("secret", "salt"),
		HashPassword("secret", "salt"))

	// sha256("secretsalt")
	assert.Equal(t,
		"f84fa2149dbb62ed4e0cf1f550d2949b33a6513d3a7707e08502511c79ccb0ee",
		HashPassword("secret", "salt"))

	assert.NotEqual(t, HashPassword("secret", "salt"), HashPassword("secret", "other"))
	assert.NotEqual(t, HashPassword("secret", "salt"), HashPassword("other", "salt"))
}

func TestVerifyPassword(t *testing.T) {
	stored := HashPassword("secret", "salt")

	assert.True(t, VerifyPassword("secret", "salt", stored))
	assert.False(t, VerifyPassword("wrong", "salt", stored))
	assert.False(t, VerifyPassword("secret", "wrong", stored))
	assert.False(t, VerifyPassword("secret", "salt", ""))
}
