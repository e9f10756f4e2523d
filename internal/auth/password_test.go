package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOneTimePassword(t *testing.T) {
	password, err := GenerateOneTimePassword()
	require.NoError(t, err)

	assert.Len(t, password, OneTimePasswordLength)
	for _, c := range password {
		assert.True(t, strings.ContainsRune(passwordAlphabet, c), "unexpected character %q", c)
	}
}

func TestGenerateOneTimePassword_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		password, err := GenerateOneTimePassword()
		require.NoError(t, err)
		assert.False(t, seen[password], "generated password repeated")
		seen[password] = true
	}
}
