package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_VerifiesAndDiffersFromPlain(t *testing.T) {
	for _, pw := range []string{"secret", "p@ssw0rd!", "一二三四"} {
		h, err := HashPassword(pw)
		require.NoError(t, err)
		assert.NotEqual(t, pw, h)
		assert.True(t, CheckPassword(pw, h))
		assert.False(t, CheckPassword(pw+"x", h))
	}
}

func TestHashPassword_Salted(t *testing.T) {
	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestCheckPassword_EmptyHash(t *testing.T) {
	assert.False(t, CheckPassword("", ""))
}

func TestNewID(t *testing.T) {
	id := NewID()
	assert.Len(t, id, 32)
	assert.NotEqual(t, id, NewID())
}
