package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHashAndCompareHash(t *testing.T) {
	hash, err := GetHash("Password1")
	require.NoError(t, err)
	assert.NotEqual(t, "Password1", hash)

	assert.NoError(t, CompareHash(hash, "Password1"))
	assert.Error(t, CompareHash(hash, "password1"))
	assert.Error(t, CompareHash(hash, ""))
}

func TestGetHashIsSalted(t *testing.T) {
	first, err := GetHash("Password1")
	require.NoError(t, err)
	second, err := GetHash("Password1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.NoError(t, CompareHash(first, "Password1"))
	assert.NoError(t, CompareHash(second, "Password1"))
}
