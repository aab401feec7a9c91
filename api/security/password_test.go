package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	Cost = bcrypt.MinCost

	hashed, err := Hash("password")
	require.NoError(t, err)
	assert.NotEqual(t, "password", string(hashed))
	assert.True(t, IsHash(string(hashed)))

	assert.NoError(t, VerifyPassword(string(hashed), "password"))
	assert.ErrorIs(t, VerifyPassword(string(hashed), "wrong"), bcrypt.ErrMismatchedHashAndPassword)
}

func TestIsHashRejectsPlainText(t *testing.T) {
	assert.False(t, IsHash("password"))
	assert.False(t, IsHash(""))
}
