package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	token, err := Generate("secret", "user-1", "admin", "billing-api", 5)
	require.NoError(t, err)

	userID, role, err := Parse("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "admin", role)
}

func TestParse_Rejects(t *testing.T) {
	token, err := Generate("secret", "user-1", "seller", "billing-api", 5)
	require.NoError(t, err)

	_, _, err = Parse("otro", token)
	assert.Error(t, err)

	expired, err := Generate("secret", "user-1", "seller", "billing-api", -1)
	require.NoError(t, err)
	_, _, err = Parse("secret", expired)
	assert.Error(t, err)

	_, _, err = Parse("", token)
	assert.Error(t, err)

	_, err = Generate("", "user-1", "seller", "billing-api", 5)
	assert.Error(t, err)
}
