package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaker_GenerateAndParse(t *testing.T) {
	maker := NewMaker("test-secret", time.Hour)

	tokenStr, err := maker.GenerateToken(7, 3, "admin@example.com", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, tokenStr)

	claims, err := maker.ParseToken(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, 3, claims.TenantID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}

func TestMaker_ParseExpiredToken(t *testing.T) {
	maker := NewMaker("test-secret", -time.Minute)

	tokenStr, err := maker.GenerateToken(1, 1, "admin@example.com", "admin")
	require.NoError(t, err)

	_, err = maker.ParseToken(tokenStr)
	assert.Error(t, err)
}

func TestMaker_ParseWithWrongSecret(t *testing.T) {
	maker := NewMaker("test-secret", time.Hour)
	other := NewMaker("another-secret", time.Hour)

	tokenStr, err := maker.GenerateToken(1, 1, "admin@example.com", "master")
	require.NoError(t, err)

	_, err = other.ParseToken(tokenStr)
	assert.Error(t, err)
}
