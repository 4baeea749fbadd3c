package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	db := setupDB(t)
	svc := NewAuthService(db, "test-secret")

	token, err := svc.Register("Pat", "pat@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = svc.Register("Pat Again", "pat@example.com", "hunter2hunter2")
	assert.ErrorIs(t, err, ErrUserExists)

	token, err = svc.Login("pat@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = svc.Login("pat@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateToken(t *testing.T) {
	db := setupDB(t)
	svc := NewAuthService(db, "test-secret")

	token, err := svc.Register("Pat", "pat2@example.com", "hunter2hunter2")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "Pat", claims.Name)
	assert.NotEqual(t, claims.UserID.String(), "00000000-0000-0000-0000-000000000000")
}

func TestValidateTokenInvalid(t *testing.T) {
	svc := NewAuthService(nil, "test-secret")

	claims, err := svc.ValidateToken("invalid.token")
	assert.Error(t, err)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
