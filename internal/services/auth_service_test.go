package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-toudou/internal/services"
)

func newAuthService(t *testing.T) *services.AuthService {
	t.Helper()
	adminHash, err := services.HashPassword("admin")
	require.NoError(t, err)
	userHash, err := services.HashPassword("user")
	require.NoError(t, err)

	return services.NewAuthService(map[string]string{
		"admin": adminHash,
		"user":  userHash,
	})
}

func TestVerifyCredentials(t *testing.T) {
	auth := newAuthService(t)

	assert.True(t, auth.VerifyCredentials("admin", "admin"))
	assert.True(t, auth.VerifyCredentials("user", "user"))
	assert.False(t, auth.VerifyCredentials("admin", "wrong"))
	assert.False(t, auth.VerifyCredentials("user", "admin"))
	assert.False(t, auth.VerifyCredentials("nobody", "admin"))
	assert.False(t, auth.VerifyCredentials("", ""))
}

func TestRoleOf_UsernameEquality(t *testing.T) {
	auth := newAuthService(t)

	// ロールはユーザー名が "admin" と完全一致するかどうかだけで決まる
	assert.Equal(t, services.RoleAdmin, auth.RoleOf("admin"))
	assert.Equal(t, services.RoleUser, auth.RoleOf("user"))
	assert.Equal(t, services.RoleUser, auth.RoleOf("Admin"))
	assert.Equal(t, services.RoleUser, auth.RoleOf("administrator"))
	assert.Equal(t, services.RoleUser, auth.RoleOf("superadmin"))
}

func TestDefaultCredentials(t *testing.T) {
	credentials, err := services.DefaultCredentials()
	require.NoError(t, err)
	require.Len(t, credentials, 2)

	auth := services.NewAuthService(credentials)
	assert.True(t, auth.VerifyCredentials("admin", "admin"))
	assert.True(t, auth.VerifyCredentials("user", "user"))
}
