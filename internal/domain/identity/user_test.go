package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	u, err := NewUser(" minh ", " Minh@Example.com ", RoleStaff)
	require.NoError(t, err)
	assert.Equal(t, "minh", u.Username)
	assert.Equal(t, "minh@example.com", u.Email)
	assert.Equal(t, UserStatusActive, u.Status)
	assert.Equal(t, 1, u.Version)

	_, err = NewUser("", "x@example.com", RoleStaff)
	assert.Error(t, err)
	_, err = NewUser("minh", "x@example.com", Role("root"))
	assert.Error(t, err)
}

func TestUser_Apply(t *testing.T) {
	t.Run("changes role and status", func(t *testing.T) {
		u, err := NewUser("minh", "", RoleCustomer)
		require.NoError(t, err)
		role := RoleAdmin
		status := UserStatusLocked

		require.NoError(t, u.Apply(AccessChanges{Role: &role, Status: &status}))
		assert.Equal(t, RoleAdmin, u.Role)
		assert.Equal(t, UserStatusLocked, u.Status)
		assert.Equal(t, 2, u.Version)
	})

	t.Run("rejects empty and unknown values", func(t *testing.T) {
		u, err := NewUser("minh", "", RoleCustomer)
		require.NoError(t, err)
		assert.Error(t, u.Apply(AccessChanges{}))

		bad := UserStatus("banned")
		assert.Error(t, u.Apply(AccessChanges{Status: &bad}))
		assert.Equal(t, 1, u.Version)
	})
}
