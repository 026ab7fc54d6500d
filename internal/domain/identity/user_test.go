package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("signup starts pending", func(t *testing.T) {
		u, err := NewUser("Owner@Example.com", "secret-pass", "Owner")
		require.NoError(t, err)
		assert.Equal(t, "owner@example.com", u.Email)
		assert.Equal(t, UserStatusPending, u.Status)
		assert.False(t, u.IsApproved())
		assert.False(t, u.IsAdmin())
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := NewUser("owner@example.com", "short", "")
		assert.Error(t, err)
	})

	t.Run("rejects bad email", func(t *testing.T) {
		_, err := NewUser("not-an-email", "secret-pass", "")
		assert.Error(t, err)
	})
}

func TestUserPassword(t *testing.T) {
	u, err := NewUser("owner@example.com", "secret-pass", "")
	require.NoError(t, err)

	t.Run("verify accepts the right password", func(t *testing.T) {
		assert.True(t, u.VerifyPassword("secret-pass"))
		assert.False(t, u.VerifyPassword("wrong-pass"))
	})

	t.Run("change password invalidates the old one", func(t *testing.T) {
		require.NoError(t, u.ChangePassword("another-pass"))
		assert.False(t, u.VerifyPassword("secret-pass"))
		assert.True(t, u.VerifyPassword("another-pass"))
	})
}

func TestUserApproval(t *testing.T) {
	t.Run("approve activates and stamps time", func(t *testing.T) {
		u, err := NewUser("owner@example.com", "secret-pass", "")
		require.NoError(t, err)

		require.NoError(t, u.Approve())
		assert.True(t, u.IsApproved())
		assert.NotNil(t, u.ApprovedAt)

		assert.Error(t, u.Approve())
	})

	t.Run("admin flag requires active status", func(t *testing.T) {
		u, err := NewUser("owner@example.com", "secret-pass", "")
		require.NoError(t, err)

		u.GrantAdmin()
		assert.False(t, u.IsAdmin(), "pending user is never an effective admin")

		require.NoError(t, u.Approve())
		assert.True(t, u.IsAdmin())

		u.RevokeAdmin()
		assert.False(t, u.IsAdmin())
	})

	t.Run("deactivate locks the account", func(t *testing.T) {
		u, err := NewUser("owner@example.com", "secret-pass", "")
		require.NoError(t, err)
		require.NoError(t, u.Approve())

		require.NoError(t, u.Deactivate())
		assert.False(t, u.IsApproved())
		assert.Error(t, u.Deactivate())
	})
}
