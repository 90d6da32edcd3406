package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates active user with hashed password", func(t *testing.T) {
		user, err := NewUser("jdoe", "Secret123")

		require.NoError(t, err)
		assert.Equal(t, "jdoe", user.Username)
		assert.Equal(t, UserStatusActive, user.Status)
		assert.NotEqual(t, "Secret123", user.PasswordHash)
		assert.True(t, user.VerifyPassword("Secret123"))
		assert.Len(t, user.GetDomainEvents(), 1)
	})

	t.Run("lowercases username", func(t *testing.T) {
		user, err := NewUser("JDoe", "Secret123")

		require.NoError(t, err)
		assert.Equal(t, "jdoe", user.Username)
	})

	t.Run("rejects short username", func(t *testing.T) {
		user, err := NewUser("ab", "Secret123")

		assert.Error(t, err)
		assert.Nil(t, user)
	})

	t.Run("rejects invalid username characters", func(t *testing.T) {
		_, err := NewUser("john doe", "Secret123")

		assert.Error(t, err)
	})

	t.Run("rejects weak passwords", func(t *testing.T) {
		cases := []struct {
			name     string
			password string
		}{
			{"too short", "Ab1"},
			{"no number", "Secretpass"},
			{"no letter", "12345678"},
			{"empty", ""},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := NewUser("jdoe", tc.password)
				assert.Error(t, err)
			})
		}
	})
}

func TestUserSetEmail(t *testing.T) {
	user, _ := NewUser("jdoe", "Secret123")

	t.Run("accepts valid email", func(t *testing.T) {
		require.NoError(t, user.SetEmail("John.Doe@Example.com"))
		assert.Equal(t, "john.doe@example.com", user.Email)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		assert.Error(t, user.SetEmail("not-an-email"))
	})

	t.Run("allows clearing email", func(t *testing.T) {
		require.NoError(t, user.SetEmail(""))
		assert.Empty(t, user.Email)
	})
}

func TestUserPassword(t *testing.T) {
	t.Run("change password with correct current password", func(t *testing.T) {
		user, _ := NewUser("jdoe", "Secret123")

		err := user.ChangePassword("Secret123", "NewSecret456")

		require.NoError(t, err)
		assert.True(t, user.VerifyPassword("NewSecret456"))
		assert.False(t, user.VerifyPassword("Secret123"))
	})

	t.Run("rejects change with wrong current password", func(t *testing.T) {
		user, _ := NewUser("jdoe", "Secret123")

		err := user.ChangePassword("Wrong999", "NewSecret456")

		assert.Error(t, err)
		assert.True(t, user.VerifyPassword("Secret123"))
	})

	t.Run("admin reset skips current password check", func(t *testing.T) {
		user, _ := NewUser("jdoe", "Secret123")
		user.ClearDomainEvents()

		require.NoError(t, user.SetPassword("Reset789x"))

		assert.True(t, user.VerifyPassword("Reset789x"))
		assert.Len(t, user.GetDomainEvents(), 1)
	})
}

func TestUserRoles(t *testing.T) {
	roleA := uuid.New()
	roleB := uuid.New()

	t.Run("assign and remove roles", func(t *testing.T) {
		user, _ := NewUser("jdoe", "Secret123")

		require.NoError(t, user.AssignRole(roleA))
		require.NoError(t, user.AssignRole(roleB))
		assert.True(t, user.HasRole(roleA))

		require.NoError(t, user.RemoveRole(roleA))
		assert.False(t, user.HasRole(roleA))
		assert.True(t, user.HasRole(roleB))
	})

	t.Run("rejects duplicate assignment", func(t *testing.T) {
		user, _ := NewUser("jdoe", "Secret123")
		require.NoError(t, user.AssignRole(roleA))

		assert.Error(t, user.AssignRole(roleA))
	})

	t.Run("rejects removing unassigned role", func(t *testing.T) {
		user, _ := NewUser("jdoe", "Secret123")

		assert.Error(t, user.RemoveRole(roleA))
	})

	t.Run("set roles deduplicates", func(t *testing.T) {
		user, _ := NewUser("jdoe", "Secret123")

		require.NoError(t, user.SetRoles([]uuid.UUID{roleA, roleB, roleA}))

		assert.Len(t, user.RoleIDs, 2)
	})
}

func TestUserStatus(t *testing.T) {
	t.Run("deactivate blocks login", func(t *testing.T) {
		user, _ := NewUser("jdoe", "Secret123")

		require.NoError(t, user.Deactivate())

		assert.Equal(t, UserStatusDeactivated, user.Status)
		assert.False(t, user.CanLogin())
	})

	t.Run("reactivate restores login", func(t *testing.T) {
		user, _ := NewUser("jdoe", "Secret123")
		require.NoError(t, user.Deactivate())

		require.NoError(t, user.Activate())

		assert.True(t, user.CanLogin())
	})

	t.Run("rejects redundant transitions", func(t *testing.T) {
		user, _ := NewUser("jdoe", "Secret123")

		assert.Error(t, user.Activate())
		require.NoError(t, user.Deactivate())
		assert.Error(t, user.Deactivate())
	})
}

func TestUserRecordLoginSuccess(t *testing.T) {
	user, _ := NewUser("jdoe", "Secret123")

	user.RecordLoginSuccess("203.0.113.10")

	require.NotNil(t, user.LastLoginAt)
	assert.Equal(t, "203.0.113.10", user.LastLoginIP)
}

func TestGetDisplayNameOrUsername(t *testing.T) {
	user, _ := NewUser("jdoe", "Secret123")
	assert.Equal(t, "jdoe", user.GetDisplayNameOrUsername())

	require.NoError(t, user.SetDisplayName("John Doe"))
	assert.Equal(t, "John Doe", user.GetDisplayNameOrUsername())
}
