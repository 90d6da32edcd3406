package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDepartment(t *testing.T) {
	t.Run("creates active department with uppercase code", func(t *testing.T) {
		dept, err := NewDepartment("ops", "Operations")

		require.NoError(t, err)
		assert.Equal(t, "OPS", dept.Code)
		assert.Equal(t, "Operations", dept.Name)
		assert.True(t, dept.IsActive())
	})

	t.Run("rejects invalid codes", func(t *testing.T) {
		cases := []string{"", "a", "1ops", "op s"}
		for _, code := range cases {
			_, err := NewDepartment(code, "Operations")
			assert.Error(t, err, "code %q", code)
		}
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewDepartment("ops", "")
		assert.Error(t, err)
	})
}

func TestDepartmentLifecycle(t *testing.T) {
	dept, _ := NewDepartment("ops", "Operations")

	assert.Error(t, dept.Activate())

	require.NoError(t, dept.Deactivate())
	assert.False(t, dept.IsActive())
	assert.Error(t, dept.Deactivate())

	require.NoError(t, dept.Activate())
	assert.True(t, dept.IsActive())
}

func TestDepartmentSetManager(t *testing.T) {
	dept, _ := NewDepartment("ops", "Operations")
	managerID := uuid.New()

	dept.SetManager(&managerID)
	require.NotNil(t, dept.ManagerID)
	assert.Equal(t, managerID, *dept.ManagerID)

	dept.SetManager(nil)
	assert.Nil(t, dept.ManagerID)
}
