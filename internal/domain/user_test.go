package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"master_admin", "dept_admin", "staff", "user"} {
		role, err := ParseRole(valid)
		require.NoError(t, err, valid)
		assert.Equal(t, Role(valid), role)
	}
	for _, invalid := range []string{"admin", "MASTER_ADMIN", "", "superuser"} {
		_, err := ParseRole(invalid)
		assert.Error(t, err, invalid)
	}
}

func TestRoleFlags(t *testing.T) {
	assert.True(t, RoleMasterAdmin.IsStaffRole())
	assert.True(t, RoleDeptAdmin.IsStaffRole())
	assert.True(t, RoleStaff.IsStaffRole())
	assert.False(t, RoleUser.IsStaffRole())

	assert.True(t, RoleMasterAdmin.IsSuperuser())
	assert.False(t, RoleDeptAdmin.IsSuperuser())
	assert.False(t, RoleStaff.IsSuperuser())
	assert.False(t, RoleUser.IsSuperuser())
}

func TestRoleDisplay(t *testing.T) {
	assert.Equal(t, "Master Admin", RoleMasterAdmin.Display())
	assert.Equal(t, "Dept Admin", RoleDeptAdmin.Display())
	assert.Equal(t, "Staff", RoleStaff.Display())
	assert.Equal(t, "User", RoleUser.Display())
}
