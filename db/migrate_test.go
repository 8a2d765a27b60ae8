package db

import (
	"testing"

	"github.com/clinicdesk/appointment-server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRolesCoverEveryRoleConstant(t *testing.T) {
	roles := defaultRoles()
	require.Len(t, roles, 3)

	names := make(map[string]bool, len(roles))
	for _, role := range roles {
		names[role.Name] = true
		assert.NotEmpty(t, role.Description, "role %q needs a description", role.Name)
	}

	assert.True(t, names[models.RoleAdmin])
	assert.True(t, names[models.RoleDoctor])
	assert.True(t, names[models.RolePatient])
}
