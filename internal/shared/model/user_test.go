package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleOf(t *testing.T) {
	assert.Equal(t, UserRoleAdmin, RoleOf(Document{"role": "admin"}))
	assert.Equal(t, UserRoleTeacher, RoleOf(Document{"role": "teacher"}))
	assert.Equal(t, UserRoleUnset, RoleOf(Document{"email": "a@school.edu"}))
	assert.Equal(t, UserRoleUnset, RoleOf(Document{"role": 1}))
	assert.Equal(t, UserRoleUnset, RoleOf(nil))
}

func TestHasRole_CaseSensitive(t *testing.T) {
	assert.True(t, HasRole(Document{"role": "admin"}, UserRoleAdmin))
	assert.False(t, HasRole(Document{"role": "Admin"}, UserRoleAdmin))
	assert.False(t, HasRole(nil, UserRoleAdmin))
	assert.False(t, HasRole(Document{}, UserRoleAdmin))
}

func TestEmailOf(t *testing.T) {
	assert.Equal(t, "a@school.edu", EmailOf(Document{"email": "a@school.edu"}))
	assert.Equal(t, "", EmailOf(Document{}))
	assert.Equal(t, "", EmailOf(nil))
}
