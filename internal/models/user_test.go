package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidRole(t *testing.T) {
	assert.True(t, IsValidRole(RoleAdmin))
	assert.True(t, IsValidRole(RoleMechanic))
	assert.True(t, IsValidRole(RoleSupervisor))
	assert.False(t, IsValidRole("manager"))
	assert.False(t, IsValidRole(""))
}

func TestUser_HasPermission(t *testing.T) {
	admin := &User{Role: RoleAdmin}
	assert.True(t, admin.HasPermission("manage_users"))
	assert.True(t, admin.HasPermission("delete_record"))

	supervisor := &User{Role: RoleSupervisor}
	assert.True(t, supervisor.HasPermission("update_repair"))
	assert.True(t, supervisor.HasPermission("export"))
	assert.False(t, supervisor.HasPermission("manage_users"))
	assert.False(t, supervisor.HasPermission("delete_record"))

	mechanic := &User{Role: RoleMechanic}
	assert.True(t, mechanic.HasPermission("view"))
	assert.True(t, mechanic.HasPermission("update_repair"))
	assert.False(t, mechanic.HasPermission("delete_record"))
}

func TestTruckAndActivityValidity(t *testing.T) {
	assert.True(t, IsValidTruckStatus(TruckOperational))
	assert.True(t, IsValidTruckStatus(TruckInRepair))
	assert.False(t, IsValidTruckStatus("parked"))

	assert.True(t, IsValidActivity(ActivityNone))
	assert.True(t, IsValidActivity(ActivityDiagnosis))
	assert.False(t, IsValidActivity("lunch"))

	assert.True(t, IsValidPreventiveType(PreventiveOilChange))
	assert.False(t, IsValidPreventiveType("wax"))
	assert.True(t, IsValidUrgency(UrgencyHigh))
	assert.False(t, IsValidUrgency("urgent"))
}
