package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleForCode(t *testing.T) {
	cases := map[string]StaffRole{
		"0001": RoleManager,
		"0002": RoleSocialWorker,
		"0003": RoleHousingCoordinator,
		"0005": RoleAdminSecretary,
		"0000": RoleOwner,
	}
	for code, want := range cases {
		role, ok := RoleForCode(code)
		assert.True(t, ok, code)
		assert.Equal(t, want, role)
	}

	_, ok := RoleForCode("9999")
	assert.False(t, ok)
}

func TestStaffRoleValid(t *testing.T) {
	for _, role := range StaffRoles {
		assert.True(t, role.Valid(), string(role))
	}
	assert.False(t, StaffRole("אורח").Valid())
	assert.False(t, StaffRole("").Valid())
}

func TestCanDeleteRecords(t *testing.T) {
	for _, role := range StaffRoles {
		assert.True(t, role.CanDeleteRecords(), string(role))
	}
	assert.False(t, StaffRole("אורח").CanDeleteRecords())
	assert.False(t, StaffRole("").CanDeleteRecords())
}

func TestSeedResidentsAreConsistent(t *testing.T) {
	residents := GenerateInitialResidents()
	assert.Len(t, residents, 53)

	seen := make(map[string]bool, len(residents))
	for _, r := range residents {
		assert.False(t, seen[r.ID], r.ID)
		seen[r.ID] = true

		_, ok := HouseByName(r.HouseName)
		assert.True(t, ok, r.HouseName)
		assert.NotNil(t, r.Attachments)
	}

	// 种子是确定性的
	assert.Equal(t, residents, GenerateInitialResidents())
}

func TestHousePrefix(t *testing.T) {
	for id, want := range map[string]string{
		"shikma":  "SH",
		"marzuk":  "MA",
		"savyon":  "SA",
		"revadim": "RE",
	} {
		house, ok := HouseByID(id)
		assert.True(t, ok, id)
		assert.Equal(t, want, house.Prefix())
	}
}
