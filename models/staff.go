package models

// StaffRole represents a staff member's role in the organization
type StaffRole string

const (
	RoleManager            StaffRole = "מנהל"
	RoleSocialWorker       StaffRole = `עו"ס`
	RoleHousingCoordinator StaffRole = "רכז דירות"
	RoleAdminSecretary     StaffRole = "מזכירה מנהלית"
	RoleOwner              StaffRole = "בעלים"
)

// StaffRoles lists the roles offered on the login screen
var StaffRoles = []StaffRole{RoleManager, RoleSocialWorker, RoleHousingCoordinator, RoleAdminSecretary, RoleOwner}

// RoleCodes maps four-digit access codes to roles. This is a static lookup
// for the login screen, not a security boundary.
var RoleCodes = map[string]StaffRole{
	"0001": RoleManager,
	"0002": RoleSocialWorker,
	"0003": RoleHousingCoordinator,
	"0005": RoleAdminSecretary,
	"0000": RoleOwner,
}

// RoleForCode resolves an access code to its role
func RoleForCode(code string) (StaffRole, bool) {
	role, ok := RoleCodes[code]
	return role, ok
}

// Valid reports whether r is a known staff role
func (r StaffRole) Valid() bool {
	for _, known := range StaffRoles {
		if r == known {
			return true
		}
	}
	return false
}

// deleteAuthorizedRoles is the fixed set allowed to delete reports and
// archive documents.
var deleteAuthorizedRoles = map[StaffRole]bool{
	RoleOwner:              true,
	RoleManager:            true,
	RoleSocialWorker:       true,
	RoleHousingCoordinator: true,
	RoleAdminSecretary:     true,
}

// CanDeleteRecords reports whether the role may permanently delete reports
// and resident archive documents
func (r StaffRole) CanDeleteRecords() bool {
	return deleteAuthorizedRoles[r]
}

// CurrentUser identifies the staff member acting in a session
type CurrentUser struct {
	Name string    `json:"name"`
	Role StaffRole `json:"role"`
}
