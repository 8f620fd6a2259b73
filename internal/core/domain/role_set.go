package domain

// RoleSet is a finite allow-set of roles.
type RoleSet map[Role]struct{}

// NewRoleSet builds a RoleSet from the given roles.
func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

// Contains reports whether r is a member of the set.
func (s RoleSet) Contains(r Role) bool {
	_, ok := s[r]
	return ok
}

// Named policies. Each one is spelled out literally.
var (
	MasterAdminOnly = NewRoleSet(RoleMasterAdmin)

	AdminAndAbove = NewRoleSet(RoleMasterAdmin, RoleAdmin)

	ProjectManagerAndAbove = NewRoleSet(RoleMasterAdmin, RoleAdmin, RoleProjectManager)

	AllRoles = NewRoleSet(
		RoleMasterAdmin,
		RoleAdmin,
		RoleProjectManager,
		RoleSiteEngineer,
		RoleViewer,
	)
)
