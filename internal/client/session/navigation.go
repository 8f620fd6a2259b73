package session

import "github.com/solx/solx-api/internal/core/domain"

// NavItem is one dashboard menu entry and the roles that see it.
type NavItem struct {
	Label string
	Path  string
	Roles domain.RoleSet
}

var siteEngineerOnly = domain.NewRoleSet(domain.RoleSiteEngineer)

// NavigationItems is the full dashboard menu in display order.
var NavigationItems = []NavItem{
	{Label: "Dashboard", Path: "/dashboard", Roles: domain.AllRoles},
	{Label: "Projects", Path: "/projects", Roles: domain.ProjectManagerAndAbove},
	{Label: "Reports", Path: "/reports", Roles: domain.AllRoles},
	{Label: "My Tasks", Path: "/tasks", Roles: siteEngineerOnly},
	{Label: "Update Progress", Path: "/progress", Roles: siteEngineerOnly},
	{Label: "Users", Path: "/users", Roles: domain.AdminAndAbove},
	{Label: "Settings", Path: "/settings", Roles: domain.AdminAndAbove},
}

// Navigation returns the menu entries visible to role, in display order.
func Navigation(role domain.Role) []NavItem {
	var out []NavItem
	for _, item := range NavigationItems {
		if item.Roles.Contains(role) {
			out = append(out, item)
		}
	}
	return out
}

func lookupItem(path string) (NavItem, bool) {
	for _, item := range NavigationItems {
		if item.Path == path {
			return item, true
		}
	}
	return NavItem{}, false
}
