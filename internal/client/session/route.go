package session

import "github.com/solx/solx-api/internal/core/domain"

// Decision is the outcome of gating a route.
type Decision int

const (
	Render Decision = iota
	RedirectLogin
	RedirectAccessDenied
)

const (
	LoginPath        = "/login"
	AccessDeniedPath = "/access-denied"
)

func (d Decision) String() string {
	switch d {
	case Render:
		return "render"
	case RedirectLogin:
		return "redirect:" + LoginPath
	case RedirectAccessDenied:
		return "redirect:" + AccessDeniedPath
	default:
		return "unknown"
	}
}

// Gate decides a protected route. A nil allow-set admits any signed-in role.
func Gate(st State, allowed domain.RoleSet) Decision {
	if !st.Valid() {
		return RedirectLogin
	}
	if allowed != nil && !allowed.Contains(st.User.Role) {
		return RedirectAccessDenied
	}
	return Render
}

var publicPaths = map[string]bool{
	LoginPath:         true,
	"/request-access": true,
	AccessDeniedPath:  true,
}

// Decide gates path the way the dashboard router does: public pages always
// render, menu pages use their allow-set, anything else goes to login.
func Decide(st State, path string) Decision {
	if publicPaths[path] {
		return Render
	}
	if item, ok := lookupItem(path); ok {
		return Gate(st, item.Roles)
	}
	return RedirectLogin
}
