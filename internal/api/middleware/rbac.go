package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/solx/solx-api/internal/api/metrics"
	"github.com/solx/solx-api/internal/core/domain"
)

// RBAC enforces role-based access control against an explicit allow-set.
// It must run after Auth.
func RBAC(allowed domain.RoleSet) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				metrics.AuthRejectionsTotal.WithLabelValues("no_identity").Inc()
				return domain.ErrUnauthenticated
			}
			if !allowed.Contains(identity.Role) {
				metrics.AuthRejectionsTotal.WithLabelValues("forbidden").Inc()
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}

// Named policies.
var (
	RequireMasterAdmin    = RBAC(domain.MasterAdminOnly)
	RequireAdmin          = RBAC(domain.AdminAndAbove)
	RequireProjectManager = RBAC(domain.ProjectManagerAndAbove)
)
