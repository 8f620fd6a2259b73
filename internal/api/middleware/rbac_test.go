package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/solx/solx-api/internal/core/domain"
)

func runRBAC(t *testing.T, mw echo.MiddlewareFunc, identity *domain.Identity) (bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	if identity != nil {
		c.Set(IdentityKey, *identity)
	}

	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	return called, err
}

func TestRBAC_Allows(t *testing.T) {
	called, err := runRBAC(t, RequireProjectManager, &domain.Identity{UserID: "u", Role: domain.RoleProjectManager})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
}

func TestRBAC_Forbids(t *testing.T) {
	called, err := runRBAC(t, RequireProjectManager, &domain.Identity{UserID: "u", Role: domain.RoleViewer})
	if called {
		t.Fatalf("should not reach next handler")
	}
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRBAC_NoIdentity(t *testing.T) {
	called, err := runRBAC(t, RequireAdmin, nil)
	if called {
		t.Fatalf("should not reach next handler")
	}
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestRBAC_NamedPolicies(t *testing.T) {
	tests := []struct {
		policy string
		mw     echo.MiddlewareFunc
		role   domain.Role
		allow  bool
	}{
		{"master-admin-only", RequireMasterAdmin, domain.RoleMasterAdmin, true},
		{"master-admin-only", RequireMasterAdmin, domain.RoleAdmin, false},
		{"admin-and-above", RequireAdmin, domain.RoleAdmin, true},
		{"admin-and-above", RequireAdmin, domain.RoleProjectManager, false},
		{"pm-and-above", RequireProjectManager, domain.RoleMasterAdmin, true},
		{"pm-and-above", RequireProjectManager, domain.RoleSiteEngineer, false},
	}

	for _, tt := range tests {
		t.Run(tt.policy+"/"+string(tt.role), func(t *testing.T) {
			called, err := runRBAC(t, tt.mw, &domain.Identity{UserID: "u", Role: tt.role})
			if called != tt.allow {
				t.Fatalf("expected allow=%v, got called=%v err=%v", tt.allow, called, err)
			}
		})
	}
}
