package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/solx/solx-api/internal/api/middleware"
	"github.com/solx/solx-api/internal/core/domain"
)

// currentIdentity returns the identity attached by the Auth middleware.
// Its absence means the route was wired without Auth; treat it as
// unauthenticated rather than trusting the request.
func currentIdentity(c echo.Context) (domain.Identity, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	return identity, nil
}
