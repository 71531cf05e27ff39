package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/gocommerce/marketplace-api/internal/core/domain"
)

// PrincipalKey is the echo context key under which Authenticate stores the
// redacted principal for downstream handlers.
const PrincipalKey = "principal"

// Policy declares the access requirements of one protected route: which
// credential store resolves the acting principal, and which roles may pass.
type Policy struct {
	Kind  domain.Kind
	Roles []domain.Role
}

// RouteTable maps route identifiers ("<METHOD> <path>") to their policies.
// It is the single declaration of the protected route set: routes absent
// from the table bypass the guard entirely.
type RouteTable map[string]Policy

func routeKey(c echo.Context) string {
	return c.Request().Method + " " + c.Path()
}
