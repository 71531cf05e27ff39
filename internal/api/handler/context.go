package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gocommerce/marketplace-api/internal/api/middleware"
	"github.com/gocommerce/marketplace-api/internal/core/domain"
)

// ctxPrincipal extracts the redacted principal injected by the access guard
// and fails fast before any service call: presence proves the guard ran, and
// an empty ID means the token was structurally valid but carries no usable
// identity.
func ctxPrincipal(c echo.Context) (domain.PublicPrincipal, error) {
	p, ok := c.Get(middleware.PrincipalKey).(domain.PublicPrincipal)
	if !ok {
		return domain.PublicPrincipal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	if p.ID == "" {
		return domain.PublicPrincipal{}, echo.NewHTTPError(http.StatusUnauthorized, "token missing principal identity")
	}
	return p, nil
}
