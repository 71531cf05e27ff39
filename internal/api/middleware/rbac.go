package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gocommerce/marketplace-api/internal/api/metrics"
	"github.com/gocommerce/marketplace-api/internal/core/domain"
)

// Authorize enforces role-based access control on routes listed in the
// table. The decision rule is intersection: the resolved principal needs at
// least one of the route's required roles, not all of them.
func Authorize(routes RouteTable) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			policy, ok := routes[routeKey(c)]
			if !ok {
				return next(c)
			}

			p, ok := c.Get(PrincipalKey).(domain.PublicPrincipal)
			if !ok {
				// Authenticate did not run or did not inject; never fall
				// through to the handler on a protected route.
				metrics.AccessDeniedTotal.WithLabelValues("missing_principal").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}

			if !domain.HasAnyRole(p.Roles, policy.Roles) {
				metrics.AccessDeniedTotal.WithLabelValues("forbidden").Inc()
				return domain.ErrForbidden
			}

			return next(c)
		}
	}
}
