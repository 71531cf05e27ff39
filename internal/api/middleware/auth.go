package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/gocommerce/marketplace-api/internal/api/metrics"
	"github.com/gocommerce/marketplace-api/internal/core/domain"
	"github.com/gocommerce/marketplace-api/internal/core/ports"
)

// Authenticate resolves the acting principal on routes listed in the table:
// it extracts the bearer token, verifies it, re-fetches the live principal by
// id from the store matching the route's declared kind, and injects the
// redacted principal into the request context. Every failure in that chain is
// a 401; stale claims are never trusted, so role changes and deletions take
// effect without waiting for token expiry.
func Authenticate(tokens ports.TokenIssuer, users, sellers ports.PrincipalRepository, routes RouteTable) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			policy, ok := routes[routeKey(c)]
			if !ok {
				return next(c)
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				metrics.AccessDeniedTotal.WithLabelValues("missing_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.AccessDeniedTotal.WithLabelValues("missing_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := tokens.Verify(parts[1])
			if err != nil {
				if errors.Is(err, domain.ErrTokenExpired) {
					metrics.TokenVerificationsTotal.WithLabelValues("expired").Inc()
					metrics.AccessDeniedTotal.WithLabelValues("expired_token").Inc()
					return echo.NewHTTPError(http.StatusUnauthorized, "token expired")
				}
				metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
				metrics.AccessDeniedTotal.WithLabelValues("invalid_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()

			repo := users
			if policy.Kind == domain.KindSeller {
				repo = sellers
			}

			p, err := repo.FindByID(c.Request().Context(), claims.ID)
			if err != nil || !p.IsActive {
				// Deleted or deactivated since issuance, or a token of the
				// wrong kind for this route.
				metrics.AccessDeniedTotal.WithLabelValues("principal_not_found").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "unknown principal")
			}

			c.Set(PrincipalKey, p.Redact())
			return next(c)
		}
	}
}
