package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/gocommerce/marketplace-api/internal/api/metrics"
	"github.com/gocommerce/marketplace-api/internal/core/domain"
)

func newAuthorizeContext(e *echo.Echo, path string, roles []domain.Role) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(path)
	if roles != nil {
		c.Set(PrincipalKey, domain.PublicPrincipal{ID: "u1", Kind: domain.KindUser, Roles: roles})
	}
	return c, rec
}

func TestAuthorize_Allows(t *testing.T) {
	e := echo.New()
	mw := Authorize(userMeTable())
	c, rec := newAuthorizeContext(e, "/auth/user/me", []domain.Role{domain.RoleBuyer})

	called := false
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthorize_IntersectionNotExactMatch(t *testing.T) {
	e := echo.New()
	routes := RouteTable{
		"GET /admin/reports": {Kind: domain.KindUser, Roles: []domain.Role{domain.RoleAdmin}},
	}
	mw := Authorize(routes)

	// Principal holds more roles than required; one overlap is enough.
	c, rec := newAuthorizeContext(e, "/admin/reports", []domain.Role{domain.RoleBuyer, domain.RoleAdmin})

	called := false
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected allow, got code %d", rec.Code)
	}
}

func TestAuthorize_Forbids(t *testing.T) {
	e := echo.New()
	routes := RouteTable{
		"GET /auth/seller/me": {Kind: domain.KindSeller, Roles: []domain.Role{domain.RoleSeller}},
	}
	mw := Authorize(routes)
	c, _ := newAuthorizeContext(e, "/auth/seller/me", []domain.Role{domain.RoleBuyer})

	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	// The guard returns the domain sentinel; the central error handler owns
	// the 403 mapping.
	if err := handler(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAuthorize_MissingPrincipal(t *testing.T) {
	e := echo.New()
	mw := Authorize(userMeTable())
	c, rec := newAuthorizeContext(e, "/auth/user/me", nil)

	before := testutil.ToFloat64(metrics.AccessDeniedTotal.WithLabelValues("missing_principal"))

	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	// Counted apart from bearer-extraction failures so the two causes stay
	// distinguishable on the metric.
	after := testutil.ToFloat64(metrics.AccessDeniedTotal.WithLabelValues("missing_principal"))
	if after != before+1 {
		t.Fatalf("missing_principal count = %v, want %v", after, before+1)
	}
}

func TestAuthorize_UnlistedRouteBypasses(t *testing.T) {
	e := echo.New()
	mw := Authorize(userMeTable())
	c, rec := newAuthorizeContext(e, "/health", nil)

	called := false
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected bypass, got code %d", rec.Code)
	}
}
