package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gocommerce/marketplace-api/internal/core/domain"
	"github.com/gocommerce/marketplace-api/internal/core/service"
)

type fakeRepo struct {
	byID map[string]*domain.Principal
}

func newFakeRepo(principals ...*domain.Principal) *fakeRepo {
	r := &fakeRepo{byID: make(map[string]*domain.Principal)}
	for _, p := range principals {
		r.byID[p.ID] = p
	}
	return r
}

func (r *fakeRepo) Create(_ context.Context, p *domain.Principal) (*domain.Principal, error) {
	r.byID[p.ID] = p
	return p, nil
}

func (r *fakeRepo) FindByEmail(_ context.Context, email string) (*domain.Principal, error) {
	for _, p := range r.byID {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, domain.ErrPrincipalNotFound
}

func (r *fakeRepo) FindByID(_ context.Context, id string) (*domain.Principal, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrPrincipalNotFound
	}
	return p, nil
}

func buyerPrincipal() *domain.Principal {
	return &domain.Principal{
		ID:           "u1",
		Kind:         domain.KindUser,
		FirstName:    "Ana",
		Email:        "a@x.com",
		PasswordHash: "$2a$10$hash",
		Roles:        []domain.Role{domain.RoleBuyer},
		IsActive:     true,
	}
}

func userMeTable() RouteTable {
	return RouteTable{
		"GET /auth/user/me": {Kind: domain.KindUser, Roles: []domain.Role{domain.RoleBuyer}},
	}
}

func issueFor(t *testing.T, tokens *service.TokenService, p *domain.Principal) string {
	t.Helper()
	token, err := tokens.Issue(domain.NewTokenClaims(p.Redact()))
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func newGuardContext(e *echo.Echo, path, token string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(path)
	return c, rec
}

func TestAuthenticate_ValidToken(t *testing.T) {
	e := echo.New()
	tokens := service.NewTokenService("secret", time.Hour)
	p := buyerPrincipal()
	mw := Authenticate(tokens, newFakeRepo(p), newFakeRepo(), userMeTable())

	c, rec := newGuardContext(e, "/auth/user/me", issueFor(t, tokens, p))

	called := false
	handler := mw(func(c echo.Context) error {
		called = true
		pub, ok := c.Get(PrincipalKey).(domain.PublicPrincipal)
		if !ok {
			t.Fatalf("principal not injected")
		}
		if pub.ID != "u1" || pub.Email != "a@x.com" {
			t.Fatalf("unexpected principal: %+v", pub)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthenticate_UnlistedRouteBypasses(t *testing.T) {
	e := echo.New()
	tokens := service.NewTokenService("secret", time.Hour)
	mw := Authenticate(tokens, newFakeRepo(), newFakeRepo(), userMeTable())

	// No token at all; the route is not in the table.
	c, rec := newGuardContext(e, "/auth/user/login", "")

	called := false
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("unauthenticated route should bypass the guard")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthenticate_Rejections(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)
	p := buyerPrincipal()

	expiring := service.NewTokenService("secret", time.Nanosecond)
	expiredToken := issueFor(t, expiring, p)
	time.Sleep(10 * time.Millisecond)

	otherKey := service.NewTokenService("other", time.Hour)

	cases := []struct {
		name  string
		users *fakeRepo
		setup func(req *http.Request)
	}{
		{"missing header", newFakeRepo(p), func(req *http.Request) {}},
		{"wrong scheme", newFakeRepo(p), func(req *http.Request) {
			req.Header.Set("Authorization", "Token abc")
		}},
		{"malformed token", newFakeRepo(p), func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer not-a-token")
		}},
		{"wrong signature", newFakeRepo(p), func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+issueFor(t, otherKey, p))
		}},
		{"expired token", newFakeRepo(p), func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+expiredToken)
		}},
		{"principal deleted", newFakeRepo(), func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+issueFor(t, tokens, p))
		}},
		{"principal deactivated", newFakeRepo(&domain.Principal{
			ID: "u1", Kind: domain.KindUser, Roles: []domain.Role{domain.RoleBuyer}, IsActive: false,
		}), func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer "+issueFor(t, tokens, p))
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			mw := Authenticate(tokens, tc.users, newFakeRepo(), userMeTable())

			req := httptest.NewRequest(http.MethodGet, "/auth/user/me", nil)
			tc.setup(req)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.SetPath("/auth/user/me")

			handler := mw(func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})

			if err := handler(c); err != nil {
				e.HTTPErrorHandler(err, c)
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestAuthenticate_UserTokenOnSellerRoute(t *testing.T) {
	e := echo.New()
	tokens := service.NewTokenService("secret", time.Hour)
	p := buyerPrincipal()

	routes := RouteTable{
		"GET /auth/seller/me": {Kind: domain.KindSeller, Roles: []domain.Role{domain.RoleSeller}},
	}
	// The user exists in the user store, but the route resolves against the
	// seller store.
	mw := Authenticate(tokens, newFakeRepo(p), newFakeRepo(), routes)

	c, rec := newGuardContext(e, "/auth/seller/me", issueFor(t, tokens, p))

	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
