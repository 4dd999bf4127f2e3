package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/schoolhub/school-api/internal/api/handler"
	"github.com/schoolhub/school-api/internal/core/domain"
)

type stubAuthorizer struct {
	header string
	policy domain.Policy
	role   domain.Role
	err    error
}

func (s *stubAuthorizer) Authorize(_ context.Context, header string, policy domain.Policy) (domain.Principal, error) {
	s.header = header
	s.policy = policy
	if s.err != nil {
		return domain.Principal{}, s.err
	}
	if !policy.Permits(s.role) {
		return domain.Principal{}, domain.ErrForbidden
	}
	return domain.Principal{AccountID: 5, Role: s.role}, nil
}

func gateContext(method, path, route string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer abc")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(route)
	return c, rec
}

func adminOnlyTable() domain.PolicyTable {
	table := domain.PolicyTable{}
	table.Set(http.MethodDelete, "/classes/:id", domain.AllowRoles(domain.RoleAdmin))
	table.Set(http.MethodGet, "/classes", domain.AnyAuthenticated())
	return table
}

func TestGate_PermitStoresPrincipal(t *testing.T) {
	authz := &stubAuthorizer{role: domain.RoleStudent}
	c, rec := gateContext(http.MethodGet, "/classes", "/classes")

	called := false
	h := Gate(authz, adminOnlyTable(), zerolog.Nop())(func(c echo.Context) error {
		called = true
		p, ok := handler.PrincipalFrom(c)
		if !ok || p.AccountID != 5 {
			t.Fatalf("principal not stored: %+v", p)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected next to run, got called=%v code=%d", called, rec.Code)
	}
	if authz.header != "Bearer abc" {
		t.Fatalf("authorization header not forwarded: %q", authz.header)
	}
}

func TestGate_UsesRoutePatternForLookup(t *testing.T) {
	authz := &stubAuthorizer{role: domain.RoleTeacher}
	c, _ := gateContext(http.MethodDelete, "/classes/1", "/classes/:id")

	h := Gate(authz, adminOnlyTable(), zerolog.Nop())(func(echo.Context) error {
		t.Fatal("next should not run")
		return nil
	})

	if err := h(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if roles := authz.policy.Roles(); len(roles) != 1 || roles[0] != domain.RoleAdmin {
		t.Fatalf("expected the admin-only policy, got %v", roles)
	}
}

func TestGate_UnknownRouteIsDenied(t *testing.T) {
	authz := &stubAuthorizer{role: domain.RoleAdmin}
	c, _ := gateContext(http.MethodPost, "/unlisted", "/unlisted")

	h := Gate(authz, adminOnlyTable(), zerolog.Nop())(func(echo.Context) error {
		t.Fatal("next should not run")
		return nil
	})

	if err := h(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden even for admin, got %v", err)
	}
}

func TestGate_AuthenticationErrorPassesThrough(t *testing.T) {
	authz := &stubAuthorizer{err: domain.ErrInvalidToken}
	c, _ := gateContext(http.MethodGet, "/classes", "/classes")

	h := Gate(authz, adminOnlyTable(), zerolog.Nop())(func(echo.Context) error {
		t.Fatal("next should not run")
		return nil
	})

	if err := h(c); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestDecisionLabels(t *testing.T) {
	cases := map[error]string{
		domain.ErrInvalidToken:   "unauthenticated",
		domain.ErrForbidden:      "forbidden",
		errors.New("redis down"): "error",
	}
	for err, want := range cases {
		if got := decision(err); got != want {
			t.Errorf("decision(%v) = %q, want %q", err, got, want)
		}
	}
}
