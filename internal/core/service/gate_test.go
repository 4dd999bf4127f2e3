package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/schoolhub/school-api/internal/core/domain"
)

func newTestGate(t *testing.T) (*Gate, *TokenService, *stubDenylist) {
	t.Helper()
	tokens := NewTokenService("secret", "school-api", time.Hour)
	denylist := newStubDenylist()
	return NewGate(tokens, denylist, zerolog.Nop()), tokens, denylist
}

func bearerFor(t *testing.T, tokens *TokenService, role domain.Role) string {
	t.Helper()
	raw, _, err := tokens.Issue(&domain.Account{ID: 9, Role: role})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return "Bearer " + raw
}

func TestGate_PermitsAllowedRole(t *testing.T) {
	gate, tokens, _ := newTestGate(t)

	p, err := gate.Authorize(context.Background(), bearerFor(t, tokens, domain.RoleTeacher),
		domain.AllowRoles(domain.RoleAdmin, domain.RoleTeacher))
	if err != nil {
		t.Fatalf("expected permit, got %v", err)
	}
	if p.AccountID != 9 || p.Role != domain.RoleTeacher || p.TokenID == "" || p.ExpiresAt.IsZero() {
		t.Fatalf("unexpected principal: %+v", p)
	}
}

func TestGate_AnyAuthenticated(t *testing.T) {
	gate, tokens, _ := newTestGate(t)

	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleTeacher, domain.RoleStudent} {
		if _, err := gate.Authorize(context.Background(), bearerFor(t, tokens, role), domain.AnyAuthenticated()); err != nil {
			t.Fatalf("role %s: expected permit, got %v", role, err)
		}
	}
}

func TestGate_ForbidsRoleOutsideAllowList(t *testing.T) {
	gate, tokens, _ := newTestGate(t)

	_, err := gate.Authorize(context.Background(), bearerFor(t, tokens, domain.RoleTeacher), domain.AllowRoles(domain.RoleAdmin))
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestGate_ZeroPolicyForbidsEveryone(t *testing.T) {
	gate, tokens, _ := newTestGate(t)

	_, err := gate.Authorize(context.Background(), bearerFor(t, tokens, domain.RoleAdmin), domain.Policy{})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestGate_RejectsMalformedHeaders(t *testing.T) {
	gate, tokens, _ := newTestGate(t)
	valid := bearerFor(t, tokens, domain.RoleAdmin)

	headers := []string{
		"",
		"Bearer",
		"Bearer ",
		"Token " + valid[len("Bearer "):],
		valid[len("Bearer "):],
		"Bearer not-a-token",
		"Bearer a b",
	}
	for _, h := range headers {
		if _, err := gate.Authorize(context.Background(), h, domain.AnyAuthenticated()); !errors.Is(err, domain.ErrInvalidToken) {
			t.Fatalf("header %q: expected ErrInvalidToken, got %v", h, err)
		}
	}
}

func TestGate_SchemeIsCaseInsensitive(t *testing.T) {
	gate, tokens, _ := newTestGate(t)
	raw := bearerFor(t, tokens, domain.RoleAdmin)[len("Bearer "):]

	if _, err := gate.Authorize(context.Background(), "bearer "+raw, domain.AnyAuthenticated()); err != nil {
		t.Fatalf("expected lower-case scheme to be accepted, got %v", err)
	}
}

func TestGate_ExpiredTokenIsUnauthenticatedEvenForForbiddenRoute(t *testing.T) {
	gate, tokens, _ := newTestGate(t)
	tokens.now = func() time.Time { return time.Now().Add(-3 * time.Hour) }
	header := bearerFor(t, tokens, domain.RoleAdmin)
	tokens.now = time.Now

	for _, policy := range []domain.Policy{domain.AllowRoles(domain.RoleAdmin), domain.AllowRoles(domain.RoleStudent)} {
		if _, err := gate.Authorize(context.Background(), header, policy); !errors.Is(err, domain.ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	}
}

func TestGate_RevokedToken(t *testing.T) {
	gate, tokens, denylist := newTestGate(t)
	header := bearerFor(t, tokens, domain.RoleAdmin)

	p, err := gate.Authorize(context.Background(), header, domain.AnyAuthenticated())
	if err != nil {
		t.Fatalf("authorize: %v", err)
	}
	_ = denylist.Revoke(context.Background(), p.TokenID, p.ExpiresAt)

	if _, err := gate.Authorize(context.Background(), header, domain.AnyAuthenticated()); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected revoked token to be rejected, got %v", err)
	}
}

func TestGate_DenylistFailureIsNotAPermit(t *testing.T) {
	gate, tokens, denylist := newTestGate(t)
	denylist.err = errors.New("redis down")

	_, err := gate.Authorize(context.Background(), bearerFor(t, tokens, domain.RoleAdmin), domain.AnyAuthenticated())
	if err == nil {
		t.Fatalf("expected error when revocation cannot be checked")
	}
	if errors.Is(err, domain.ErrInvalidToken) || errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected infrastructure error, got %v", err)
	}
}

func TestGate_WithoutDenylist(t *testing.T) {
	tokens := NewTokenService("secret", "school-api", time.Hour)
	gate := NewGate(tokens, nil, zerolog.Nop())

	if _, err := gate.Authorize(context.Background(), bearerFor(t, tokens, domain.RoleStudent), domain.AnyAuthenticated()); err != nil {
		t.Fatalf("expected permit, got %v", err)
	}
}
