package api

import (
	"net/http"
	"testing"

	"github.com/schoolhub/school-api/internal/core/domain"
)

func TestRoutePolicies(t *testing.T) {
	table := RoutePolicies()

	cases := []struct {
		method, path string
		role         domain.Role
		permit       bool
	}{
		{http.MethodDelete, "/classes/:id", domain.RoleTeacher, false},
		{http.MethodDelete, "/classes/:id", domain.RoleAdmin, true},
		{http.MethodPost, "/classes", domain.RoleTeacher, true},
		{http.MethodPost, "/classes", domain.RoleStudent, false},
		{http.MethodGet, "/classes", domain.RoleStudent, true},
		{http.MethodPatch, "/grades/:id", domain.RoleTeacher, true},
		{http.MethodPost, "/students", domain.RoleTeacher, false},
		{http.MethodPut, "/teachers/:id", domain.RoleAdmin, true},
		{http.MethodGet, "/users", domain.RoleTeacher, false},
		{http.MethodGet, "/users/:id", domain.RoleAdmin, true},
		{http.MethodPost, "/users", domain.RoleAdmin, false},
		{http.MethodPost, "/books", domain.RoleTeacher, false},
		{http.MethodGet, "/books/:id", domain.RoleStudent, true},
		{http.MethodGet, "/checkout_records", domain.RoleStudent, false},
		{http.MethodPost, "/checkout_records", domain.RoleTeacher, true},
		{http.MethodDelete, "/checkout_records/:id", domain.RoleTeacher, false},
		{http.MethodPost, "/messages", domain.RoleStudent, true},
		{http.MethodPatch, "/messages/:id", domain.RoleStudent, false},
		{http.MethodPost, "/logout", domain.RoleStudent, true},
		{http.MethodGet, "/me", domain.RoleTeacher, true},
		{http.MethodGet, "/nowhere", domain.RoleAdmin, false},
	}

	for _, tc := range cases {
		p, _ := table.Lookup(tc.method, tc.path)
		if got := p.Permits(tc.role); got != tc.permit {
			t.Errorf("%s %s as %s: permit=%v, want %v", tc.method, tc.path, tc.role, got, tc.permit)
		}
	}
}

func TestRoutePolicies_EveryResourceHasEveryVerb(t *testing.T) {
	table := RoutePolicies()
	for name := range resourceAccess {
		for _, key := range [][2]string{
			{http.MethodGet, "/" + name},
			{http.MethodGet, "/" + name + "/:id"},
			{http.MethodPut, "/" + name + "/:id"},
			{http.MethodPatch, "/" + name + "/:id"},
			{http.MethodDelete, "/" + name + "/:id"},
		} {
			if _, ok := table.Lookup(key[0], key[1]); !ok {
				t.Errorf("missing policy for %s %s", key[0], key[1])
			}
		}
	}
	if len(resourceAccess) != 19 {
		t.Errorf("expected 19 protected resources, got %d", len(resourceAccess))
	}
}
