package api

import (
	"net/http"

	"github.com/schoolhub/school-api/internal/core/domain"
)

// access is the policy of each verb group on one resource.
type access struct {
	read   domain.Policy
	create domain.Policy
	update domain.Policy
	remove domain.Policy
}

var (
	anyone        = domain.AnyAuthenticated()
	adminOnly     = domain.AllowRoles(domain.RoleAdmin)
	staff         = domain.AllowRoles(domain.RoleAdmin, domain.RoleTeacher)
	directory     = access{read: anyone, create: adminOnly, update: adminOnly, remove: adminOnly}
	teaching      = access{read: anyone, create: staff, update: staff, remove: adminOnly}
	administrated = access{read: adminOnly, update: adminOnly, remove: adminOnly}
)

// resourceAccess lists who may do what on every resource. Resources
// missing here are refused to everybody.
var resourceAccess = map[string]access{
	"users":    administrated,
	"students": directory,
	"teachers": directory,

	"classes":       teaching,
	"subjects":      teaching,
	"schedules":     teaching,
	"grades":        teaching,
	"files":         teaching,
	"links":         teaching,
	"forums":        teaching,
	"news":          teaching,
	"events":        teaching,
	"sports":        teaching,
	"sports_events": teaching,
	"clubs":         teaching,

	"libraries": directory,
	"books":     directory,

	"checkout_records": {read: staff, create: staff, update: staff, remove: adminOnly},
	"messages":         {read: anyone, create: anyone, update: adminOnly, remove: adminOnly},
}

// RoutePolicies builds the table consulted by the gate for every protected
// route.
func RoutePolicies() domain.PolicyTable {
	table := domain.PolicyTable{}

	table.Set(http.MethodPost, "/logout", anyone)
	table.Set(http.MethodGet, "/me", anyone)

	for name, a := range resourceAccess {
		collection, item := "/"+name, "/"+name+"/:id"

		table.Set(http.MethodGet, collection, a.read)
		table.Set(http.MethodGet, item, a.read)
		table.Set(http.MethodPost, collection, a.create)
		table.Set(http.MethodPut, item, a.update)
		table.Set(http.MethodPatch, item, a.update)
		table.Set(http.MethodDelete, item, a.remove)
	}
	return table
}
