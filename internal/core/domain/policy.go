package domain

// Policy is the access rule a route declares. The zero Policy permits nobody.
type Policy struct {
	anyRole bool
	roles   map[Role]struct{}
}

// AnyAuthenticated permits every principal holding a valid role.
func AnyAuthenticated() Policy {
	return Policy{anyRole: true}
}

// AllowRoles permits only the listed roles.
func AllowRoles(roles ...Role) Policy {
	set := make(map[Role]struct{}, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return Policy{roles: set}
}

// Permits is the access decision: it reports whether a principal holding
// role may pass a route guarded by p.
func (p Policy) Permits(role Role) bool {
	if !role.Valid() {
		return false
	}
	if p.anyRole {
		return true
	}
	_, ok := p.roles[role]
	return ok
}

// Roles returns the allow-list, or nil when any authenticated role passes.
func (p Policy) Roles() []Role {
	if p.anyRole {
		return nil
	}
	out := make([]Role, 0, len(p.roles))
	for _, r := range []Role{RoleAdmin, RoleTeacher, RoleStudent} {
		if _, ok := p.roles[r]; ok {
			out = append(out, r)
		}
	}
	return out
}

// PolicyTable maps a (method, route path) pair to its policy. Paths use the
// router's pattern syntax, e.g. "/classes/:id".
type PolicyTable map[string]Policy

func policyKey(method, path string) string {
	return method + " " + path
}

// Set declares the policy for method on path.
func (t PolicyTable) Set(method, path string, p Policy) {
	t[policyKey(method, path)] = p
}

// Lookup returns the policy declared for method on path.
func (t PolicyTable) Lookup(method, path string) (Policy, bool) {
	p, ok := t[policyKey(method, path)]
	return p, ok
}
