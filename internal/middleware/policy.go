package middleware

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
)

// Access is the requirement a route places on the caller.
type Access int

const (
	Public        Access = iota // Anyone, token or not
	Authenticated               // Any valid principal
	AdminOnly                   // Principal with the ADMIN role
)

// String returns the lower-case access name
func (a Access) String() string {
	switch a {
	case Public:
		return "public"
	case Authenticated:
		return "authenticated"
	case AdminOnly:
		return "admin"
	default:
		return "unknown"
	}
}

// Rule binds a method and gin route pattern to an access level.
type Rule struct {
	Method string
	Path   string
	Access Access
}

type routeKey struct {
	method string
	path   string
}

// Policy is a static route table.
type Policy struct {
	rules    map[routeKey]Access
	fallback Access
}

// NewPolicy builds a policy; routes without a rule get fallback.
func NewPolicy(fallback Access, rules ...Rule) *Policy {
	p := &Policy{rules: make(map[routeKey]Access, len(rules)), fallback: fallback}
	for _, r := range rules {
		p.rules[routeKey{r.Method, r.Path}] = r.Access
	}
	return p
}

// Lookup returns the access level for a method and route pattern.
func (p *Policy) Lookup(method, path string) Access {
	if access, ok := p.rules[routeKey{method, path}]; ok {
		return access
	}
	return p.fallback
}

// DefaultPolicy is the access table of the service.
func DefaultPolicy() *Policy {
	return NewPolicy(Authenticated,
		Rule{http.MethodPost, "/api/auth/login", Public},
		Rule{http.MethodPost, "/api/auth/register", Public},
		Rule{http.MethodPost, "/api/auth/register-admin", AdminOnly},
		Rule{http.MethodGet, "/api/socks", Authenticated},
		Rule{http.MethodPost, "/api/socks/income", Authenticated},
		Rule{http.MethodPost, "/api/socks/outcome", Authenticated},
		Rule{http.MethodDelete, "/api/socks/delete", AdminOnly},
		Rule{http.MethodGet, "/api/admin/users", AdminOnly},
		Rule{http.MethodGet, "/api/admin/users/:id", AdminOnly},
		Rule{http.MethodGet, "/api/admin/users/username/:username", AdminOnly},
		Rule{http.MethodPut, "/api/admin/users/:id/role", AdminOnly},
		Rule{http.MethodDelete, "/api/admin/users/:id", AdminOnly},
		Rule{http.MethodGet, "/api/admin/users/check/:username", AdminOnly},
		Rule{http.MethodGet, "/api/admin/users/role/:role", AdminOnly},
		Rule{http.MethodGet, "/metrics", Public},
		Rule{http.MethodGet, "/health", Public},
	)
}

// Authorize enforces the policy after Authenticate has run.
func Authorize(policy *Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		access := policy.Lookup(c.Request.Method, c.FullPath())
		if access == Public {
			c.Next()
			return
		}
		principal, ok := PrincipalFrom(c)
		if !ok {
			c.Abort()
			c.String(http.StatusUnauthorized, "Authentication required")
			return
		}
		if access == AdminOnly && !principal.IsAdmin() {
			c.Abort()
			c.String(http.StatusForbidden, "Access denied")
			return
		}
		c.Next()
	}
}
