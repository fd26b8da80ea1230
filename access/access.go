// Package access holds the route classification table. The router registers
// routes from the same table the request guard consults, so a route cannot
// exist without a declared class.
package access

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

type Class int

const (
	// Public routes never consult the session store.
	Public Class = iota
	// AuthOnly routes (login, signup) send signed-in users to the dashboard.
	AuthOnly
	// Protected routes send anonymous users to the login page.
	Protected
)

func (c Class) String() string {
	switch c {
	case Public:
		return "public"
	case AuthOnly:
		return "auth-only"
	case Protected:
		return "protected"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}

type Route struct {
	Method   string
	Path     string
	Class    Class
	Handlers []gin.HandlerFunc
}

type Table struct {
	routes  []Route
	classes map[string]Class
}

// NewTable indexes routes by gin path pattern. Declaring the same pattern
// with two different classes is an error.
func NewTable(routes []Route) (*Table, error) {
	t := &Table{
		routes:  make([]Route, 0, len(routes)),
		classes: make(map[string]Class, len(routes)),
	}
	for _, r := range routes {
		if r.Method == "" || r.Path == "" {
			return nil, fmt.Errorf("route %q %q: method and path are required", r.Method, r.Path)
		}
		if existing, ok := t.classes[r.Path]; ok && existing != r.Class {
			return nil, fmt.Errorf("route %s %s declared %s, but %s was already declared for the same path",
				r.Method, r.Path, r.Class, existing)
		}
		t.classes[r.Path] = r.Class
		t.routes = append(t.routes, r)
	}
	return t, nil
}

// Classify looks up a gin route pattern (c.FullPath()). known is false for
// requests that matched no route.
func (t *Table) Classify(pattern string) (class Class, known bool) {
	class, known = t.classes[pattern]
	if !known {
		return Public, false
	}
	return class, true
}

func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// Register adds every route of the table to r, in declaration order.
func (t *Table) Register(r gin.IRoutes) {
	for _, route := range t.routes {
		r.Handle(route.Method, route.Path, route.Handlers...)
	}
}
