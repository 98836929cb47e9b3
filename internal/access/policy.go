// Package access decides, per request, whether the caller may reach a route
// or must be sent elsewhere.
package access

import (
	"strings"

	"Tasks/internal/auth"
)

// Area classifies a route for access decisions.
type Area int

const (
	AreaProtected Area = iota
	AreaPublicOnly
	AreaAdmin
)

const (
	LandingPath        = "/"
	SignUpPath         = "/sign-up"
	SignInPath         = "/sign-in"
	DashboardPath      = "/dashboard"
	AdminDashboardPath = "/admin/dashboard"
)

// Classify maps a request path to its area.
func Classify(path string) Area {
	switch {
	case underPrefix(path, "/admin"), underPrefix(path, "/api/admin"):
		return AreaAdmin
	case path == LandingPath, underPrefix(path, SignInPath), underPrefix(path, SignUpPath):
		return AreaPublicOnly
	}
	return AreaProtected
}

func underPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// Outcome is what the gate does with a request.
type Outcome int

const (
	Allow Outcome = iota
	Redirect
)

// Decision is the result of Decide. Location is set for redirects.
type Decision struct {
	Outcome  Outcome
	Location string
}

func allow() Decision             { return Decision{Outcome: Allow} }
func redirect(to string) Decision { return Decision{Outcome: Redirect, Location: to} }
func (d Decision) Allowed() bool  { return d.Outcome == Allow }

// Decide applies the access rules in order. Admins own the admin area and
// nothing else; everyone else is kept out of it.
func Decide(id auth.Identity, area Area) Decision {
	isAdmin := id.Role == auth.RoleAdmin && id.Authenticated()

	if area == AreaAdmin {
		if !isAdmin {
			return redirect(SignUpPath)
		}
		return allow()
	}
	if isAdmin {
		return redirect(AdminDashboardPath)
	}
	if area == AreaProtected && !id.Authenticated() {
		return redirect(SignUpPath)
	}
	if area == AreaPublicOnly && id.Authenticated() {
		return redirect(DashboardPath)
	}
	return allow()
}
