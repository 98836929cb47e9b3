package auth

import "strings"

// Role is the caller's privilege level, derived from the session token.
type Role int

const (
	RoleAnonymous Role = iota
	RoleUser
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleAnonymous:
		return "anonymous"
	case RoleUser:
		return "user"
	case RoleAdmin:
		return "admin"
	}
	return "unknown"
}

// roleFromClaim maps the identity provider's role claim. Any authenticated
// caller without the admin claim is an ordinary user.
func roleFromClaim(claim string) Role {
	if strings.EqualFold(strings.TrimSpace(claim), "admin") {
		return RoleAdmin
	}
	return RoleUser
}

// Identity is the resolved caller of one request.
type Identity struct {
	UserID string
	Role   Role
}

// Anonymous is the identity of a request without a valid session.
var Anonymous = Identity{Role: RoleAnonymous}

func (i Identity) Authenticated() bool {
	return i.UserID != "" && i.Role != RoleAnonymous
}
