package domain

import "slices"

const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

// DefaultRoles are seeded by Bootstrap and are the only roles a user can hold.
var DefaultRoles = []string{RoleAdmin, RoleUser}

// Principal is the authenticated actor of a single request.
type Principal struct {
	ID    string   `json:"id"`
	Roles []string `json:"roles"`
}

// Anonymous stands in for unauthenticated callers. The policy evaluator
// always denies it.
var Anonymous = Principal{}

func (p Principal) IsAnonymous() bool {
	return p.ID == ""
}

func (p Principal) HasRole(role string) bool {
	return slices.Contains(p.Roles, role)
}

func (p Principal) IsAdmin() bool {
	return p.HasRole(RoleAdmin)
}
