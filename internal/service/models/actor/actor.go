package actor

import "github.com/google/uuid"

// Role is the authorization role of an authenticated user.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// ParseRole validates a role string coming from storage or a token.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleMember:
		return Role(s), true
	default:
		return "", false
	}
}

// Actor is the resolved identity under which an operation executes.
// The auth middleware builds it; services and the access policy consume it.
type Actor struct {
	ID       uuid.UUID
	Username string
	Email    string
	Role     Role
}

// DisplayName is the label snapshotted into createdBy/lastModifiedBy.
func (a Actor) DisplayName() string {
	if a.Username != "" {
		return a.Username
	}
	if a.Email != "" {
		return a.Email
	}

	return "Anonymous"
}

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
