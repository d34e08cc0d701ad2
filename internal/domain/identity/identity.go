package identity

import (
	"context"
	"errors"
)

// Role is an actor's coarse role on the portal.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleLeader   Role = "leader"
	RoleAdmin    Role = "admin"
)

// Actor is the authenticated caller, as extracted from JWT claims.
type Actor struct {
	EmployeeID string
	BranchID   string
	Role       Role
}

var ErrEmployeeNotFound = errors.New("employee not found")

// RoleProvider answers the role questions the approval workflow guards
// need. It is a boundary to the identity system; the core never manages
// users itself.
type RoleProvider interface {
	// IsLeaderFor reports whether actor may review ledgers owned by
	// ownerID, i.e. holds the leader role for the owner's branch.
	IsLeaderFor(ctx context.Context, actorID, ownerID string) (bool, error)
	IsAdmin(ctx context.Context, actorID string) (bool, error)
}
