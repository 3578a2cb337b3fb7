// Package policy is the single place role and ownership rules live. All
// decisions are pure functions over (actor, order); services call them before
// touching the repository.
package policy

import (
	"github.com/google/uuid"

	"github.com/freshfold/orderdesk/internal/service/models/actor"
	"github.com/freshfold/orderdesk/internal/service/models/order"
)

func canAccess(a actor.Actor, o order.Order) bool {
	return a.IsAdmin() || o.UserID == a.ID
}

// CanView reports whether the actor may read the order.
func CanView(a actor.Actor, o order.Order) bool { return canAccess(a, o) }

// CanEdit reports whether the actor may update the order.
func CanEdit(a actor.Actor, o order.Order) bool { return canAccess(a, o) }

// CanDelete reports whether the actor may delete the order.
func CanDelete(a actor.Actor, o order.Order) bool { return canAccess(a, o) }

// CanExport reports whether the actor may export the order.
func CanExport(a actor.Actor, o order.Order) bool { return canAccess(a, o) }

// ListScope resolves the owner filter for a listing. Admins get whatever they
// asked for (nil meaning all orders). Members are always narrowed to their own
// orders, silently, no matter which owner they requested.
func ListScope(a actor.Actor, requestedOwner *uuid.UUID) *uuid.UUID {
	if a.IsAdmin() {
		return requestedOwner
	}
	owner := a.ID

	return &owner
}
