// Package service implements the reservation lifecycle engine and the
// supporting services behind the HTTP surface.  Services receive an
// already-authenticated model.Actor and return *apperr.Error values.
package service

import (
	"slices"

	"github.com/iliyamo/space-reservation/internal/apperr"
	"github.com/iliyamo/space-reservation/internal/model"
)

// Subject is the ownership data a policy looks at on its target.
type Subject struct {
	UserID    uint64  // creator of a reservation
	ManagerID *uint64 // manager of a space
}

func ReservationSubject(r model.Reservation) Subject { return Subject{UserID: r.UserID} }

func SpaceSubject(s model.Space) Subject { return Subject{ManagerID: s.ManagerID} }

// OwnershipRule decides whether actor may act on subject.
type OwnershipRule func(actor model.Actor, subject Subject) bool

// ReservationOwnership: the creator, or any manager/admin.
func ReservationOwnership(actor model.Actor, s Subject) bool {
	return actor.ID == s.UserID || actor.Role.IsStaff()
}

// SpaceOwnership: the space's manager, or any admin.
func SpaceOwnership(actor model.Actor, s Subject) bool {
	return actor.Role == model.RoleAdmin || (s.ManagerID != nil && *s.ManagerID == actor.ID)
}

// Policy guards one operation.  An empty RequiredRoles admits every role;
// a nil Owner skips the ownership check.
type Policy struct {
	Name          string
	RequiredRoles []model.Role
	Owner         OwnershipRule
}

// Authorize runs the role check.  Operations call it before looking at
// their input so authorization failures win over validation failures.
func (p Policy) Authorize(actor model.Actor) error {
	if actor.ID == 0 || !actor.Role.Valid() {
		return apperr.Forbidden("%s: unauthenticated actor", p.Name)
	}
	if len(p.RequiredRoles) > 0 && !slices.Contains(p.RequiredRoles, actor.Role) {
		return apperr.Forbidden("%s requires role %v", p.Name, p.RequiredRoles)
	}
	return nil
}

// AuthorizeOn runs the role check and then the ownership rule against subject.
func (p Policy) AuthorizeOn(actor model.Actor, subject Subject) error {
	if err := p.Authorize(actor); err != nil {
		return err
	}
	if p.Owner != nil && !p.Owner(actor, subject) {
		return apperr.Forbidden("%s: not allowed on this resource", p.Name)
	}
	return nil
}

var (
	staffRoles = []model.Role{model.RoleManager, model.RoleAdmin}
	adminOnly  = []model.Role{model.RoleAdmin}
)

// Operation policies.
var (
	PolicyCreateReservation = Policy{Name: "create reservation"}
	PolicyReadReservation   = Policy{Name: "read reservation", Owner: ReservationOwnership}
	PolicyListReservations  = Policy{Name: "list reservations", RequiredRoles: staffRoles}
	PolicyTransitionStatus  = Policy{Name: "change reservation status", RequiredRoles: staffRoles}
	PolicyCancelReservation = Policy{Name: "cancel reservation", Owner: ReservationOwnership}
	PolicyReadAllHistory    = Policy{Name: "read reservation history", RequiredRoles: adminOnly}
	PolicyCreateSpace       = Policy{Name: "create space", RequiredRoles: staffRoles}
	PolicyManageSpace       = Policy{Name: "manage space", RequiredRoles: staffRoles, Owner: SpaceOwnership}
	PolicyManageResources   = Policy{Name: "manage resources", RequiredRoles: adminOnly}
	PolicyManageUsers       = Policy{Name: "manage users", RequiredRoles: adminOnly}
	PolicyAuthenticated     = Policy{Name: "read"}
)
