// Package services provides domain services that implement business rules
// spanning multiple aggregates. The central service here is the AccessGuard,
// the warehouse-scoped authorization layer gating every order-scoped
// operation.
package services

import (
	"dispatch/internal/core/domain/model/auth"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// AccessGuard resolves a principal's allowed warehouse set and authorizes
// order-scoped operations against it. It is a pure function over the
// principal: no state, no I/O, safe for concurrent use.
//
// Example:
//
//	guard := services.NewAccessGuard()
//	if err := guard.Authorize(principal, order.WarehouseID()); err != nil {
//	    return err // *errs.AuthorizationError
//	}
type AccessGuard struct{}

// NewAccessGuard creates an AccessGuard.
func NewAccessGuard() AccessGuard {
	return AccessGuard{}
}

// AllowedWarehouses resolves the principal's warehouse scope.
// The second return value reports an unrestricted principal; when true, the
// returned set is nil and every warehouse is allowed.
func (AccessGuard) AllowedWarehouses(p auth.Principal) ([]kernel.UUID, bool) {
	if p.IsUnrestricted() {
		return nil, true
	}
	return p.AllowedWarehouseIDs(), false
}

// AuthorizeDispatch rejects driver principals. Assignment, order and driver
// management are dispatcher-class operations; a driver interacts with orders
// only through its own status transitions and the offline sync path.
func (AccessGuard) AuthorizeDispatch(p auth.Principal) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Role() == auth.RoleDriver {
		return errs.NewAuthorizationError("role", string(p.Role()))
	}
	return nil
}

// Authorize checks that warehouseID is within the principal's scope.
// Unrestricted principals bypass the check. Returns an AuthorizationError
// when the warehouse is outside the resolved set; callers surface it as
// HTTP 403 and abort the whole request.
func (g AccessGuard) Authorize(p auth.Principal, warehouseID kernel.UUID) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := warehouseID.Validate(); err != nil {
		return err
	}

	allowed, unrestricted := g.AllowedWarehouses(p)
	if unrestricted {
		return nil
	}

	for _, id := range allowed {
		if id.IsEqual(warehouseID) {
			return nil
		}
	}

	return errs.NewAuthorizationError("warehouse", warehouseID.String())
}
