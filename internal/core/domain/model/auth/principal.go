// Package auth holds the authenticated-principal abstraction consumed by every
// authorized operation. Credential issuance and session management live outside
// this system; a Principal is the already-validated result of token checking.
package auth

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Role identifies the kind of actor behind a request.
type Role string

const (
	// RoleAdmin is the top-level role with unrestricted warehouse scope.
	RoleAdmin Role = "admin"
	// RoleManager manages orders and drivers within its warehouse scope.
	RoleManager Role = "manager"
	// RoleDispatcher coordinates order assignment within its warehouse scope.
	RoleDispatcher Role = "dispatcher"
	// RoleDriver executes deliveries; carries a driver identity and may only
	// mutate orders assigned to it.
	RoleDriver Role = "driver"
)

// validRoles supports Role validation from external input.
var validRoles = map[Role]struct{}{
	RoleAdmin:      {},
	RoleManager:    {},
	RoleDispatcher: {},
	RoleDriver:     {},
}

// Validate checks the role against the closed set of known roles.
func (r Role) Validate() error {
	if _, ok := validRoles[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("role", errors.New(string(r)+" is not a valid role"))
	}
	return nil
}

// ErrPrincipalIsNotConstructed is returned when using an improperly
// initialized Principal.
var ErrPrincipalIsNotConstructed = errors.New("Principal must be created via NewPrincipal constructor")

// ErrDriverIdentityRequired is returned when constructing a driver principal
// without a driver identity.
var ErrDriverIdentityRequired = errs.NewValueIsRequiredError("driverID")

// Principal is the authenticated actor performing an operation: a user
// identity, a role, and a warehouse scope. A nil warehouse set means the
// principal is unrestricted and bypasses all scope checks. Driver principals
// additionally carry the driver entity they act as.
//
// Principal is immutable and safe to share across goroutines.
type Principal struct {
	id           kernel.UUID
	role         Role
	warehouseIDs []kernel.UUID
	driverID     *kernel.UUID

	guard guard.ConstructorGuard
}

// NewPrincipal creates a validated Principal.
//
// warehouseIDs carries the allowed warehouse set; nil means unrestricted.
// Driver principals must supply driverID; other roles must not rely on it.
func NewPrincipal(id kernel.UUID, role Role, warehouseIDs []kernel.UUID, driverID *kernel.UUID) (Principal, error) {
	if err := id.Validate(); err != nil {
		return Principal{}, err
	}
	if err := role.Validate(); err != nil {
		return Principal{}, err
	}
	if role == RoleDriver && driverID == nil {
		return Principal{}, ErrDriverIdentityRequired
	}
	if driverID != nil {
		if err := driverID.Validate(); err != nil {
			return Principal{}, err
		}
	}

	scope := warehouseIDs
	if warehouseIDs != nil {
		scope = make([]kernel.UUID, len(warehouseIDs))
		copy(scope, warehouseIDs)
	}

	return Principal{
		id:           id,
		role:         role,
		warehouseIDs: scope,
		driverID:     driverID,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// ID returns the principal's user identity.
func (p Principal) ID() kernel.UUID {
	return p.id
}

// Role returns the principal's role.
func (p Principal) Role() Role {
	return p.role
}

// DriverID returns the driver identity for driver principals, nil otherwise.
func (p Principal) DriverID() *kernel.UUID {
	return p.driverID
}

// IsUnrestricted reports whether the principal bypasses warehouse scoping.
func (p Principal) IsUnrestricted() bool {
	return p.warehouseIDs == nil
}

// AllowedWarehouseIDs returns the warehouse scope, nil when unrestricted.
func (p Principal) AllowedWarehouseIDs() []kernel.UUID {
	if p.warehouseIDs == nil {
		return nil
	}
	scope := make([]kernel.UUID, len(p.warehouseIDs))
	copy(scope, p.warehouseIDs)
	return scope
}

// Validate returns ErrPrincipalIsNotConstructed for zero-value principals.
func (p Principal) Validate() error {
	return p.guard.Validate(ErrPrincipalIsNotConstructed)
}
