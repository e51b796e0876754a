package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/auth"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrAssignOrderCommandIsNotConstructed = errors.New(
	"AssignOrderCommand must be created via NewAssignOrderCommand constructor",
)

// AssignOrderCommand binds a driver to a pending order. The order must be in
// pending status; the bind is an atomic conditional update that fails with a
// ConflictError when a concurrent assignment wins the race.
//
// Example:
//
//	cmd, err := NewAssignOrderCommand(orderID, driverID, principal)
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrConflict) {
//	    // another dispatcher assigned this order first
//	}
type AssignOrderCommand struct {
	orderID   kernel.UUID
	driverID  kernel.UUID
	principal auth.Principal

	guard guard.ConstructorGuard
}

// NewAssignOrderCommand creates a validated assignment command.
func NewAssignOrderCommand(orderID, driverID kernel.UUID, principal auth.Principal) (AssignOrderCommand, error) {
	if err := errors.Join(
		orderID.Validate(),
		driverID.Validate(),
		principal.Validate(),
	); err != nil {
		return AssignOrderCommand{}, err
	}

	return AssignOrderCommand{
		orderID:   orderID,
		driverID:  driverID,
		principal: principal,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignOrderCommand) Validate() error {
	return c.guard.Validate(ErrAssignOrderCommandIsNotConstructed)
}

// OrderID returns the order to assign.
func (c AssignOrderCommand) OrderID() kernel.UUID { return c.orderID }

// DriverID returns the driver to bind.
func (c AssignOrderCommand) DriverID() kernel.UUID { return c.driverID }

// Principal returns the actor performing the assignment.
func (c AssignOrderCommand) Principal() auth.Principal { return c.principal }
