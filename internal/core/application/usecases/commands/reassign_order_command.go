package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/auth"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrReassignOrderCommandIsNotConstructed = errors.New(
	"ReassignOrderCommand must be created via NewReassignOrderCommand constructor",
)

// ReassignOrderCommand hands an assigned order over to a different driver.
// The order must currently be held (assigned or received, not yet picked up);
// the optional reason is recorded on the handover history entry.
type ReassignOrderCommand struct {
	orderID     kernel.UUID
	newDriverID kernel.UUID
	reason      string
	principal   auth.Principal

	guard guard.ConstructorGuard
}

// NewReassignOrderCommand creates a validated reassignment command.
func NewReassignOrderCommand(
	orderID, newDriverID kernel.UUID, reason string, principal auth.Principal,
) (ReassignOrderCommand, error) {
	if err := errors.Join(
		orderID.Validate(),
		newDriverID.Validate(),
		principal.Validate(),
	); err != nil {
		return ReassignOrderCommand{}, err
	}

	return ReassignOrderCommand{
		orderID:     orderID,
		newDriverID: newDriverID,
		reason:      reason,
		principal:   principal,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ReassignOrderCommand) Validate() error {
	return c.guard.Validate(ErrReassignOrderCommandIsNotConstructed)
}

// OrderID returns the order to hand over.
func (c ReassignOrderCommand) OrderID() kernel.UUID { return c.orderID }

// NewDriverID returns the driver taking over.
func (c ReassignOrderCommand) NewDriverID() kernel.UUID { return c.newDriverID }

// Reason returns the optional handover reason.
func (c ReassignOrderCommand) Reason() string { return c.reason }

// Principal returns the actor performing the handover.
func (c ReassignOrderCommand) Principal() auth.Principal { return c.principal }
