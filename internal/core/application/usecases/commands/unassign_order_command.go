package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/auth"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrUnassignOrderCommandIsNotConstructed = errors.New(
	"UnassignOrderCommand must be created via NewUnassignOrderCommand constructor",
)

// UnassignOrderCommand explicitly releases an assigned order back to pending,
// clearing its driver binding.
type UnassignOrderCommand struct {
	orderID   kernel.UUID
	principal auth.Principal

	guard guard.ConstructorGuard
}

// NewUnassignOrderCommand creates a validated unassign command.
func NewUnassignOrderCommand(orderID kernel.UUID, principal auth.Principal) (UnassignOrderCommand, error) {
	if err := errors.Join(orderID.Validate(), principal.Validate()); err != nil {
		return UnassignOrderCommand{}, err
	}

	return UnassignOrderCommand{
		orderID:   orderID,
		principal: principal,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c UnassignOrderCommand) Validate() error {
	return c.guard.Validate(ErrUnassignOrderCommandIsNotConstructed)
}

// OrderID returns the order to release.
func (c UnassignOrderCommand) OrderID() kernel.UUID { return c.orderID }

// Principal returns the actor releasing the order.
func (c UnassignOrderCommand) Principal() auth.Principal { return c.principal }
