package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/auth"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrUnarchiveOrderCommandIsNotConstructed = errors.New(
	"UnarchiveOrderCommand must be created via NewUnarchiveOrderCommand constructor",
)

// UnarchiveOrderCommand restores an archived order, the only mutation an
// archived order accepts.
type UnarchiveOrderCommand struct {
	orderID   kernel.UUID
	principal auth.Principal

	guard guard.ConstructorGuard
}

// NewUnarchiveOrderCommand creates a validated un-archive command.
func NewUnarchiveOrderCommand(orderID kernel.UUID, principal auth.Principal) (UnarchiveOrderCommand, error) {
	if err := errors.Join(orderID.Validate(), principal.Validate()); err != nil {
		return UnarchiveOrderCommand{}, err
	}

	return UnarchiveOrderCommand{
		orderID:   orderID,
		principal: principal,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c UnarchiveOrderCommand) Validate() error {
	return c.guard.Validate(ErrUnarchiveOrderCommandIsNotConstructed)
}

// OrderID returns the order to restore.
func (c UnarchiveOrderCommand) OrderID() kernel.UUID { return c.orderID }

// Principal returns the actor restoring the order.
func (c UnarchiveOrderCommand) Principal() auth.Principal { return c.principal }
