package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/auth"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrBatchAssignOrdersCommandIsNotConstructed = errors.New(
	"BatchAssignOrdersCommand must be created via NewBatchAssignOrdersCommand constructor",
)

// BatchAssignOrdersCommand binds one driver to several pending orders in one
// request. Each order is evaluated independently: one order's failure does
// not abort the rest, and the response enumerates a per-order outcome.
type BatchAssignOrdersCommand struct {
	orderIDs  []kernel.UUID
	driverID  kernel.UUID
	principal auth.Principal

	guard guard.ConstructorGuard
}

// NewBatchAssignOrdersCommand creates a validated batch assignment command.
// The order list must be non-empty and each ID valid.
func NewBatchAssignOrdersCommand(
	orderIDs []kernel.UUID, driverID kernel.UUID, principal auth.Principal,
) (BatchAssignOrdersCommand, error) {
	if len(orderIDs) == 0 {
		return BatchAssignOrdersCommand{}, errs.NewValueIsRequiredError("orderIDs")
	}
	if err := errors.Join(driverID.Validate(), principal.Validate()); err != nil {
		return BatchAssignOrdersCommand{}, err
	}
	ids := make([]kernel.UUID, len(orderIDs))
	for i, id := range orderIDs {
		if err := id.Validate(); err != nil {
			return BatchAssignOrdersCommand{}, err
		}
		ids[i] = id
	}

	return BatchAssignOrdersCommand{
		orderIDs:  ids,
		driverID:  driverID,
		principal: principal,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c BatchAssignOrdersCommand) Validate() error {
	return c.guard.Validate(ErrBatchAssignOrdersCommandIsNotConstructed)
}

// OrderIDs returns the orders to assign.
func (c BatchAssignOrdersCommand) OrderIDs() []kernel.UUID {
	ids := make([]kernel.UUID, len(c.orderIDs))
	copy(ids, c.orderIDs)
	return ids
}

// DriverID returns the driver to bind.
func (c BatchAssignOrdersCommand) DriverID() kernel.UUID { return c.driverID }

// Principal returns the actor performing the assignments.
func (c BatchAssignOrdersCommand) Principal() auth.Principal { return c.principal }
