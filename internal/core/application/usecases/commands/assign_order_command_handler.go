package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"
)

// ErrDriverWarehouseMismatch is returned when binding a driver from a
// different warehouse than the order's.
var ErrDriverWarehouseMismatch = errs.NewValueIsInvalidErrorWithCause(
	"driverID", errors.New("driver belongs to a different warehouse"))

// AssignOrderCommandHandler executes single-order assignment. Authorization
// runs first; the state check and write happen inside one transaction with a
// version-guarded update, so a racing assignment loses with a ConflictError
// instead of silently overwriting.
type AssignOrderCommandHandler struct {
	uowFactory UoWFactory
	guard      services.AccessGuard
}

// NewAssignOrderCommandHandler creates a handler for assignment operations.
func NewAssignOrderCommandHandler(uowFactory UoWFactory) AssignOrderCommandHandler {
	return AssignOrderCommandHandler{
		uowFactory: uowFactory,
		guard:      services.NewAccessGuard(),
	}
}

// Handle processes the assignment command.
func (h AssignOrderCommandHandler) Handle(ctx context.Context, cmd AssignOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if err := h.guard.AuthorizeDispatch(cmd.Principal()); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	target, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = h.guard.Authorize(cmd.Principal(), target.WarehouseID()); err != nil {
		return err
	}

	assignee, err := uow.DriverRepository().Get(ctx, cmd.DriverID())
	if err != nil {
		return err
	}
	if !assignee.WarehouseID().IsEqual(target.WarehouseID()) {
		return ErrDriverWarehouseMismatch
	}

	driverID := cmd.DriverID()
	if err = target.ApplyTransition(order.Assigned, order.TransitionPayload{
		ChangedBy: cmd.Principal().ID(),
		DriverID:  &driverID,
	}); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, target); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
