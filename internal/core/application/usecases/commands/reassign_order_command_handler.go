package commands

import (
	"context"

	"dispatch/internal/core/domain/services"
)

// ReassignOrderCommandHandler executes driver handover. Like single
// assignment, the check-and-write runs in one transaction under a
// version-guarded update so a concurrent mutation loses with a
// ConflictError.
type ReassignOrderCommandHandler struct {
	uowFactory UoWFactory
	guard      services.AccessGuard
}

// NewReassignOrderCommandHandler creates a handler for handover operations.
func NewReassignOrderCommandHandler(uowFactory UoWFactory) ReassignOrderCommandHandler {
	return ReassignOrderCommandHandler{
		uowFactory: uowFactory,
		guard:      services.NewAccessGuard(),
	}
}

// Handle processes the reassignment command.
func (h ReassignOrderCommandHandler) Handle(ctx context.Context, cmd ReassignOrderCommand) error {
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

	assignee, err := uow.DriverRepository().Get(ctx, cmd.NewDriverID())
	if err != nil {
		return err
	}
	if !assignee.WarehouseID().IsEqual(target.WarehouseID()) {
		return ErrDriverWarehouseMismatch
	}

	if err = target.Reassign(cmd.NewDriverID(), cmd.Principal().ID(), cmd.Reason()); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, target); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
