package commands

import (
	"context"

	"dispatch/internal/core/domain/services"
)

// UnarchiveOrderCommandHandler restores an archived order.
type UnarchiveOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	guard      services.AccessGuard
}

// NewUnarchiveOrderCommandHandler creates a handler for un-archive operations.
func NewUnarchiveOrderCommandHandler(uowFactory OrderUoWFactory) UnarchiveOrderCommandHandler {
	return UnarchiveOrderCommandHandler{
		uowFactory: uowFactory,
		guard:      services.NewAccessGuard(),
	}
}

// Handle processes the un-archive command.
func (h UnarchiveOrderCommandHandler) Handle(ctx context.Context, cmd UnarchiveOrderCommand) error {
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

	if err = target.Unarchive(); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, target); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
