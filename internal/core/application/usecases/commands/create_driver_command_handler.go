package commands

import (
	"context"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/services"
)

// CreateDriverCommandHandler handles driver registration.
type CreateDriverCommandHandler struct {
	uowFactory DriverUoWFactory
	guard      services.AccessGuard
}

// NewCreateDriverCommandHandler creates a handler for driver registration.
func NewCreateDriverCommandHandler(uowFactory DriverUoWFactory) CreateDriverCommandHandler {
	return CreateDriverCommandHandler{
		uowFactory: uowFactory,
		guard:      services.NewAccessGuard(),
	}
}

// Handle processes the driver registration command. A duplicate code within
// the warehouse surfaces as a ConflictError from the repository.
func (h CreateDriverCommandHandler) Handle(ctx context.Context, cmd CreateDriverCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if err := h.guard.AuthorizeDispatch(cmd.Principal()); err != nil {
		return err
	}

	if err := h.guard.Authorize(cmd.Principal(), cmd.WarehouseID()); err != nil {
		return err
	}

	newDriver, err := driver.NewDriver(
		cmd.DriverID(), cmd.UserID(), cmd.Code(), cmd.Name(), cmd.WarehouseID())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.DriverRepository().Add(ctx, newDriver); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
