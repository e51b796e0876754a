package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/auth"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"
)

// ErrAssignmentViaStatusChange is returned when a status change command
// targets an assignment transition, which has its own commands.
var ErrAssignmentViaStatusChange = errs.NewValueIsInvalidErrorWithCause(
	"status", errors.New("assignment transitions use the assign/unassign operations"))

// ChangeOrderStatusCommandHandler executes a single online transition through
// the same aggregate path the offline sync replay uses. Driver principals may
// only transition orders currently assigned to them.
type ChangeOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	guard      services.AccessGuard
}

// NewChangeOrderStatusCommandHandler creates a handler for online status changes.
func NewChangeOrderStatusCommandHandler(uowFactory OrderUoWFactory) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		uowFactory: uowFactory,
		guard:      services.NewAccessGuard(),
	}
}

// Handle processes the status change command.
func (h ChangeOrderStatusCommandHandler) Handle(ctx context.Context, cmd ChangeOrderStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if cmd.Target() == order.Assigned || cmd.Target() == order.Unassigned {
		return ErrAssignmentViaStatusChange
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

	if cmd.Principal().Role() == auth.RoleDriver {
		driverID := cmd.Principal().DriverID()
		if target.Driver() == nil || driverID == nil || !target.Driver().IsEqual(*driverID) {
			return errs.NewOwnershipError("order", cmd.OrderID().String())
		}
	}

	if err = target.ApplyTransition(cmd.Target(), order.TransitionPayload{
		ChangedBy: cmd.Principal().ID(),
		Notes:     cmd.Notes(),
		Proof:     cmd.Proof(),
	}); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, target); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
