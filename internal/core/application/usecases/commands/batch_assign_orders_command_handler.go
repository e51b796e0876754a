package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"
)

// BatchAssignOrdersCommandHandler executes batch assignment. Each order runs
// in its own transaction so a failed item cannot roll back a successful one.
// Engine-level failures (validation, conflict, not-found) are collected into
// per-order results; a warehouse-scope violation on any order aborts the
// whole call with an AuthorizationError.
type BatchAssignOrdersCommandHandler struct {
	uowFactory UoWFactory
	guard      services.AccessGuard
}

// NewBatchAssignOrdersCommandHandler creates a handler for batch assignment.
func NewBatchAssignOrdersCommandHandler(uowFactory UoWFactory) BatchAssignOrdersCommandHandler {
	return BatchAssignOrdersCommandHandler{
		uowFactory: uowFactory,
		guard:      services.NewAccessGuard(),
	}
}

// Handle processes the batch assignment command, returning one result per
// submitted order in submission order.
func (h BatchAssignOrdersCommandHandler) Handle(
	ctx context.Context, cmd BatchAssignOrdersCommand,
) ([]OrderOperationResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if err := h.guard.AuthorizeDispatch(cmd.Principal()); err != nil {
		return nil, err
	}

	results := make([]OrderOperationResult, 0, len(cmd.OrderIDs()))
	for _, orderID := range cmd.OrderIDs() {
		err := h.assignOne(ctx, cmd, orderID)
		if err == nil {
			results = append(results, successResult(orderID))
			continue
		}
		if errors.Is(err, errs.ErrAuthorizationFailed) {
			return nil, err
		}
		results = append(results, failureResult(orderID, err))
	}

	return results, nil
}

// assignOne binds the driver to a single order within its own transaction.
func (h BatchAssignOrdersCommandHandler) assignOne(
	ctx context.Context, cmd BatchAssignOrdersCommand, orderID kernel.UUID,
) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	target, err := uow.OrderRepository().Get(ctx, orderID)
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
