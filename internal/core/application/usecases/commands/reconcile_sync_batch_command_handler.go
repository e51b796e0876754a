package commands

import (
	"context"
	"errors"
	"sort"

	"dispatch/internal/core/domain/model/auth"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"
)

// ErrSyncDriverMismatch is returned when a driver principal submits a batch
// for a different driver's queue.
var ErrSyncDriverMismatch = errs.NewAuthorizationError("driver", "sync batch driver mismatch")

// ReconcileSyncBatchCommandHandler is the offline sync coordinator. It
// replays a driver's queued mutations against current server state through
// the exact transition path the online endpoints use, guaranteeing the two
// paths never diverge in semantics.
//
// Processing model:
//   - items are sorted by client timestamp ascending and applied strictly
//     sequentially, so a stale queued transition can never land after a
//     newer one from the same session;
//   - each item runs in its own transaction; a failed item is reported and
//     the remaining items continue. Server current state wins, and a
//     driver's valid queued work is never lost to one stale item;
//   - a structurally defective item (zero timestamp, missing idempotency
//     key) is itself a per-item validation failure, not a batch rejection;
//   - an item whose idempotency key already appears on a committed history
//     entry is reported as success without re-mutating;
//   - when the batch deadline expires, unprocessed items are reported as
//     retryable timeouts, not silently dropped.
type ReconcileSyncBatchCommandHandler struct {
	uowFactory UoWFactory
	guard      services.AccessGuard
}

// NewReconcileSyncBatchCommandHandler creates the offline sync coordinator.
func NewReconcileSyncBatchCommandHandler(uowFactory UoWFactory) ReconcileSyncBatchCommandHandler {
	return ReconcileSyncBatchCommandHandler{
		uowFactory: uowFactory,
		guard:      services.NewAccessGuard(),
	}
}

// Handle replays the batch and returns one result per submitted item, in
// client-timestamp order. Only an authorization failure aborts the whole
// call; every other failure is a per-item result.
func (h ReconcileSyncBatchCommandHandler) Handle(
	ctx context.Context, cmd ReconcileSyncBatchCommand,
) ([]OrderOperationResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	// A driver may only reconcile its own queue. Dispatcher-class roles may
	// replay on a driver's behalf (e.g. support tooling).
	if cmd.Principal().Role() == auth.RoleDriver {
		ownID := cmd.Principal().DriverID()
		if ownID == nil || !ownID.IsEqual(cmd.DriverID()) {
			return nil, ErrSyncDriverMismatch
		}
	}

	items := cmd.Items()
	sort.SliceStable(items, func(a, b int) bool {
		return items[a].ClientTimestamp.Before(items[b].ClientTimestamp)
	})

	results := make([]OrderOperationResult, 0, len(items))
	for idx, item := range items {
		if ctx.Err() != nil {
			// Budget exhausted: report this and all remaining items as
			// retryable timeouts.
			for _, remaining := range items[idx:] {
				results = append(results, OrderOperationResult{
					OrderID: remaining.OrderID,
					Success: false,
					Code:    CodeTimeout,
					Error:   "batch processing budget exceeded, resubmit this item",
				})
			}
			return results, nil
		}

		err := h.applyItem(ctx, cmd, item)
		if err == nil {
			results = append(results, successResult(item.OrderID))
			continue
		}
		if errors.Is(err, errs.ErrAuthorizationFailed) {
			return nil, err
		}
		results = append(results, failureResult(item.OrderID, err))
	}

	return results, nil
}

// applyItem replays one queued mutation in its own transaction.
func (h ReconcileSyncBatchCommandHandler) applyItem(
	ctx context.Context, cmd ReconcileSyncBatchCommand, item SyncItem,
) error {
	if err := item.validate(); err != nil {
		return err
	}
	if item.Target == order.Assigned || item.Target == order.Unassigned {
		return ErrAssignmentViaStatusChange
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	target, err := uow.OrderRepository().Get(ctx, item.OrderID)
	if err != nil {
		return err
	}

	// The order may have been reassigned while the driver was offline; its
	// queued transitions are then stale and must not apply.
	if target.Driver() == nil || !target.Driver().IsEqual(cmd.DriverID()) {
		return errs.NewOwnershipError("order", item.OrderID.String())
	}

	if err = h.guard.Authorize(cmd.Principal(), target.WarehouseID()); err != nil {
		return err
	}

	// Already applied on a previous submission: success, no second entry.
	if target.HasAppliedIdempotencyKey(item.IdempotencyKey) {
		return nil
	}

	if err = target.ApplyTransition(item.Target, order.TransitionPayload{
		ChangedBy:      cmd.Principal().ID(),
		Notes:          item.Notes,
		Proof:          item.Proof,
		At:             item.ClientTimestamp,
		IdempotencyKey: item.IdempotencyKey,
	}); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, target); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
