package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

func Test_ReconcileSyncBatchCommandHandler_Handle(t *testing.T) {
	ctx := context.Background()
	base := time.Now().Add(-time.Hour).Truncate(time.Second)

	t.Run("should replay queued transitions in client timestamp order", func(t *testing.T) {
		factory := newTestUoWFactory(t)
		warehouseID := kernel.NewUUID()
		seeded := seedOrder(t, factory, "SO-4001", warehouseID)
		assignee := seedDriver(t, factory, "DRV-30", warehouseID)
		driverID := assignee.ID()
		applyTransitions(t, factory, seeded.ID(), kernel.NewUUID(), &driverID,
			order.Assigned, order.Received)

		// Submitted out of order; the handler must sort by client timestamp.
		cmd, err := commands.NewReconcileSyncBatchCommand(
			driverID, driverPrincipal(t, driverID, warehouseID),
			[]commands.SyncItem{
				{
					OrderID:         seeded.ID(),
					Target:          order.InTransit,
					ClientTimestamp: base.Add(10 * time.Minute),
					IdempotencyKey:  "q-2",
				},
				{
					OrderID:         seeded.ID(),
					Target:          order.PickedUp,
					ClientTimestamp: base.Add(5 * time.Minute),
					IdempotencyKey:  "q-1",
				},
			})
		require.NoError(t, err)

		handler := commands.NewReconcileSyncBatchCommandHandler(uowFactory{factory})
		results, err := handler.Handle(ctx, cmd)
		require.NoError(t, err)

		require.Len(t, results, 2)
		assert.True(t, results[0].Success)
		assert.True(t, results[1].Success)

		got := loadOrder(t, factory, seeded.ID())
		assert.Equal(t, order.InTransit, got.Status())

		history := got.History()
		require.Len(t, history, 5)
		assert.Equal(t, order.PickedUp, history[3].Status())
		assert.Equal(t, "q-1", history[3].IdempotencyKey())
		assert.True(t, history[3].Timestamp().Equal(base.Add(5*time.Minute)))
		assert.Equal(t, order.InTransit, history[4].Status())
		assert.Equal(t, "q-2", history[4].IdempotencyKey())
	})

	t.Run("should report success without re-applying a known idempotency key", func(t *testing.T) {
		factory := newTestUoWFactory(t)
		warehouseID := kernel.NewUUID()
		seeded := seedOrder(t, factory, "SO-4002", warehouseID)
		assignee := seedDriver(t, factory, "DRV-31", warehouseID)
		driverID := assignee.ID()
		applyTransitions(t, factory, seeded.ID(), kernel.NewUUID(), &driverID,
			order.Assigned, order.Received)

		cmd, err := commands.NewReconcileSyncBatchCommand(
			driverID, driverPrincipal(t, driverID, warehouseID),
			[]commands.SyncItem{{
				OrderID:         seeded.ID(),
				Target:          order.PickedUp,
				ClientTimestamp: base,
				IdempotencyKey:  "q-dup",
			}})
		require.NoError(t, err)

		handler := commands.NewReconcileSyncBatchCommandHandler(uowFactory{factory})

		// First submission applies, resubmission after a lost response is a
		// no-op success.
		for range 2 {
			results, handleErr := handler.Handle(ctx, cmd)
			require.NoError(t, handleErr)
			require.Len(t, results, 1)
			assert.True(t, results[0].Success)
		}

		got := loadOrder(t, factory, seeded.ID())
		assert.Equal(t, order.PickedUp, got.Status())
		assert.Len(t, got.History(), 4)
	})

	t.Run("should fail items for an order reassigned while offline", func(t *testing.T) {
		factory := newTestUoWFactory(t)
		warehouseID := kernel.NewUUID()
		seeded := seedOrder(t, factory, "SO-4003", warehouseID)
		former := seedDriver(t, factory, "DRV-32", warehouseID)
		current := seedDriver(t, factory, "DRV-33", warehouseID)
		currentID := current.ID()
		applyTransitions(t, factory, seeded.ID(), kernel.NewUUID(), &currentID, order.Assigned)

		cmd, err := commands.NewReconcileSyncBatchCommand(
			former.ID(), driverPrincipal(t, former.ID(), warehouseID),
			[]commands.SyncItem{{
				OrderID:         seeded.ID(),
				Target:          order.Received,
				ClientTimestamp: base,
				IdempotencyKey:  "q-stale",
			}})
		require.NoError(t, err)

		handler := commands.NewReconcileSyncBatchCommandHandler(uowFactory{factory})
		results, err := handler.Handle(ctx, cmd)
		require.NoError(t, err)

		require.Len(t, results, 1)
		assert.False(t, results[0].Success)
		assert.Equal(t, commands.CodeOwnershipError, results[0].Code)
		assert.Equal(t, order.Assigned, loadOrder(t, factory, seeded.ID()).Status())
	})

	t.Run("should continue past a stale item and apply the rest", func(t *testing.T) {
		factory := newTestUoWFactory(t)
		warehouseID := kernel.NewUUID()
		stale := seedOrder(t, factory, "SO-4004", warehouseID)
		live := seedOrder(t, factory, "SO-4005", warehouseID)
		assignee := seedDriver(t, factory, "DRV-34", warehouseID)
		driverID := assignee.ID()
		applyTransitions(t, factory, stale.ID(), kernel.NewUUID(), &driverID,
			order.Assigned, order.Received, order.Cancelled)
		applyTransitions(t, factory, live.ID(), kernel.NewUUID(), &driverID,
			order.Assigned, order.Received)

		cmd, err := commands.NewReconcileSyncBatchCommand(
			driverID, driverPrincipal(t, driverID, warehouseID),
			[]commands.SyncItem{
				{
					OrderID:         stale.ID(),
					Target:          order.PickedUp,
					ClientTimestamp: base,
					IdempotencyKey:  "q-3",
				},
				{
					OrderID:         live.ID(),
					Target:          order.PickedUp,
					ClientTimestamp: base.Add(time.Minute),
					IdempotencyKey:  "q-4",
				},
			})
		require.NoError(t, err)

		handler := commands.NewReconcileSyncBatchCommandHandler(uowFactory{factory})
		results, err := handler.Handle(ctx, cmd)
		require.NoError(t, err)
		require.Len(t, results, 2)

		assert.False(t, results[0].Success)
		assert.Equal(t, commands.CodeValidationError, results[0].Code)
		assert.True(t, results[1].Success)
		assert.Equal(t, order.PickedUp, loadOrder(t, factory, live.ID()).Status())
	})

	t.Run("should reject a driver submitting another driver's queue", func(t *testing.T) {
		factory := newTestUoWFactory(t)
		warehouseID := kernel.NewUUID()
		otherDriverID := kernel.NewUUID()

		cmd, err := commands.NewReconcileSyncBatchCommand(
			otherDriverID, driverPrincipal(t, kernel.NewUUID(), warehouseID),
			[]commands.SyncItem{{
				OrderID:         kernel.NewUUID(),
				Target:          order.Received,
				ClientTimestamp: base,
				IdempotencyKey:  "q-5",
			}})
		require.NoError(t, err)

		handler := commands.NewReconcileSyncBatchCommandHandler(uowFactory{factory})
		results, err := handler.Handle(ctx, cmd)

		assert.ErrorIs(t, err, errs.ErrAuthorizationFailed)
		assert.Nil(t, results)
	})

	t.Run("should reject assignment targets per item", func(t *testing.T) {
		factory := newTestUoWFactory(t)
		warehouseID := kernel.NewUUID()
		seeded := seedOrder(t, factory, "SO-4006", warehouseID)
		assignee := seedDriver(t, factory, "DRV-35", warehouseID)
		driverID := assignee.ID()
		applyTransitions(t, factory, seeded.ID(), kernel.NewUUID(), &driverID, order.Assigned)

		cmd, err := commands.NewReconcileSyncBatchCommand(
			driverID, driverPrincipal(t, driverID, warehouseID),
			[]commands.SyncItem{{
				OrderID:         seeded.ID(),
				Target:          order.Unassigned,
				ClientTimestamp: base,
				IdempotencyKey:  "q-6",
			}})
		require.NoError(t, err)

		handler := commands.NewReconcileSyncBatchCommandHandler(uowFactory{factory})
		results, err := handler.Handle(ctx, cmd)
		require.NoError(t, err)

		require.Len(t, results, 1)
		assert.False(t, results[0].Success)
		assert.Equal(t, commands.CodeValidationError, results[0].Code)
	})

	t.Run("should report unprocessed items as timeouts when the budget expires", func(t *testing.T) {
		factory := newTestUoWFactory(t)
		warehouseID := kernel.NewUUID()
		seeded := seedOrder(t, factory, "SO-4007", warehouseID)
		assignee := seedDriver(t, factory, "DRV-36", warehouseID)
		driverID := assignee.ID()
		applyTransitions(t, factory, seeded.ID(), kernel.NewUUID(), &driverID, order.Assigned)

		cmd, err := commands.NewReconcileSyncBatchCommand(
			driverID, driverPrincipal(t, driverID, warehouseID),
			[]commands.SyncItem{
				{
					OrderID:         seeded.ID(),
					Target:          order.Received,
					ClientTimestamp: base,
					IdempotencyKey:  "q-7",
				},
				{
					OrderID:         seeded.ID(),
					Target:          order.PickedUp,
					ClientTimestamp: base.Add(time.Minute),
					IdempotencyKey:  "q-8",
				},
			})
		require.NoError(t, err)

		expired, cancel := context.WithCancel(ctx)
		cancel()

		handler := commands.NewReconcileSyncBatchCommandHandler(uowFactory{factory})
		results, err := handler.Handle(expired, cmd)
		require.NoError(t, err)

		require.Len(t, results, 2)
		for _, result := range results {
			assert.False(t, result.Success)
			assert.Equal(t, commands.CodeTimeout, result.Code)
		}
		assert.Equal(t, order.Assigned, loadOrder(t, factory, seeded.ID()).Status())
	})

	t.Run("should report a structurally defective item without rejecting the batch", func(t *testing.T) {
		factory := newTestUoWFactory(t)
		warehouseID := kernel.NewUUID()
		seeded := seedOrder(t, factory, "SO-4008", warehouseID)
		assignee := seedDriver(t, factory, "DRV-37", warehouseID)
		driverID := assignee.ID()
		applyTransitions(t, factory, seeded.ID(), kernel.NewUUID(), &driverID, order.Assigned)

		cmd, err := commands.NewReconcileSyncBatchCommand(
			driverID, driverPrincipal(t, driverID, warehouseID),
			[]commands.SyncItem{
				{
					// No idempotency key: a per-item defect, not a batch one.
					OrderID:         seeded.ID(),
					Target:          order.Received,
					ClientTimestamp: base,
				},
				{
					OrderID:         seeded.ID(),
					Target:          order.Received,
					ClientTimestamp: base.Add(time.Minute),
					IdempotencyKey:  "q-7",
				},
			})
		require.NoError(t, err)

		handler := commands.NewReconcileSyncBatchCommandHandler(uowFactory{factory})
		results, err := handler.Handle(ctx, cmd)
		require.NoError(t, err)
		require.Len(t, results, 2)

		assert.False(t, results[0].Success)
		assert.Equal(t, commands.CodeValidationError, results[0].Code)
		assert.True(t, results[1].Success)
		assert.Equal(t, order.Received, loadOrder(t, factory, seeded.ID()).Status())
	})

	t.Run("should require a non-empty item list", func(t *testing.T) {
		_, err := commands.NewReconcileSyncBatchCommand(
			kernel.NewUUID(), adminPrincipal(t), nil)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}
