package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

func Test_AssignOrderCommandHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("should bind driver and advance order to assigned", func(t *testing.T) {
		factory := newTestUoWFactory(t)
		warehouseID := kernel.NewUUID()
		seeded := seedOrder(t, factory, "SO-1001", warehouseID)
		assignee := seedDriver(t, factory, "DRV-01", warehouseID)

		cmd, err := commands.NewAssignOrderCommand(seeded.ID(), assignee.ID(), adminPrincipal(t))
		require.NoError(t, err)

		handler := commands.NewAssignOrderCommandHandler(uowFactory{factory})
		require.NoError(t, handler.Handle(ctx, cmd))

		got := loadOrder(t, factory, seeded.ID())
		assert.Equal(t, order.Assigned, got.Status())
		require.NotNil(t, got.Driver())
		assert.True(t, got.Driver().IsEqual(assignee.ID()))
		assert.NotNil(t, got.AssignedAt())
		assert.Greater(t, got.Version(), seeded.Version())

		history := got.History()
		require.Len(t, history, 2)
		assert.Equal(t, order.Unassigned, history[0].Status())
		assert.Equal(t, order.Assigned, history[1].Status())
	})

	t.Run("should reject driver from a different warehouse", func(t *testing.T) {
		factory := newTestUoWFactory(t)
		seeded := seedOrder(t, factory, "SO-1002", kernel.NewUUID())
		assignee := seedDriver(t, factory, "DRV-02", kernel.NewUUID())

		cmd, err := commands.NewAssignOrderCommand(seeded.ID(), assignee.ID(), adminPrincipal(t))
		require.NoError(t, err)

		handler := commands.NewAssignOrderCommandHandler(uowFactory{factory})
		err = handler.Handle(ctx, cmd)

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Equal(t, order.Unassigned, loadOrder(t, factory, seeded.ID()).Status())
	})

	t.Run("should reject dispatcher outside the order's warehouse scope", func(t *testing.T) {
		factory := newTestUoWFactory(t)
		warehouseID := kernel.NewUUID()
		seeded := seedOrder(t, factory, "SO-1003", warehouseID)
		assignee := seedDriver(t, factory, "DRV-03", warehouseID)

		cmd, err := commands.NewAssignOrderCommand(
			seeded.ID(), assignee.ID(), dispatcherPrincipal(t, kernel.NewUUID()))
		require.NoError(t, err)

		handler := commands.NewAssignOrderCommandHandler(uowFactory{factory})
		err = handler.Handle(ctx, cmd)

		assert.ErrorIs(t, err, errs.ErrAuthorizationFailed)
	})

	t.Run("should reject a driver principal attempting self-assignment", func(t *testing.T) {
		factory := newTestUoWFactory(t)
		warehouseID := kernel.NewUUID()
		seeded := seedOrder(t, factory, "SO-1008", warehouseID)
		assignee := seedDriver(t, factory, "DRV-08", warehouseID)

		cmd, err := commands.NewAssignOrderCommand(
			seeded.ID(), assignee.ID(), driverPrincipal(t, assignee.ID(), warehouseID))
		require.NoError(t, err)

		handler := commands.NewAssignOrderCommandHandler(uowFactory{factory})
		err = handler.Handle(ctx, cmd)

		assert.ErrorIs(t, err, errs.ErrAuthorizationFailed)
		assert.Equal(t, order.Unassigned, loadOrder(t, factory, seeded.ID()).Status())
	})

	t.Run("should return not found for unknown order", func(t *testing.T) {
		factory := newTestUoWFactory(t)
		assignee := seedDriver(t, factory, "DRV-04", kernel.NewUUID())

		cmd, err := commands.NewAssignOrderCommand(kernel.NewUUID(), assignee.ID(), adminPrincipal(t))
		require.NoError(t, err)

		handler := commands.NewAssignOrderCommandHandler(uowFactory{factory})
		err = handler.Handle(ctx, cmd)

		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("should reject assignment of an already assigned order", func(t *testing.T) {
		factory := newTestUoWFactory(t)
		warehouseID := kernel.NewUUID()
		seeded := seedOrder(t, factory, "SO-1005", warehouseID)
		first := seedDriver(t, factory, "DRV-05", warehouseID)
		second := seedDriver(t, factory, "DRV-06", warehouseID)

		handler := commands.NewAssignOrderCommandHandler(uowFactory{factory})

		cmd, err := commands.NewAssignOrderCommand(seeded.ID(), first.ID(), adminPrincipal(t))
		require.NoError(t, err)
		require.NoError(t, handler.Handle(ctx, cmd))

		cmd, err = commands.NewAssignOrderCommand(seeded.ID(), second.ID(), adminPrincipal(t))
		require.NoError(t, err)
		err = handler.Handle(ctx, cmd)

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		got := loadOrder(t, factory, seeded.ID())
		require.NotNil(t, got.Driver())
		assert.True(t, got.Driver().IsEqual(first.ID()))
	})

	t.Run("should reject a command bypassing the constructor", func(t *testing.T) {
		factory := newTestUoWFactory(t)
		handler := commands.NewAssignOrderCommandHandler(uowFactory{factory})

		err := handler.Handle(ctx, commands.AssignOrderCommand{})
		assert.True(t, errors.Is(err, commands.ErrAssignOrderCommandIsNotConstructed))
	})
}
