package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

func Test_CreateDriverCommandHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("should persist a new offline driver", func(t *testing.T) {
		factory := newTestUoWFactory(t)
		warehouseID := kernel.NewUUID()
		driverID := kernel.NewUUID()

		cmd, err := commands.NewCreateDriverCommand(
			driverID, kernel.NewUUID(), "DRV-50", "Khalid", warehouseID, adminPrincipal(t))
		require.NoError(t, err)

		handler := commands.NewCreateDriverCommandHandler(driverUoWFactory{factory})
		require.NoError(t, handler.Handle(ctx, cmd))

		got, err := factory.Create().DriverRepository().Get(ctx, driverID)
		require.NoError(t, err)
		assert.Equal(t, "DRV-50", got.Code())
		assert.Equal(t, driver.AvailabilityOffline, got.Availability())
		assert.Nil(t, got.LastKnownLocation())
	})

	t.Run("should reject a driver principal creating drivers", func(t *testing.T) {
		factory := newTestUoWFactory(t)
		warehouseID := kernel.NewUUID()

		cmd, err := commands.NewCreateDriverCommand(
			kernel.NewUUID(), kernel.NewUUID(), "DRV-55", "Khalid", warehouseID,
			driverPrincipal(t, kernel.NewUUID(), warehouseID))
		require.NoError(t, err)

		handler := commands.NewCreateDriverCommandHandler(driverUoWFactory{factory})
		err = handler.Handle(ctx, cmd)

		assert.ErrorIs(t, err, errs.ErrAuthorizationFailed)
	})

	t.Run("should reject a duplicate code within the warehouse", func(t *testing.T) {
		factory := newTestUoWFactory(t)
		warehouseID := kernel.NewUUID()
		seedDriver(t, factory, "DRV-51", warehouseID)

		cmd, err := commands.NewCreateDriverCommand(
			kernel.NewUUID(), kernel.NewUUID(), "DRV-51", "Khalid", warehouseID, adminPrincipal(t))
		require.NoError(t, err)

		handler := commands.NewCreateDriverCommandHandler(driverUoWFactory{factory})
		err = handler.Handle(ctx, cmd)

		assert.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("should allow the same code in another warehouse", func(t *testing.T) {
		factory := newTestUoWFactory(t)
		seedDriver(t, factory, "DRV-52", kernel.NewUUID())

		cmd, err := commands.NewCreateDriverCommand(
			kernel.NewUUID(), kernel.NewUUID(), "DRV-52", "Khalid", kernel.NewUUID(), adminPrincipal(t))
		require.NoError(t, err)

		handler := commands.NewCreateDriverCommandHandler(driverUoWFactory{factory})
		assert.NoError(t, handler.Handle(ctx, cmd))
	})

	t.Run("should reject a dispatcher outside the warehouse scope", func(t *testing.T) {
		factory := newTestUoWFactory(t)

		cmd, err := commands.NewCreateDriverCommand(
			kernel.NewUUID(), kernel.NewUUID(), "DRV-53", "Khalid",
			kernel.NewUUID(), dispatcherPrincipal(t, kernel.NewUUID()))
		require.NoError(t, err)

		handler := commands.NewCreateDriverCommandHandler(driverUoWFactory{factory})
		err = handler.Handle(ctx, cmd)

		assert.ErrorIs(t, err, errs.ErrAuthorizationFailed)
	})
}
