package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

func Test_CreateOrderCommandHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("should persist a new unassigned order", func(t *testing.T) {
		factory := newTestUoWFactory(t)
		warehouseID := kernel.NewUUID()

		customer, err := order.NewCustomer("Omar Haddad", "+9627900001", "12 Rainbow St", "Jabal Amman")
		require.NoError(t, err)
		orderID := kernel.NewUUID()
		cmd, err := commands.NewCreateOrderCommand(
			orderID, "SO-5001", warehouseID, customer,
			order.PaymentCard, 42.5, "leave at door", "aya", adminPrincipal(t))
		require.NoError(t, err)

		handler := commands.NewCreateOrderCommandHandler(orderUoWFactory{factory})
		require.NoError(t, handler.Handle(ctx, cmd))

		got := loadOrder(t, factory, orderID)
		assert.Equal(t, order.Unassigned, got.Status())
		assert.Equal(t, "SO-5001", got.SalesOrderNumber())
		assert.Equal(t, order.PaymentCard, got.PaymentMethod())
		assert.InEpsilon(t, 42.5, got.TotalAmount(), 1e-9)
		assert.Nil(t, got.Driver())

		history := got.History()
		require.Len(t, history, 1)
		assert.Equal(t, order.Unassigned, history[0].Status())
	})

	t.Run("should reject a duplicate sales order number", func(t *testing.T) {
		factory := newTestUoWFactory(t)
		warehouseID := kernel.NewUUID()
		seedOrder(t, factory, "SO-5002", warehouseID)

		customer, err := order.NewCustomer("Omar Haddad", "+9627900001", "12 Rainbow St", "Jabal Amman")
		require.NoError(t, err)
		cmd, err := commands.NewCreateOrderCommand(
			kernel.NewUUID(), "SO-5002", warehouseID, customer,
			order.PaymentCash, 10, "", "", adminPrincipal(t))
		require.NoError(t, err)

		handler := commands.NewCreateOrderCommandHandler(orderUoWFactory{factory})
		err = handler.Handle(ctx, cmd)

		assert.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("should reject a driver principal creating orders", func(t *testing.T) {
		factory := newTestUoWFactory(t)
		warehouseID := kernel.NewUUID()

		customer, err := order.NewCustomer("Omar Haddad", "+9627900001", "12 Rainbow St", "Jabal Amman")
		require.NoError(t, err)
		cmd, err := commands.NewCreateOrderCommand(
			kernel.NewUUID(), "SO-5004", warehouseID, customer,
			order.PaymentCash, 10, "", "", driverPrincipal(t, kernel.NewUUID(), warehouseID))
		require.NoError(t, err)

		handler := commands.NewCreateOrderCommandHandler(orderUoWFactory{factory})
		err = handler.Handle(ctx, cmd)

		assert.ErrorIs(t, err, errs.ErrAuthorizationFailed)
	})

	t.Run("should reject a dispatcher creating outside its scope", func(t *testing.T) {
		factory := newTestUoWFactory(t)

		customer, err := order.NewCustomer("Omar Haddad", "+9627900001", "12 Rainbow St", "Jabal Amman")
		require.NoError(t, err)
		cmd, err := commands.NewCreateOrderCommand(
			kernel.NewUUID(), "SO-5003", kernel.NewUUID(), customer,
			order.PaymentCash, 10, "", "", dispatcherPrincipal(t, kernel.NewUUID()))
		require.NoError(t, err)

		handler := commands.NewCreateOrderCommandHandler(orderUoWFactory{factory})
		err = handler.Handle(ctx, cmd)

		assert.ErrorIs(t, err, errs.ErrAuthorizationFailed)
	})
}
