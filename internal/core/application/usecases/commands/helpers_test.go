package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/driverrepo"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/auth"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// newTestUoWFactory builds a unit-of-work factory over an in-memory sqlite
// database. The single-connection pool keeps the in-memory database alive
// and shared across transactions.
func newTestUoWFactory(t *testing.T) *postgres.GormUnitOfWorkFactory {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.HistoryDTO{},
		&driverrepo.DriverDTO{},
	))

	return postgres.NewGormUnitOfWorkFactory(db)
}

type uowFactory struct{ inner *postgres.GormUnitOfWorkFactory }

func (f uowFactory) Create() commands.UoW { return f.inner.Create() }

type orderUoWFactory struct{ inner *postgres.GormUnitOfWorkFactory }

func (f orderUoWFactory) Create() commands.OrderUoW { return f.inner.Create() }

type driverUoWFactory struct{ inner *postgres.GormUnitOfWorkFactory }

func (f driverUoWFactory) Create() commands.DriverUoW { return f.inner.Create() }

func adminPrincipal(t *testing.T) auth.Principal {
	t.Helper()
	p, err := auth.NewPrincipal(kernel.NewUUID(), auth.RoleAdmin, nil, nil)
	require.NoError(t, err)
	return p
}

func dispatcherPrincipal(t *testing.T, warehouses ...kernel.UUID) auth.Principal {
	t.Helper()
	p, err := auth.NewPrincipal(kernel.NewUUID(), auth.RoleDispatcher, warehouses, nil)
	require.NoError(t, err)
	return p
}

func driverPrincipal(t *testing.T, driverID kernel.UUID, warehouses ...kernel.UUID) auth.Principal {
	t.Helper()
	p, err := auth.NewPrincipal(kernel.NewUUID(), auth.RoleDriver, warehouses, &driverID)
	require.NoError(t, err)
	return p
}

func seedOrder(t *testing.T, factory *postgres.GormUnitOfWorkFactory, salesNumber string, warehouseID kernel.UUID) *order.Order {
	t.Helper()

	customer, err := order.NewCustomer("Lina Odeh", "+9627900002", "7 Wakalat St", "Sweifieh")
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), salesNumber, warehouseID, customer, order.PaymentCash, 25, "", "")
	require.NoError(t, err)

	ctx := context.Background()
	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.OrderRepository().Add(ctx, o))
	require.NoError(t, uow.Commit(ctx))
	return o
}

func seedDriver(t *testing.T, factory *postgres.GormUnitOfWorkFactory, code string, warehouseID kernel.UUID) *driver.Driver {
	t.Helper()

	d, err := driver.NewDriver(kernel.NewUUID(), kernel.NewUUID(), code, "Samir", warehouseID)
	require.NoError(t, err)

	ctx := context.Background()
	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.DriverRepository().Add(ctx, d))
	require.NoError(t, uow.Commit(ctx))
	return d
}

// applyTransitions walks a seeded order through transitions and persists it.
func applyTransitions(
	t *testing.T,
	factory *postgres.GormUnitOfWorkFactory,
	orderID kernel.UUID,
	changedBy kernel.UUID,
	driverID *kernel.UUID,
	targets ...order.Status,
) {
	t.Helper()

	ctx := context.Background()
	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	o, err := uow.OrderRepository().Get(ctx, orderID)
	require.NoError(t, err)

	for _, target := range targets {
		payload := order.TransitionPayload{ChangedBy: changedBy}
		if target == order.Assigned {
			payload.DriverID = driverID
		}
		if target.RequiresReason() {
			payload.Notes = "seed reason"
		}
		if target.RequiresProof() {
			proof, proofErr := order.NewProofOfDelivery(order.ProofPhoto, "https://pod/seed.jpg", time.Now())
			require.NoError(t, proofErr)
			payload.Proof = &proof
		}
		require.NoError(t, o.ApplyTransition(target, payload))
	}

	require.NoError(t, uow.OrderRepository().Update(ctx, o))
	require.NoError(t, uow.Commit(ctx))
}

func loadOrder(t *testing.T, factory *postgres.GormUnitOfWorkFactory, orderID kernel.UUID) *order.Order {
	t.Helper()

	o, err := factory.Create().OrderRepository().Get(context.Background(), orderID)
	require.NoError(t, err)
	return o
}
