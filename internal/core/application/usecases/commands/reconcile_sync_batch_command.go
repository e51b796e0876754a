package commands

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/auth"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrReconcileSyncBatchCommandIsNotConstructed = errors.New(
	"ReconcileSyncBatchCommand must be created via NewReconcileSyncBatchCommand constructor",
)

// SyncItem is one locally-recorded status change queued by a driver while
// offline. The idempotency key makes resubmission after a dropped response
// safe: an item whose key already appears on a committed history entry is
// reported as success without re-mutating.
type SyncItem struct {
	OrderID         kernel.UUID
	Target          order.Status
	ClientTimestamp time.Time
	IdempotencyKey  string
	Notes           string
	Proof           *order.ProofOfDelivery
}

// validate checks the structural validity of a single item.
func (i SyncItem) validate() error {
	if err := errors.Join(i.OrderID.Validate(), i.Target.Validate()); err != nil {
		return err
	}
	if i.ClientTimestamp.IsZero() {
		return errs.NewValueIsRequiredError("clientTimestamp")
	}
	if i.IdempotencyKey == "" {
		return errs.NewValueIsRequiredError("idempotencyKey")
	}
	if i.Proof != nil {
		if err := i.Proof.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ReconcileSyncBatchCommand submits a driver's offline-accumulated status
// changes for reconciliation against current server state.
//
// Example:
//
//	cmd, err := NewReconcileSyncBatchCommand(driverID, principal, []SyncItem{
//	    {OrderID: o1, Target: order.PickedUp, ClientTimestamp: t1, IdempotencyKey: "k1"},
//	    {OrderID: o1, Target: order.Delivered, ClientTimestamp: t2, IdempotencyKey: "k2", Proof: &photo},
//	})
type ReconcileSyncBatchCommand struct {
	driverID  kernel.UUID
	principal auth.Principal
	items     []SyncItem

	guard guard.ConstructorGuard
}

// NewReconcileSyncBatchCommand creates a validated reconciliation command.
// Only the batch envelope is validated here; item-level defects, structural
// or business, are reported per item during replay so one bad item cannot
// reject a driver's whole queue. The item list must be non-empty.
func NewReconcileSyncBatchCommand(
	driverID kernel.UUID, principal auth.Principal, items []SyncItem,
) (ReconcileSyncBatchCommand, error) {
	if err := errors.Join(driverID.Validate(), principal.Validate()); err != nil {
		return ReconcileSyncBatchCommand{}, err
	}
	if len(items) == 0 {
		return ReconcileSyncBatchCommand{}, errs.NewValueIsRequiredError("updates")
	}

	copied := make([]SyncItem, len(items))
	copy(copied, items)

	return ReconcileSyncBatchCommand{
		driverID:  driverID,
		principal: principal,
		items:     copied,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ReconcileSyncBatchCommand) Validate() error {
	return c.guard.Validate(ErrReconcileSyncBatchCommandIsNotConstructed)
}

// DriverID returns the driver whose queue is being reconciled.
func (c ReconcileSyncBatchCommand) DriverID() kernel.UUID { return c.driverID }

// Principal returns the submitting actor.
func (c ReconcileSyncBatchCommand) Principal() auth.Principal { return c.principal }

// Items returns the queued mutations in submission order.
func (c ReconcileSyncBatchCommand) Items() []SyncItem {
	items := make([]SyncItem, len(c.items))
	copy(items, c.items)
	return items
}
