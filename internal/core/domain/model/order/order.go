package order

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Domain errors for order operations.
var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")
	// ErrOrderIsArchived is returned when mutating an archived order.
	// Archived orders accept no mutation except un-archive.
	ErrOrderIsArchived = errs.NewValueIsInvalidErrorWithCause(
		"order", errors.New("archived order accepts no mutation"))
	// ErrDriverIsRequired is returned when a transition into Assigned lacks
	// a driver identity.
	ErrDriverIsRequired = errs.NewValueIsRequiredError("driverID")
	// ErrReasonIsRequired is returned when entering Cancelled, Rejected, or
	// Returned without a non-empty reason.
	ErrReasonIsRequired = errs.NewValueIsRequiredError("reason")
	// ErrProofIsRequired is returned when entering Delivered without a proof
	// of delivery reference.
	ErrProofIsRequired = errs.NewValueIsRequiredError("proof of delivery")
	// ErrOrderNotReassignable is returned when reassigning an order that is
	// not currently held by a driver or already progressed past Received.
	ErrOrderNotReassignable = errs.NewValueIsInvalidErrorWithCause(
		"order", errors.New("order is not currently reassignable"))
)

// TransitionPayload carries the inputs of a single status transition beyond
// the target status itself. The same payload shape serves the online path and
// the offline sync replay path, so the two never diverge in semantics.
type TransitionPayload struct {
	// ChangedBy is the principal performing the transition. Required.
	ChangedBy kernel.UUID
	// DriverID is the driver to bind. Required when entering Assigned,
	// ignored otherwise.
	DriverID *kernel.UUID
	// Notes carries free-form notes; entering Cancelled, Rejected, or
	// Returned requires a non-empty value (the reason).
	Notes string
	// Proof is the delivery evidence reference. Required when entering
	// Delivered, ignored otherwise.
	Proof *ProofOfDelivery
	// At is the effective time of the transition. Offline replay passes the
	// client timestamp; the zero value means "now".
	At time.Time
	// IdempotencyKey is the client token of an offline-queued mutation,
	// recorded on the resulting history entry. Empty for online transitions.
	IdempotencyKey string
}

// Order is the aggregate root tracking a single delivery unit through its
// lifecycle. It owns the order's status, driver binding, lifecycle
// timestamps, proof of delivery reference, and append-only status history.
//
// Invariants maintained by the aggregate:
//   - Status changes go exclusively through ApplyTransition, validated
//     against the transition table in status.go.
//   - driverID is non-nil iff the status is at or past Assigned and the
//     order was not explicitly unassigned.
//   - assignedAt, pickedUpAt, and deliveredAt are each set at most once, by
//     the transition that first reaches the corresponding state.
//   - statusHistory is strictly append-only; every successful transition
//     appends exactly one entry.
//   - An archived order accepts no mutation except Unarchive.
//
// The version field supports optimistic concurrency: the repository's
// conditional write fails with a ConflictError when the version read no
// longer matches at write time.
type Order struct {
	id               kernel.UUID
	salesOrderNumber string
	warehouseID      kernel.UUID
	driverID         *kernel.UUID
	status           Status
	customer         Customer
	paymentMethod    PaymentMethod
	totalAmount      float64
	notes            string
	salesTaker       string
	isArchived       bool

	createdAt   time.Time
	assignedAt  *time.Time
	pickedUpAt  *time.Time
	deliveredAt *time.Time

	proof   *ProofOfDelivery
	history []StatusHistoryEntry

	version int

	guard guard.ConstructorGuard
}

// NewOrder creates a new Order in Unassigned status. This is the only way to
// create a fresh order; persistence reconstruction goes through RestoreOrder.
//
// Validates that id and warehouseID are constructed UUIDs, salesOrderNumber
// is non-empty, customer and payment method are valid, and totalAmount is
// not negative.
func NewOrder(
	id kernel.UUID,
	salesOrderNumber string,
	warehouseID kernel.UUID,
	customer Customer,
	paymentMethod PaymentMethod,
	totalAmount float64,
	notes string,
	salesTaker string,
) (*Order, error) {
	if err := errors.Join(
		id.Validate(),
		warehouseID.Validate(),
		customer.Validate(),
		paymentMethod.Validate(),
	); err != nil {
		return nil, err
	}
	if salesOrderNumber == "" {
		return nil, errs.NewValueIsRequiredError("salesOrderNumber")
	}
	if totalAmount < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"totalAmount", fmt.Errorf("%f is negative", totalAmount))
	}

	return &Order{
		id:               id,
		salesOrderNumber: salesOrderNumber,
		warehouseID:      warehouseID,
		status:           Unassigned,
		customer:         customer,
		paymentMethod:    paymentMethod,
		totalAmount:      totalAmount,
		notes:            notes,
		salesTaker:       salesTaker,
		createdAt:        time.Now().UTC(),
		version:          1,
		guard:            guard.NewConstructorGuard(),
	}, nil
}

// RestoreOrder reconstructs an Order from persistence without re-running
// creation-time side effects. The caller supplies the full persisted state;
// RestoreOrder re-validates the cross-field invariants so a corrupted row
// cannot produce an inconsistent aggregate.
func RestoreOrder(
	id kernel.UUID,
	salesOrderNumber string,
	warehouseID kernel.UUID,
	driverID *kernel.UUID,
	status Status,
	customer Customer,
	paymentMethod PaymentMethod,
	totalAmount float64,
	notes string,
	salesTaker string,
	isArchived bool,
	createdAt time.Time,
	assignedAt, pickedUpAt, deliveredAt *time.Time,
	proof *ProofOfDelivery,
	history []StatusHistoryEntry,
	version int,
) (*Order, error) {
	if err := errors.Join(
		id.Validate(),
		warehouseID.Validate(),
		status.Validate(),
		customer.Validate(),
		paymentMethod.Validate(),
	); err != nil {
		return nil, err
	}
	if salesOrderNumber == "" {
		return nil, errs.NewValueIsRequiredError("salesOrderNumber")
	}
	if version < 1 {
		return nil, errs.NewVersionIsInvalidErrorWithCause("order version")
	}
	if err := validateDriverBinding(status, driverID != nil); err != nil {
		return nil, err
	}
	if driverID != nil {
		if err := driverID.Validate(); err != nil {
			return nil, err
		}
	}

	return &Order{
		id:               id,
		salesOrderNumber: salesOrderNumber,
		warehouseID:      warehouseID,
		driverID:         driverID,
		status:           status,
		customer:         customer,
		paymentMethod:    paymentMethod,
		totalAmount:      totalAmount,
		notes:            notes,
		salesTaker:       salesTaker,
		isArchived:       isArchived,
		createdAt:        createdAt.UTC(),
		assignedAt:       assignedAt,
		pickedUpAt:       pickedUpAt,
		deliveredAt:      deliveredAt,
		proof:            proof,
		history:          history,
		version:          version,
		guard:            guard.NewConstructorGuard(),
	}, nil
}

// validateDriverBinding enforces the consistency rule between status and
// driver assignment. Unassigned orders must have no driver; active statuses
// from Assigned through InTransit require one. Terminal statuses accept
// either, since cancellation and rejection may occur before or after
// assignment.
func validateDriverBinding(status Status, hasDriver bool) error {
	switch status {
	case Unassigned:
		if hasDriver {
			return errs.NewValueIsInvalidErrorWithCause(
				"driverID", errors.New("pending order must not have a driver"))
		}
	case Assigned, Received, PickedUp, InTransit:
		if !hasDriver {
			return errs.NewValueIsInvalidErrorWithCause(
				"driverID", fmt.Errorf("%s order must have a driver", status))
		}
	}
	return nil
}

// Validate ensures the Order was constructed through NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID { return o.id }

// SalesOrderNumber returns the unique business order number.
func (o *Order) SalesOrderNumber() string { return o.salesOrderNumber }

// WarehouseID returns the warehouse scoping the order.
func (o *Order) WarehouseID() kernel.UUID { return o.warehouseID }

// Driver returns the bound driver's ID, nil when unassigned.
func (o *Order) Driver() *kernel.UUID { return o.driverID }

// Status returns the current lifecycle status.
func (o *Order) Status() Status { return o.status }

// Customer returns the recipient information.
func (o *Order) Customer() Customer { return o.customer }

// PaymentMethod returns how the customer settles the order.
func (o *Order) PaymentMethod() PaymentMethod { return o.paymentMethod }

// TotalAmount returns the order total.
func (o *Order) TotalAmount() float64 { return o.totalAmount }

// Notes returns the free-form order notes.
func (o *Order) Notes() string { return o.notes }

// SalesTaker returns who took the sale.
func (o *Order) SalesTaker() string { return o.salesTaker }

// IsArchived reports whether the order has been archived.
func (o *Order) IsArchived() bool { return o.isArchived }

// CreatedAt returns the creation time in UTC.
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// AssignedAt returns when the order first entered Assigned, nil if never.
func (o *Order) AssignedAt() *time.Time { return o.assignedAt }

// PickedUpAt returns when the order entered PickedUp, nil if never.
func (o *Order) PickedUpAt() *time.Time { return o.pickedUpAt }

// DeliveredAt returns when the order entered Delivered, nil if never.
func (o *Order) DeliveredAt() *time.Time { return o.deliveredAt }

// Proof returns the proof of delivery reference, nil before delivery.
func (o *Order) Proof() *ProofOfDelivery { return o.proof }

// Version returns the optimistic-concurrency version of the loaded state.
func (o *Order) Version() int { return o.version }

// History returns the append-only status history, oldest first.
// The returned slice is a copy; entries themselves are immutable.
func (o *Order) History() []StatusHistoryEntry {
	out := make([]StatusHistoryEntry, len(o.history))
	copy(out, o.history)
	return out
}

// HasAppliedIdempotencyKey reports whether a committed history entry already
// carries the given client idempotency key. Used by offline reconciliation to
// recognize a resubmitted item as already applied.
func (o *Order) HasAppliedIdempotencyKey(key string) bool {
	if key == "" {
		return false
	}
	for _, entry := range o.history {
		if entry.IdempotencyKey() == key {
			return true
		}
	}
	return false
}

// IsAssignable reports whether a dispatcher may bind a driver to the order.
func (o *Order) IsAssignable() bool {
	return !o.isArchived && o.status == Unassigned
}

// ApplyTransition validates and applies a single status transition. It is the
// sole mutation path for order status, called identically by the online
// assignment/status endpoints and by the offline sync replay.
//
// Rejection cases, in order, none of which mutate the aggregate:
//   - the order is archived
//   - the target is not in the transition table for the current status
//   - the target requires a reason and payload.Notes is empty
//   - the target requires proof and payload.Proof is nil
//   - the target is Assigned and payload.DriverID is nil
//
// On success the deterministic side effects of the transition run (driver
// binding, the state's lifecycle timestamp set on first reach, proof capture)
// and exactly one StatusHistoryEntry is appended.
func (o *Order) ApplyTransition(target Status, payload TransitionPayload) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := payload.ChangedBy.Validate(); err != nil {
		return err
	}
	if o.isArchived {
		return ErrOrderIsArchived
	}
	if err := o.status.CanTransitionTo(target); err != nil {
		return err
	}
	if target.RequiresReason() && payload.Notes == "" {
		return ErrReasonIsRequired
	}
	if target.RequiresProof() {
		if payload.Proof == nil {
			return ErrProofIsRequired
		}
		if err := payload.Proof.Validate(); err != nil {
			return err
		}
	}
	if target == Assigned && payload.DriverID == nil {
		return ErrDriverIsRequired
	}

	at := payload.At
	if at.IsZero() {
		at = time.Now()
	}
	at = at.UTC()

	entry, err := NewStatusHistoryEntry(o.id, target, payload.ChangedBy, at, payload.Notes, payload.IdempotencyKey)
	if err != nil {
		return err
	}

	switch target {
	case Assigned:
		if err = payload.DriverID.Validate(); err != nil {
			return err
		}
		o.driverID = payload.DriverID
		if o.assignedAt == nil {
			o.assignedAt = &at
		}
	case Unassigned:
		o.driverID = nil
	case PickedUp:
		if o.pickedUpAt == nil {
			o.pickedUpAt = &at
		}
	case Delivered:
		if o.deliveredAt == nil {
			o.deliveredAt = &at
		}
		o.proof = payload.Proof
	}

	o.status = target
	o.history = append(o.history, entry)
	return nil
}

// Reassign rebinds the order to a different driver without changing status.
// Allowed only while the order is held but not yet picked up (Assigned or
// Received). The first assignment timestamp is preserved; a history entry
// with the unchanged status records the handover, with reason in notes when
// supplied.
func (o *Order) Reassign(newDriverID, changedBy kernel.UUID, reason string) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.isArchived {
		return ErrOrderIsArchived
	}
	if err := errors.Join(newDriverID.Validate(), changedBy.Validate()); err != nil {
		return err
	}
	if o.driverID == nil || (o.status != Assigned && o.status != Received) {
		return ErrOrderNotReassignable
	}

	notes := "reassigned"
	if reason != "" {
		notes = "reassigned: " + reason
	}

	entry, err := NewStatusHistoryEntry(o.id, o.status, changedBy, time.Now(), notes, "")
	if err != nil {
		return err
	}

	o.driverID = &newDriverID
	o.history = append(o.history, entry)
	return nil
}

// Archive marks a terminal order as archived. Archiving a non-terminal order
// is invalid; archiving an already archived order is a no-op.
func (o *Order) Archive() error {
	if err := o.Validate(); err != nil {
		return err
	}
	if !o.status.IsTerminal() {
		return errs.NewValueIsInvalidErrorWithCause(
			"order", fmt.Errorf("cannot archive order in %s status", o.status))
	}
	o.isArchived = true
	return nil
}

// Unarchive clears the archived flag, the only mutation an archived order
// accepts.
func (o *Order) Unarchive() error {
	if err := o.Validate(); err != nil {
		return err
	}
	o.isArchived = false
	return nil
}
