package order

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// ErrHistoryEntryIsNotConstructed is returned when using an improperly
// initialized StatusHistoryEntry.
var ErrHistoryEntryIsNotConstructed = errs.NewValueIsRequiredError(
	"status history entry must be created via NewStatusHistoryEntry constructor")

// StatusHistoryEntry is one element of an order's append-only audit log.
// Each successful transition appends exactly one entry; entries are never
// modified or removed once created.
//
// The optional idempotency key records the client-supplied token of an
// offline-queued mutation, so a resubmitted sync item can be recognized as
// already applied instead of producing a duplicate entry.
type StatusHistoryEntry struct {
	orderID        kernel.UUID
	status         Status
	changedBy      kernel.UUID
	timestamp      time.Time
	notes          string
	idempotencyKey string

	guard guard.ConstructorGuard
}

// NewStatusHistoryEntry creates a validated history entry.
// notes and idempotencyKey may be empty; timestamp must not be the zero time.
func NewStatusHistoryEntry(
	orderID kernel.UUID,
	status Status,
	changedBy kernel.UUID,
	timestamp time.Time,
	notes string,
	idempotencyKey string,
) (StatusHistoryEntry, error) {
	if err := orderID.Validate(); err != nil {
		return StatusHistoryEntry{}, err
	}
	if err := status.Validate(); err != nil {
		return StatusHistoryEntry{}, err
	}
	if err := changedBy.Validate(); err != nil {
		return StatusHistoryEntry{}, err
	}
	if timestamp.IsZero() {
		return StatusHistoryEntry{}, errs.NewValueIsRequiredError("timestamp")
	}

	return StatusHistoryEntry{
		orderID:        orderID,
		status:         status,
		changedBy:      changedBy,
		timestamp:      timestamp.UTC(),
		notes:          notes,
		idempotencyKey: idempotencyKey,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// OrderID returns the order the entry belongs to.
func (e StatusHistoryEntry) OrderID() kernel.UUID {
	return e.orderID
}

// Status returns the status the order entered.
func (e StatusHistoryEntry) Status() Status {
	return e.status
}

// ChangedBy returns the principal that performed the transition.
func (e StatusHistoryEntry) ChangedBy() kernel.UUID {
	return e.changedBy
}

// Timestamp returns when the transition took effect, in UTC.
func (e StatusHistoryEntry) Timestamp() time.Time {
	return e.timestamp
}

// Notes returns the free-form notes attached to the transition, such as a
// cancellation reason. Empty when none were supplied.
func (e StatusHistoryEntry) Notes() string {
	return e.notes
}

// IdempotencyKey returns the client token of the offline mutation that
// produced this entry, or "" for online transitions.
func (e StatusHistoryEntry) IdempotencyKey() string {
	return e.idempotencyKey
}

// Validate returns ErrHistoryEntryIsNotConstructed for zero-value entries.
func (e StatusHistoryEntry) Validate() error {
	return e.guard.Validate(ErrHistoryEntryIsNotConstructed)
}
