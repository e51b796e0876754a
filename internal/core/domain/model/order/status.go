package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of an order. It implements a state
// machine whose legal transitions are defined as data in allowedTransitions,
// so extending the lifecycle is a table edit rather than new branching code.
//
// State transitions:
//
//	Unassigned ──> Assigned ──> Received ──> PickedUp ──> InTransit ──> Delivered ──> Returned
//	     ^             │            │                          │
//	     └─────────────┘            └── Rejected <─────────────┘
//	  (explicit unassign)
//
// Cancelled is reachable from every non-terminal state; Rejected from
// Assigned, Received, and InTransit. Delivered, Rejected, Cancelled, and
// Returned are terminal, with the single exception that Delivered may still
// move to Returned.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Unassigned is the initial status set by order creation or import.
	// Wire value "pending".
	Unassigned

	// Assigned indicates a dispatcher bound the order to a driver.
	Assigned

	// Received indicates the driver acknowledged receipt of the order.
	Received

	// PickedUp indicates the driver collected the goods at the warehouse.
	PickedUp

	// InTransit indicates the order is out for delivery.
	InTransit

	// Delivered indicates successful delivery with proof captured.
	// Terminal, except for the Returned extension.
	Delivered

	// Rejected indicates the driver refused or failed the delivery.
	Rejected

	// Cancelled indicates a dispatcher aborted the order.
	Cancelled

	// Returned indicates a delivered order came back. Reachable only
	// from Delivered.
	Returned
)

// allowedTransitions is the authoritative transition table. A target status
// is legal iff it appears in the slice keyed by the current status.
var allowedTransitions = map[Status][]Status{
	Unassigned: {Assigned, Cancelled},
	Assigned:   {Received, Rejected, Cancelled, Unassigned},
	Received:   {PickedUp, Rejected, Cancelled},
	PickedUp:   {InTransit, Cancelled},
	InTransit:  {Delivered, Rejected, Cancelled},
	Delivered:  {Returned},
}

// statusStrings maps statuses to their wire representation.
var statusStrings = map[Status]string{
	Unknown:    "unknown",
	Unassigned: "pending",
	Assigned:   "assigned",
	Received:   "received",
	PickedUp:   "picked_up",
	InTransit:  "in_transit",
	Delivered:  "delivered",
	Rejected:   "rejected",
	Cancelled:  "cancelled",
	Returned:   "returned",
}

// statusFromString is the inverse of statusStrings plus inbound aliases.
var statusFromString = func() map[string]Status {
	m := make(map[string]Status, len(statusStrings))
	for s, str := range statusStrings {
		if s == Unknown {
			continue
		}
		m[str] = s
	}
	// Legacy mobile clients report in_transit as out_for_delivery.
	m["out_for_delivery"] = InTransit
	return m
}()

// reasonRequired lists target statuses that must carry a non-empty reason,
// persisted as notes on the resulting history entry.
var reasonRequired = map[Status]struct{}{
	Rejected:  {},
	Cancelled: {},
	Returned:  {},
}

// StatusFromString parses a wire status value. Accepts the alias
// "out_for_delivery" for InTransit. Returns an error for unknown values.
func StatusFromString(s string) (Status, error) {
	status, ok := statusFromString[s]
	if !ok {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status", fmt.Errorf("%q is not a valid status", s))
	}
	return status, nil
}

// Validate checks that the Status is one of the defined lifecycle states.
// Unknown (0) and out-of-range values are invalid.
func (s Status) Validate() error {
	if _, ok := statusStrings[s]; !ok || s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause(
			"status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire representation of the status.
// Implements fmt.Stringer and is safe on any value.
func (s Status) String() string {
	if str, ok := statusStrings[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status ends the order lifecycle.
// Delivered is terminal for every purpose except the Returned extension,
// which the transition table still permits.
func (s Status) IsTerminal() bool {
	switch s {
	case Delivered, Rejected, Cancelled, Returned:
		return true
	default:
		return false
	}
}

// RequiresReason reports whether entering this status demands a non-empty
// reason string.
func (s Status) RequiresReason() bool {
	_, ok := reasonRequired[s]
	return ok
}

// RequiresProof reports whether entering this status demands a proof of
// delivery reference.
func (s Status) RequiresProof() bool {
	return s == Delivered
}

// NextStatuses returns the legal target statuses from the current status.
// Returns nil for terminal states with no outgoing transitions.
func (s Status) NextStatuses() []Status {
	targets := allowedTransitions[s]
	if targets == nil {
		return nil
	}
	out := make([]Status, len(targets))
	copy(out, targets)
	return out
}

// CanTransitionTo checks the transition table without performing the
// transition. Returns nil when target is a legal next status, a
// ValueIsInvalidError otherwise.
func (s Status) CanTransitionTo(target Status) error {
	if err := target.Validate(); err != nil {
		return err
	}

	for _, allowed := range allowedTransitions[s] {
		if allowed == target {
			return nil
		}
	}

	return errs.NewValueIsInvalidErrorWithCause(
		"status",
		fmt.Errorf("transition %s -> %s is not allowed", s, target),
	)
}
