// Package driver contains the Driver aggregate: the mobile worker executing
// deliveries. A driver belongs to exactly one warehouse, carries a unique
// code, and reports an availability status plus a soft last-known-location
// cell that is overwritten, never versioned.
package driver

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Availability represents the driver's reported working state.
type Availability string

const (
	// AvailabilityOnline means the driver is connected and can take work.
	AvailabilityOnline Availability = "online"
	// AvailabilityOffline means the driver is disconnected.
	AvailabilityOffline Availability = "offline"
	// AvailabilityBusy means the driver is connected but at capacity.
	AvailabilityBusy Availability = "busy"
)

// Validate checks the availability against the closed set of known values.
func (a Availability) Validate() error {
	switch a {
	case AvailabilityOnline, AvailabilityOffline, AvailabilityBusy:
		return nil
	default:
		return errs.NewValueIsInvalidError("availability status")
	}
}

// Domain errors for driver operations.
var (
	// ErrDriverIsNotConstructed is returned when using an improperly
	// initialized Driver.
	ErrDriverIsNotConstructed = errors.New("Driver must be created via NewDriver or RestoreDriver constructor")
	// ErrCodeIsRequired is returned when creating a driver without a code.
	ErrCodeIsRequired = errs.NewValueIsRequiredError("code")
	// ErrNameIsRequired is returned when creating a driver without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
)

// Driver is the aggregate root for a delivery driver.
//
// The last known location is a soft, overwrite-only field with single-writer
// discipline: only the driver's own connection writes it, and only newer
// positions replace older ones. It carries no history and no consistency
// requirement beyond "most recent wins".
type Driver struct {
	id          kernel.UUID
	userID      kernel.UUID
	code        string
	name        string
	warehouseID kernel.UUID

	availability Availability
	lastKnown    *kernel.Location

	guard guard.ConstructorGuard
}

// NewDriver creates a new Driver in offline availability with no known
// location. code must be unique per warehouse; uniqueness is enforced by the
// repository layer.
func NewDriver(id, userID kernel.UUID, code, name string, warehouseID kernel.UUID) (*Driver, error) {
	if err := errors.Join(
		id.Validate(),
		userID.Validate(),
		warehouseID.Validate(),
	); err != nil {
		return nil, err
	}
	if code == "" {
		return nil, ErrCodeIsRequired
	}
	if name == "" {
		return nil, ErrNameIsRequired
	}

	return &Driver{
		id:           id,
		userID:       userID,
		code:         code,
		name:         name,
		warehouseID:  warehouseID,
		availability: AvailabilityOffline,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// RestoreDriver reconstructs a Driver from persistence.
func RestoreDriver(
	id, userID kernel.UUID,
	code, name string,
	warehouseID kernel.UUID,
	availability Availability,
	lastKnown *kernel.Location,
) (*Driver, error) {
	if err := errors.Join(
		id.Validate(),
		userID.Validate(),
		warehouseID.Validate(),
		availability.Validate(),
	); err != nil {
		return nil, err
	}
	if code == "" {
		return nil, ErrCodeIsRequired
	}
	if name == "" {
		return nil, ErrNameIsRequired
	}
	if lastKnown != nil {
		if err := lastKnown.Validate(); err != nil {
			return nil, err
		}
	}

	return &Driver{
		id:           id,
		userID:       userID,
		code:         code,
		name:         name,
		warehouseID:  warehouseID,
		availability: availability,
		lastKnown:    lastKnown,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the Driver was constructed through a constructor.
func (d *Driver) Validate() error {
	if d == nil {
		return ErrDriverIsNotConstructed
	}
	return d.guard.Validate(ErrDriverIsNotConstructed)
}

// IsEqual compares two drivers by identity.
func (d *Driver) IsEqual(other *Driver) bool {
	return other != nil && d.id.IsEqual(other.id)
}

// ID returns the driver's unique identifier.
func (d *Driver) ID() kernel.UUID { return d.id }

// UserID returns the linked user identity.
func (d *Driver) UserID() kernel.UUID { return d.userID }

// Code returns the driver code, unique within the warehouse.
func (d *Driver) Code() string { return d.code }

// Name returns the driver's display name.
func (d *Driver) Name() string { return d.name }

// WarehouseID returns the warehouse the driver works from.
func (d *Driver) WarehouseID() kernel.UUID { return d.warehouseID }

// Availability returns the driver's reported working state.
func (d *Driver) Availability() Availability { return d.availability }

// LastKnownLocation returns the most recent reported position, nil when the
// driver has never reported one.
func (d *Driver) LastKnownLocation() *kernel.Location { return d.lastKnown }

// SetAvailability updates the driver's working state.
func (d *Driver) SetAvailability(a Availability) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if err := a.Validate(); err != nil {
		return err
	}
	d.availability = a
	return nil
}

// RecordLocation overwrites the last known location when the new position is
// newer than the stored one. Out-of-order positions are dropped silently:
// staleness is worse than loss for positional data.
func (d *Driver) RecordLocation(loc kernel.Location) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if err := loc.Validate(); err != nil {
		return err
	}
	if d.lastKnown != nil && !loc.IsNewerThan(*d.lastKnown) {
		return nil
	}
	d.lastKnown = &loc
	return nil
}
