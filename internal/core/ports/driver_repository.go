package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
)

// DriverRepository defines the persistence contract for driver aggregates.
//
// UpdateLocation and SetAvailability are deliberately narrow overwrite
// operations with no version check: the last known location is a soft,
// single-writer cell where "most recent wins", and it must never contend
// with the order store's transactional writes.
type DriverRepository interface {
	// Add persists a new driver. Fails with a ConflictError when the driver
	// code is already taken within the warehouse.
	Add(ctx context.Context, aggregate *driver.Driver) error

	// Update persists changes to an existing driver.
	Update(ctx context.Context, aggregate *driver.Driver) error

	// Get retrieves a driver by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error)

	// GetAll retrieves all drivers, with their availability and last known
	// location. Used for the broadcast hub's subscriber snapshot.
	GetAll(ctx context.Context) ([]*driver.Driver, error)

	// GetStaleOnline retrieves drivers still marked online or busy whose
	// last known location is older than cutoff (or who never reported one).
	// Used by the stale-driver sweep job.
	GetStaleOnline(ctx context.Context, cutoff time.Time) ([]*driver.Driver, error)

	// UpdateLocation overwrites the driver's last known location.
	UpdateLocation(ctx context.Context, id kernel.UUID, loc kernel.Location) error

	// SetAvailability overwrites the driver's availability status.
	SetAvailability(ctx context.Context, id kernel.UUID, availability driver.Availability) error
}
