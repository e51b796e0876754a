// Package ports defines repository and transaction interfaces between the
// domain layer and infrastructure, enabling dependency inversion and
// testability.
package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderRepository defines the authoritative persistence contract for order
// aggregates and their status-history log.
type OrderRepository interface {
	// Add persists a new order aggregate with its history.
	// Fails with a ConflictError when the sales order number already exists.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order as a conditional write:
	// the row is updated only when its stored version still matches the
	// version the aggregate was loaded with. A lost race returns a
	// ConflictError and leaves the row untouched, so two concurrent
	// mutations of the same order never silently overwrite each other.
	// New history entries are appended as part of the same transaction.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order with its complete status history.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetBySalesOrderNumber retrieves an order by its business number.
	GetBySalesOrderNumber(ctx context.Context, number string) (*order.Order, error)

	// GetArchivable retrieves unarchived orders in a terminal status whose
	// last transition happened before cutoff. Used by the retention job.
	GetArchivable(ctx context.Context, cutoff time.Time) ([]*order.Order, error)
}
