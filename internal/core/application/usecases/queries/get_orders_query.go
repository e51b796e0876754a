package queries

import (
	"dispatch/internal/core/domain/model/auth"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// GetOrdersQuery lists orders visible to the principal, with optional
// filters. Archived orders are excluded unless IncludeArchived is set.
type GetOrdersQuery struct {
	principal       auth.Principal
	status          *order.Status
	driverID        *kernel.UUID
	warehouseID     *kernel.UUID
	includeArchived bool
	limit           int
	offset          int

	guard guard.ConstructorGuard
}

type GetOrdersFilter struct {
	Status          *order.Status
	DriverID        *kernel.UUID
	WarehouseID     *kernel.UUID
	IncludeArchived bool
	Limit           int
	Offset          int
}

const (
	defaultOrdersLimit = 50
	maxOrdersLimit     = 500
)

func NewGetOrdersQuery(principal auth.Principal, filter GetOrdersFilter) (GetOrdersQuery, error) {
	if err := principal.Validate(); err != nil {
		return GetOrdersQuery{}, errs.NewValueIsInvalidErrorWithCause("principal", err)
	}
	if filter.Status != nil {
		if err := filter.Status.Validate(); err != nil {
			return GetOrdersQuery{}, err
		}
	}
	if filter.Limit < 0 || filter.Limit > maxOrdersLimit {
		return GetOrdersQuery{}, errs.NewValueIsOutOfRangeError("limit", filter.Limit, 0, maxOrdersLimit)
	}
	if filter.Offset < 0 {
		return GetOrdersQuery{}, errs.NewValueIsInvalidError("offset")
	}

	limit := filter.Limit
	if limit == 0 {
		limit = defaultOrdersLimit
	}

	return GetOrdersQuery{
		principal:       principal,
		status:          filter.Status,
		driverID:        filter.DriverID,
		warehouseID:     filter.WarehouseID,
		includeArchived: filter.IncludeArchived,
		limit:           limit,
		offset:          filter.Offset,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

func (q GetOrdersQuery) Principal() auth.Principal { return q.principal }

func (q GetOrdersQuery) Status() *order.Status { return q.status }

func (q GetOrdersQuery) DriverID() *kernel.UUID { return q.driverID }

func (q GetOrdersQuery) WarehouseID() *kernel.UUID { return q.warehouseID }

func (q GetOrdersQuery) IncludeArchived() bool { return q.includeArchived }

func (q GetOrdersQuery) Limit() int { return q.limit }

func (q GetOrdersQuery) Offset() int { return q.offset }

func (q GetOrdersQuery) Validate() error {
	return q.guard.Validate(errs.NewValueIsRequiredError("GetOrdersQuery"))
}
