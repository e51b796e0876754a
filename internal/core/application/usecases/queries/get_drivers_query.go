package queries

import (
	"dispatch/internal/core/domain/model/auth"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// GetDriversQuery lists drivers within the principal's warehouse scope,
// optionally narrowed to a single warehouse or availability state.
type GetDriversQuery struct {
	principal    auth.Principal
	warehouseID  *kernel.UUID
	availability string

	guard guard.ConstructorGuard
}

func NewGetDriversQuery(principal auth.Principal, warehouseID *kernel.UUID, availability string) (GetDriversQuery, error) {
	if err := principal.Validate(); err != nil {
		return GetDriversQuery{}, errs.NewValueIsInvalidErrorWithCause("principal", err)
	}

	return GetDriversQuery{
		principal:    principal,
		warehouseID:  warehouseID,
		availability: availability,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (q GetDriversQuery) Principal() auth.Principal { return q.principal }

func (q GetDriversQuery) WarehouseID() *kernel.UUID { return q.warehouseID }

func (q GetDriversQuery) Availability() string { return q.availability }

func (q GetDriversQuery) Validate() error {
	return q.guard.Validate(errs.NewValueIsRequiredError("GetDriversQuery"))
}
