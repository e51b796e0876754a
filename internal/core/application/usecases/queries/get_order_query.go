package queries

import (
	"dispatch/internal/core/domain/model/auth"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// GetOrderQuery fetches a single order together with its status history.
// The read is scoped to the principal: out-of-scope orders come back as
// not found rather than forbidden, so the query does not leak existence.
type GetOrderQuery struct {
	orderID   kernel.UUID
	principal auth.Principal

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID, principal auth.Principal) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, errs.NewValueIsInvalidErrorWithCause("orderID", err)
	}
	if err := principal.Validate(); err != nil {
		return GetOrderQuery{}, errs.NewValueIsInvalidErrorWithCause("principal", err)
	}

	return GetOrderQuery{
		orderID:   orderID,
		principal: principal,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q GetOrderQuery) Principal() auth.Principal {
	return q.principal
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(errs.NewValueIsRequiredError("GetOrderQuery"))
}
