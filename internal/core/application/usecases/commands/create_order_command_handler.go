package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
)

// CreateOrderCommandHandler handles order creation. The new order starts in
// pending status within the principal's warehouse scope.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	guard      services.AccessGuard
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		guard:      services.NewAccessGuard(),
	}
}

// Handle processes the order creation command. The warehouse scope is
// authorized before anything is written; a duplicate sales order number
// surfaces as a ConflictError from the repository.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if err := h.guard.AuthorizeDispatch(cmd.Principal()); err != nil {
		return err
	}

	if err := h.guard.Authorize(cmd.Principal(), cmd.WarehouseID()); err != nil {
		return err
	}

	newOrder, err := order.NewOrder(
		cmd.OrderID(),
		cmd.SalesOrderNumber(),
		cmd.WarehouseID(),
		cmd.Customer(),
		cmd.PaymentMethod(),
		cmd.TotalAmount(),
		cmd.Notes(),
		cmd.SalesTaker(),
	)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
