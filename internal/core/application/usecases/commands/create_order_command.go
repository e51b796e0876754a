package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/auth"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a request to register a new delivery order in
// pending (unassigned) status, as produced by manual creation or import.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(
//	    kernel.NewUUID(), "SO-10421", warehouseID,
//	    customer, order.PaymentCash, 149.50, "", "aisha", principal)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID          kernel.UUID
	salesOrderNumber string
	warehouseID      kernel.UUID
	customer         order.Customer
	paymentMethod    order.PaymentMethod
	totalAmount      float64
	notes            string
	salesTaker       string
	principal        auth.Principal

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a validated command to register a new order.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	salesOrderNumber string,
	warehouseID kernel.UUID,
	customer order.Customer,
	paymentMethod order.PaymentMethod,
	totalAmount float64,
	notes string,
	salesTaker string,
	principal auth.Principal,
) (CreateOrderCommand, error) {
	if err := errors.Join(
		orderID.Validate(),
		warehouseID.Validate(),
		customer.Validate(),
		paymentMethod.Validate(),
		principal.Validate(),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return CreateOrderCommand{
		orderID:          orderID,
		salesOrderNumber: salesOrderNumber,
		warehouseID:      warehouseID,
		customer:         customer,
		paymentMethod:    paymentMethod,
		totalAmount:      totalAmount,
		notes:            notes,
		salesTaker:       salesTaker,
		principal:        principal,
		guard:            guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the identifier for the new order.
func (c CreateOrderCommand) OrderID() kernel.UUID { return c.orderID }

// SalesOrderNumber returns the unique business order number.
func (c CreateOrderCommand) SalesOrderNumber() string { return c.salesOrderNumber }

// WarehouseID returns the warehouse the order belongs to.
func (c CreateOrderCommand) WarehouseID() kernel.UUID { return c.warehouseID }

// Customer returns recipient information.
func (c CreateOrderCommand) Customer() order.Customer { return c.customer }

// PaymentMethod returns the settlement method.
func (c CreateOrderCommand) PaymentMethod() order.PaymentMethod { return c.paymentMethod }

// TotalAmount returns the order total.
func (c CreateOrderCommand) TotalAmount() float64 { return c.totalAmount }

// Notes returns the free-form order notes.
func (c CreateOrderCommand) Notes() string { return c.notes }

// SalesTaker returns who took the sale.
func (c CreateOrderCommand) SalesTaker() string { return c.salesTaker }

// Principal returns the actor creating the order.
func (c CreateOrderCommand) Principal() auth.Principal { return c.principal }
