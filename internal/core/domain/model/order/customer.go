package order

import (
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// PaymentMethod identifies how the customer settles the order.
type PaymentMethod string

const (
	// PaymentCash is cash on delivery.
	PaymentCash PaymentMethod = "cash"
	// PaymentCard is card on delivery.
	PaymentCard PaymentMethod = "card"
	// PaymentCredit is invoiced credit settled outside the delivery flow.
	PaymentCredit PaymentMethod = "credit"
)

// Validate checks the payment method against the closed set of known values.
func (m PaymentMethod) Validate() error {
	switch m {
	case PaymentCash, PaymentCard, PaymentCredit:
		return nil
	default:
		return errs.NewValueIsInvalidError("payment method")
	}
}

// ErrCustomerIsNotConstructed is returned when using an improperly
// initialized Customer.
var ErrCustomerIsNotConstructed = errs.NewValueIsRequiredError(
	"customer must be created via NewCustomer constructor")

// Customer is the immutable recipient information carried by an order:
// name, phone, address, and delivery area. Name and phone are required;
// address and area may be empty for counter pickups.
type Customer struct {
	name    string
	phone   string
	address string
	area    string
	guard   guard.ConstructorGuard
}

// NewCustomer creates validated customer information.
func NewCustomer(name, phone, address, area string) (Customer, error) {
	if name == "" {
		return Customer{}, errs.NewValueIsRequiredError("customer name")
	}
	if phone == "" {
		return Customer{}, errs.NewValueIsRequiredError("customer phone")
	}

	return Customer{
		name:    name,
		phone:   phone,
		address: address,
		area:    area,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Name returns the customer name.
func (c Customer) Name() string {
	return c.name
}

// Phone returns the customer phone number.
func (c Customer) Phone() string {
	return c.phone
}

// Address returns the delivery address.
func (c Customer) Address() string {
	return c.address
}

// Area returns the delivery area.
func (c Customer) Area() string {
	return c.area
}

// Validate returns ErrCustomerIsNotConstructed for zero-value customers.
func (c Customer) Validate() error {
	return c.guard.Validate(ErrCustomerIsNotConstructed)
}
