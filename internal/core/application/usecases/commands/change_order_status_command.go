package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/auth"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
	"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
)

// ChangeOrderStatusCommand performs a single online status transition:
// the path used by connected dispatchers and by drivers acting live.
// Assignment transitions have dedicated commands and are rejected here.
//
// Example:
//
//	proof, _ := order.NewProofOfDelivery(order.ProofPhoto, "https://pod/abc.jpg", time.Now())
//	cmd, err := NewChangeOrderStatusCommand(orderID, order.Delivered, "", &proof, principal)
type ChangeOrderStatusCommand struct {
	orderID   kernel.UUID
	target    order.Status
	notes     string
	proof     *order.ProofOfDelivery
	principal auth.Principal

	guard guard.ConstructorGuard
}

// NewChangeOrderStatusCommand creates a validated status change command.
// The reason/proof requirements of the target status are enforced by the
// aggregate when the transition is applied, not here, so the online and
// offline paths share one set of rules.
func NewChangeOrderStatusCommand(
	orderID kernel.UUID,
	target order.Status,
	notes string,
	proof *order.ProofOfDelivery,
	principal auth.Principal,
) (ChangeOrderStatusCommand, error) {
	if err := errors.Join(
		orderID.Validate(),
		target.Validate(),
		principal.Validate(),
	); err != nil {
		return ChangeOrderStatusCommand{}, err
	}
	if proof != nil {
		if err := proof.Validate(); err != nil {
			return ChangeOrderStatusCommand{}, err
		}
	}

	return ChangeOrderStatusCommand{
		orderID:   orderID,
		target:    target,
		notes:     notes,
		proof:     proof,
		principal: principal,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

// OrderID returns the order to transition.
func (c ChangeOrderStatusCommand) OrderID() kernel.UUID { return c.orderID }

// Target returns the requested status.
func (c ChangeOrderStatusCommand) Target() order.Status { return c.target }

// Notes returns the notes/reason accompanying the transition.
func (c ChangeOrderStatusCommand) Notes() string { return c.notes }

// Proof returns the proof of delivery reference, nil when not supplied.
func (c ChangeOrderStatusCommand) Proof() *order.ProofOfDelivery { return c.proof }

// Principal returns the actor performing the transition.
func (c ChangeOrderStatusCommand) Principal() auth.Principal { return c.principal }
