package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/auth"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrCreateDriverCommandIsNotConstructed = errors.New(
	"CreateDriverCommand must be created via NewCreateDriverCommand constructor",
)

// CreateDriverCommand registers a new driver in a warehouse.
type CreateDriverCommand struct {
	driverID    kernel.UUID
	userID      kernel.UUID
	code        string
	name        string
	warehouseID kernel.UUID
	principal   auth.Principal

	guard guard.ConstructorGuard
}

// NewCreateDriverCommand creates a validated driver registration command.
func NewCreateDriverCommand(
	driverID, userID kernel.UUID, code, name string, warehouseID kernel.UUID, principal auth.Principal,
) (CreateDriverCommand, error) {
	if err := errors.Join(
		driverID.Validate(),
		userID.Validate(),
		warehouseID.Validate(),
		principal.Validate(),
	); err != nil {
		return CreateDriverCommand{}, err
	}
	if code == "" {
		return CreateDriverCommand{}, errs.NewValueIsRequiredError("code")
	}
	if name == "" {
		return CreateDriverCommand{}, errs.NewValueIsRequiredError("name")
	}

	return CreateDriverCommand{
		driverID:    driverID,
		userID:      userID,
		code:        code,
		name:        name,
		warehouseID: warehouseID,
		principal:   principal,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateDriverCommand) Validate() error {
	return c.guard.Validate(ErrCreateDriverCommandIsNotConstructed)
}

// DriverID returns the identifier for the new driver.
func (c CreateDriverCommand) DriverID() kernel.UUID { return c.driverID }

// UserID returns the linked user identity.
func (c CreateDriverCommand) UserID() kernel.UUID { return c.userID }

// Code returns the driver code, unique per warehouse.
func (c CreateDriverCommand) Code() string { return c.code }

// Name returns the driver's display name.
func (c CreateDriverCommand) Name() string { return c.name }

// WarehouseID returns the warehouse the driver works from.
func (c CreateDriverCommand) WarehouseID() kernel.UUID { return c.warehouseID }

// Principal returns the actor registering the driver.
func (c CreateDriverCommand) Principal() auth.Principal { return c.principal }
