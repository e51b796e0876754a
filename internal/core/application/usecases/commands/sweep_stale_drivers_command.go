package commands

import (
	"errors"
	"time"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrSweepStaleDriversCommandIsNotConstructed = errors.New(
	"SweepStaleDriversCommand must be created via NewSweepStaleDriversCommand constructor",
)

// SweepStaleDriversCommand flips drivers to offline when their last known
// location is older than the cutoff: a driver that vanished without a clean
// disconnect should not keep showing as available. Issued by the scheduled
// sweep job.
type SweepStaleDriversCommand struct {
	cutoff time.Time

	guard guard.ConstructorGuard
}

// NewSweepStaleDriversCommand creates a validated sweep command.
func NewSweepStaleDriversCommand(cutoff time.Time) (SweepStaleDriversCommand, error) {
	if cutoff.IsZero() {
		return SweepStaleDriversCommand{}, errs.NewValueIsRequiredError("cutoff")
	}

	return SweepStaleDriversCommand{
		cutoff: cutoff,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c SweepStaleDriversCommand) Validate() error {
	return c.guard.Validate(ErrSweepStaleDriversCommandIsNotConstructed)
}

// Cutoff returns the staleness cutoff; online drivers silent since before it
// are marked offline.
func (c SweepStaleDriversCommand) Cutoff() time.Time { return c.cutoff }
