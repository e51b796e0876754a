package commands

import (
	"errors"
	"time"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrArchiveOrdersCommandIsNotConstructed = errors.New(
	"ArchiveOrdersCommand must be created via NewArchiveOrdersCommand constructor",
)

// ArchiveOrdersCommand archives terminal orders whose last transition is
// older than the retention cutoff. Issued by the scheduled retention job,
// not by request handlers, so it carries no principal.
type ArchiveOrdersCommand struct {
	cutoff time.Time

	guard guard.ConstructorGuard
}

// NewArchiveOrdersCommand creates a validated archival command.
func NewArchiveOrdersCommand(cutoff time.Time) (ArchiveOrdersCommand, error) {
	if cutoff.IsZero() {
		return ArchiveOrdersCommand{}, errs.NewValueIsRequiredError("cutoff")
	}

	return ArchiveOrdersCommand{
		cutoff: cutoff,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ArchiveOrdersCommand) Validate() error {
	return c.guard.Validate(ErrArchiveOrdersCommandIsNotConstructed)
}

// Cutoff returns the retention cutoff; terminal orders untouched since
// before it are archived.
func (c ArchiveOrdersCommand) Cutoff() time.Time { return c.cutoff }
