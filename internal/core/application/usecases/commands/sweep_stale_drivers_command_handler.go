package commands

import (
	"context"

	"dispatch/internal/core/domain/model/driver"
)

// SweepStaleDriversCommandHandler marks silent drivers offline.
type SweepStaleDriversCommandHandler struct {
	uowFactory DriverUoWFactory
}

// NewSweepStaleDriversCommandHandler creates a handler for the sweep job.
func NewSweepStaleDriversCommandHandler(uowFactory DriverUoWFactory) SweepStaleDriversCommandHandler {
	return SweepStaleDriversCommandHandler{uowFactory: uowFactory}
}

// Handle flips all stale online drivers to offline and returns how many
// were affected.
func (h SweepStaleDriversCommandHandler) Handle(ctx context.Context, cmd SweepStaleDriversCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.DriverRepository()
	stale, err := repo.GetStaleOnline(ctx, cmd.Cutoff())
	if err != nil {
		return 0, err
	}

	swept := 0
	for _, d := range stale {
		if err = d.SetAvailability(driver.AvailabilityOffline); err != nil {
			return 0, err
		}
		if err = repo.Update(ctx, d); err != nil {
			return 0, err
		}
		swept++
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return swept, nil
}
