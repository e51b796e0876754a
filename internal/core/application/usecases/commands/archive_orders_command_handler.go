package commands

import (
	"context"
)

// ArchiveOrdersCommandHandler applies the retention policy: terminal orders
// past the retention window are flagged archived, after which they accept no
// mutation except un-archive. Orders are never physically deleted by this
// flow.
type ArchiveOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewArchiveOrdersCommandHandler creates a handler for the retention job.
func NewArchiveOrdersCommandHandler(uowFactory OrderUoWFactory) ArchiveOrdersCommandHandler {
	return ArchiveOrdersCommandHandler{uowFactory: uowFactory}
}

// Handle archives all eligible orders in one transaction and returns how
// many were archived.
func (h ArchiveOrdersCommandHandler) Handle(ctx context.Context, cmd ArchiveOrdersCommand) (int, error) {
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

	repo := uow.OrderRepository()
	eligible, err := repo.GetArchivable(ctx, cmd.Cutoff())
	if err != nil {
		return 0, err
	}

	archived := 0
	for _, o := range eligible {
		if err = o.Archive(); err != nil {
			return 0, err
		}
		if err = repo.Update(ctx, o); err != nil {
			return 0, err
		}
		archived++
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return archived, nil
}
