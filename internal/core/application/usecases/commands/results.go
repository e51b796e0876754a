package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// Error codes classifying per-item outcomes of batch operations. Engine-level
// failures (validation, conflict, ownership) are recovered locally and
// surfaced through these codes; they never abort the surrounding batch.
const (
	CodeValidationError = "validation_error"
	CodeConflictError   = "conflict_error"
	CodeOwnershipError  = "ownership_error"
	CodeNotFoundError   = "not_found_error"
	CodeTimeout         = "timeout"
	CodeInternalError   = "internal_error"
)

// OrderOperationResult is the per-order outcome of a batch or sync operation.
// Callers always receive one result per submitted item, never an
// all-or-nothing failure for validation-class errors.
type OrderOperationResult struct {
	OrderID kernel.UUID
	Success bool
	// Code classifies the failure; empty on success.
	Code string
	// Error is the human-readable failure message; empty on success.
	Error string
}

// successResult builds a successful per-order outcome.
func successResult(orderID kernel.UUID) OrderOperationResult {
	return OrderOperationResult{OrderID: orderID, Success: true}
}

// failureResult builds a failed per-order outcome, classifying err.
func failureResult(orderID kernel.UUID, err error) OrderOperationResult {
	return OrderOperationResult{
		OrderID: orderID,
		Success: false,
		Code:    classifyError(err),
		Error:   err.Error(),
	}
}

// classifyError maps an error to its result code. Conflict and ownership are
// checked before the broader validation class since stale-state failures
// carry a refetch hint for the client.
func classifyError(err error) string {
	switch {
	case errors.Is(err, errs.ErrConflict):
		return CodeConflictError
	case errors.Is(err, errs.ErrOwnershipViolation):
		return CodeOwnershipError
	case errors.Is(err, errs.ErrObjectNotFound):
		return CodeNotFoundError
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return CodeValidationError
	default:
		return CodeInternalError
	}
}
