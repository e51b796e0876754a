package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

func pathUUID(c echo.Context, name string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(c.Param(name))
	if err != nil {
		return kernel.UUID{}, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

func parseOrdersFilter(c echo.Context) (queries.GetOrdersFilter, error) {
	var filter queries.GetOrdersFilter

	if raw := c.QueryParam("status"); raw != "" {
		status, err := order.StatusFromString(raw)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	if raw := c.QueryParam("driver_id"); raw != "" {
		driverID, err := kernel.UUIDFromString(raw)
		if err != nil {
			return filter, errs.NewValueIsInvalidErrorWithCause("driver_id", err)
		}
		filter.DriverID = &driverID
	}

	if raw := c.QueryParam("warehouse_id"); raw != "" {
		warehouseID, err := kernel.UUIDFromString(raw)
		if err != nil {
			return filter, errs.NewValueIsInvalidErrorWithCause("warehouse_id", err)
		}
		filter.WarehouseID = &warehouseID
	}

	filter.IncludeArchived = c.QueryParam("include_archived") == "true"

	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return filter, errs.NewValueIsInvalidErrorWithCause("limit", err)
		}
		filter.Limit = limit
	}

	if raw := c.QueryParam("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			return filter, errs.NewValueIsInvalidErrorWithCause("offset", err)
		}
		filter.Offset = offset
	}

	return filter, nil
}

func toSyncItem(update SyncUpdateRequest) (commands.SyncItem, error) {
	orderID, err := kernel.UUIDFromString(update.OrderID)
	if err != nil {
		return commands.SyncItem{}, errs.NewValueIsInvalidErrorWithCause("order_id", err)
	}

	target, err := order.StatusFromString(update.Status)
	if err != nil {
		return commands.SyncItem{}, err
	}

	proof, err := update.Proof.toProof()
	if err != nil {
		return commands.SyncItem{}, err
	}

	return commands.SyncItem{
		OrderID:         orderID,
		Target:          target,
		ClientTimestamp: update.ClientTimestamp,
		IdempotencyKey:  update.IdempotencyKey,
		Notes:           update.Notes,
		Proof:           proof,
	}, nil
}

func toResultsResponse(results []commands.OrderOperationResult) ResultsResponse {
	out := make([]OperationResult, 0, len(results))
	for _, r := range results {
		out = append(out, OperationResult{
			OrderID: r.OrderID.String(),
			Success: r.Success,
			Code:    r.Code,
			Error:   r.Error,
		})
	}
	return ResultsResponse{Results: out}
}
