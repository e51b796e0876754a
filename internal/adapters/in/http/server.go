// Package http exposes the order lifecycle and sync operations over REST.
// Handlers translate between the wire surface and use-case commands/queries;
// no business rule lives here.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	createOrder  commands.CreateOrderCommandHandler
	createDriver commands.CreateDriverCommandHandler
	assign       commands.AssignOrderCommandHandler
	batchAssign  commands.BatchAssignOrdersCommandHandler
	reassign     commands.ReassignOrderCommandHandler
	unassign     commands.UnassignOrderCommandHandler
	changeStatus commands.ChangeOrderStatusCommandHandler
	reconcile    commands.ReconcileSyncBatchCommandHandler
	unarchive    commands.UnarchiveOrderCommandHandler

	getOrder   queries.GetOrderQueryHandler
	getOrders  queries.GetOrdersQueryHandler
	getDrivers queries.GetDriversQueryHandler

	// syncBudget bounds the processing time of one offline sync batch.
	// Items not reached within the budget come back as retryable timeouts
	// instead of holding the request open indefinitely.
	syncBudget time.Duration
}

// NewServer creates the HTTP server over the given use-case handlers.
func NewServer(
	createOrder commands.CreateOrderCommandHandler,
	createDriver commands.CreateDriverCommandHandler,
	assign commands.AssignOrderCommandHandler,
	batchAssign commands.BatchAssignOrdersCommandHandler,
	reassign commands.ReassignOrderCommandHandler,
	unassign commands.UnassignOrderCommandHandler,
	changeStatus commands.ChangeOrderStatusCommandHandler,
	reconcile commands.ReconcileSyncBatchCommandHandler,
	unarchive commands.UnarchiveOrderCommandHandler,
	getOrder queries.GetOrderQueryHandler,
	getOrders queries.GetOrdersQueryHandler,
	getDrivers queries.GetDriversQueryHandler,
	syncBudget time.Duration,
) *Server {
	return &Server{
		createOrder:  createOrder,
		createDriver: createDriver,
		assign:       assign,
		batchAssign:  batchAssign,
		reassign:     reassign,
		unassign:     unassign,
		changeStatus: changeStatus,
		reconcile:    reconcile,
		unarchive:    unarchive,
		getOrder:     getOrder,
		getOrders:    getOrders,
		getDrivers:   getDrivers,
		syncBudget:   syncBudget,
	}
}

// RegisterRoutes mounts the API under /api/v1 behind the auth middleware.
func (s *Server) RegisterRoutes(e *echo.Echo, authMW echo.MiddlewareFunc) {
	api := e.Group("/api/v1", authMW)

	api.POST("/orders", s.handleCreateOrder)
	api.GET("/orders", s.handleListOrders)
	api.GET("/orders/:id", s.handleGetOrder)
	api.POST("/orders/batch-assign", s.handleBatchAssign)
	api.POST("/orders/:id/assign", s.handleAssign)
	api.POST("/orders/:id/reassign", s.handleReassign)
	api.POST("/orders/:id/unassign", s.handleUnassign)
	api.PATCH("/orders/:id/status", s.handleChangeStatus)
	api.POST("/orders/:id/unarchive", s.handleUnarchive)
	api.POST("/sync/status-updates", s.handleSync)
	api.POST("/drivers", s.handleCreateDriver)
	api.GET("/drivers", s.handleListDrivers)
}

func (s *Server) handleCreateOrder(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}

	var req CreateOrderRequest
	if err = c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	warehouseID, err := kernel.UUIDFromString(req.WarehouseID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Code: "validation_error", Message: "invalid warehouse_id"})
	}

	customer, err := order.NewCustomer(req.CustomerName, req.CustomerPhone, req.CustomerAddress, req.CustomerArea)
	if err != nil {
		return respondError(c, err)
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(
		orderID,
		req.SalesOrderNumber,
		warehouseID,
		customer,
		order.PaymentMethod(req.PaymentMethod),
		req.TotalAmount,
		req.Notes,
		req.SalesTaker,
		principal,
	)
	if err != nil {
		return respondError(c, err)
	}

	if err = s.createOrder.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]string{"id": orderID.String()})
}

func (s *Server) handleListOrders(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}

	filter, err := parseOrdersFilter(c)
	if err != nil {
		return respondError(c, err)
	}

	query, err := queries.NewGetOrdersQuery(principal, filter)
	if err != nil {
		return respondError(c, err)
	}

	resp, err := s.getOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetOrder(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}

	orderID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	query, err := queries.NewGetOrderQuery(orderID, principal)
	if err != nil {
		return respondError(c, err)
	}

	resp, err := s.getOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleAssign(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}

	orderID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req AssignRequest
	if err = c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	driverID, err := kernel.UUIDFromString(req.DriverID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Code: "validation_error", Message: "invalid driver_id"})
	}

	cmd, err := commands.NewAssignOrderCommand(orderID, driverID, principal)
	if err != nil {
		return respondError(c, err)
	}

	if err = s.assign.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleBatchAssign(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}

	var req BatchAssignRequest
	if err = c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	driverID, err := kernel.UUIDFromString(req.DriverID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Code: "validation_error", Message: "invalid driver_id"})
	}

	orderIDs := make([]kernel.UUID, 0, len(req.OrderIDs))
	for _, raw := range req.OrderIDs {
		id, idErr := kernel.UUIDFromString(raw)
		if idErr != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Code: "validation_error", Message: "invalid order id " + raw})
		}
		orderIDs = append(orderIDs, id)
	}

	cmd, err := commands.NewBatchAssignOrdersCommand(orderIDs, driverID, principal)
	if err != nil {
		return respondError(c, err)
	}

	results, err := s.batchAssign.Handle(c.Request().Context(), cmd)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, toResultsResponse(results))
}

func (s *Server) handleReassign(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}

	orderID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req ReassignRequest
	if err = c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	driverID, err := kernel.UUIDFromString(req.DriverID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Code: "validation_error", Message: "invalid driver_id"})
	}

	cmd, err := commands.NewReassignOrderCommand(orderID, driverID, req.Reason, principal)
	if err != nil {
		return respondError(c, err)
	}

	if err = s.reassign.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleUnassign(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}

	orderID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	cmd, err := commands.NewUnassignOrderCommand(orderID, principal)
	if err != nil {
		return respondError(c, err)
	}

	if err = s.unassign.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleChangeStatus(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}

	orderID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req ChangeStatusRequest
	if err = c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	target, err := order.StatusFromString(req.Status)
	if err != nil {
		return respondError(c, err)
	}

	proof, err := req.Proof.toProof()
	if err != nil {
		return respondError(c, err)
	}

	cmd, err := commands.NewChangeOrderStatusCommand(orderID, target, req.Notes, proof, principal)
	if err != nil {
		return respondError(c, err)
	}

	if err = s.changeStatus.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleUnarchive(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}

	orderID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	cmd, err := commands.NewUnarchiveOrderCommand(orderID, principal)
	if err != nil {
		return respondError(c, err)
	}

	if err = s.unarchive.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleSync(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}

	var req SyncRequest
	if err = c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	driverID, err := kernel.UUIDFromString(req.DriverID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Code: "validation_error", Message: "invalid driver_id"})
	}

	items := make([]commands.SyncItem, 0, len(req.Updates))
	for _, update := range req.Updates {
		item, itemErr := toSyncItem(update)
		if itemErr != nil {
			return respondError(c, itemErr)
		}
		items = append(items, item)
	}

	cmd, err := commands.NewReconcileSyncBatchCommand(driverID, principal, items)
	if err != nil {
		return respondError(c, err)
	}

	ctx := c.Request().Context()
	if s.syncBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.syncBudget)
		defer cancel()
	}

	results, err := s.reconcile.Handle(ctx, cmd)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, toResultsResponse(results))
}

func (s *Server) handleCreateDriver(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}

	var req CreateDriverRequest
	if err = c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	userID, err := kernel.UUIDFromString(req.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Code: "validation_error", Message: "invalid user_id"})
	}

	warehouseID, err := kernel.UUIDFromString(req.WarehouseID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Code: "validation_error", Message: "invalid warehouse_id"})
	}

	driverID := kernel.NewUUID()
	cmd, err := commands.NewCreateDriverCommand(driverID, userID, req.Code, req.Name, warehouseID, principal)
	if err != nil {
		return respondError(c, err)
	}

	if err = s.createDriver.Handle(c.Request().Context(), cmd); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]string{"id": driverID.String()})
}

func (s *Server) handleListDrivers(c echo.Context) error {
	principal, err := principalFrom(c)
	if err != nil {
		return err
	}

	var warehouseID *kernel.UUID
	if raw := c.QueryParam("warehouse_id"); raw != "" {
		id, idErr := kernel.UUIDFromString(raw)
		if idErr != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Code: "validation_error", Message: "invalid warehouse_id"})
		}
		warehouseID = &id
	}

	query, err := queries.NewGetDriversQuery(principal, warehouseID, c.QueryParam("availability"))
	if err != nil {
		return respondError(c, err)
	}

	resp, err := s.getDrivers.Handle(c.Request().Context(), query)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, resp)
}
