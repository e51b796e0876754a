package ws

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"dispatch/internal/core/domain/model/auth"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/token"
)

// Handler terminates the WebSocket endpoints. Tokens travel in the "token"
// query parameter because browser WebSocket clients cannot set headers; the
// token is validated before the upgrade so a bad credential gets a plain 401
// and never holds a socket.
type Handler struct {
	hub      *Hub
	drivers  ports.DriverRepository
	verifier *token.Verifier
	logger   *slog.Logger
	upgrader websocket.Upgrader

	// readWait is the silence window before a connection is considered
	// dead. Shortened in tests.
	readWait time.Duration
}

// NewHandler creates the WebSocket handler.
func NewHandler(hub *Hub, drivers ports.DriverRepository, verifier *token.Verifier, logger *slog.Logger) (*Handler, error) {
	if hub == nil {
		return nil, errs.NewValueIsRequiredError("hub")
	}
	if drivers == nil {
		return nil, errs.NewValueIsRequiredError("drivers")
	}
	if verifier == nil {
		return nil, errs.NewValueIsRequiredError("verifier")
	}

	return &Handler{
		hub:      hub,
		drivers:  drivers,
		verifier: verifier,
		logger:   logger.With("component", "ws-handler"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		readWait: pongWait,
	}, nil
}

// Register mounts the WebSocket endpoint. One route serves both sides:
// driver tokens ingest position reports, everyone else subscribes.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/drivers/location-updates", h.serve)
}

func (h *Handler) serve(c echo.Context) error {
	principal, err := h.authenticate(c)
	if err != nil {
		return err
	}
	if principal.Role() == auth.RoleDriver {
		return h.serveDriver(c, principal)
	}
	return h.serveDispatch(c, principal)
}

func (h *Handler) authenticate(c echo.Context) (auth.Principal, error) {
	tokenStr := c.QueryParam("token")
	if tokenStr == "" {
		return auth.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing token")
	}

	principal, err := h.verifier.Parse(tokenStr)
	if err != nil {
		return auth.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	return principal, nil
}

// serveDriver is the driver side of the endpoint. The connection ingests
// position reports, persists accepted ones, and fans them out to dispatch
// subscribers.
func (h *Handler) serveDriver(c echo.Context, principal auth.Principal) error {
	if principal.DriverID() == nil {
		return echo.NewHTTPError(http.StatusForbidden, "driver token carries no driver identity")
	}

	ctx := c.Request().Context()
	d, err := h.drivers.Get(ctx, *principal.DriverID())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unknown driver")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	logger := h.logger.With("driver_id", d.ID().String())
	logger.Info("driver connected")

	if err = h.drivers.SetAvailability(ctx, d.ID(), driver.AvailabilityOnline); err != nil {
		logger.Error("failed to mark driver online", "error", err)
	}

	h.readDriverLoop(c, conn, d)

	// Connection gone: the driver is no longer reporting.
	if err = h.drivers.SetAvailability(ctx, d.ID(), driver.AvailabilityOffline); err != nil {
		logger.Error("failed to mark driver offline", "error", err)
	}
	h.hub.Forget(d.ID().Bytes())
	logger.Info("driver disconnected")

	return nil
}

func (h *Handler) readDriverLoop(c echo.Context, conn *websocket.Conn, d *driver.Driver) {
	defer func() { _ = conn.Close() }()
	configureRead(conn, h.readWait)

	ctx := c.Request().Context()
	logger := h.logger.With("driver_id", d.ID().String())

	for {
		var msg driverMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("driver read failed", "error", err)
			}
			return
		}

		// No ping ticker runs on the ingest side, so each received report
		// extends the deadline. A driver falls off only after readWait of
		// true silence.
		_ = conn.SetReadDeadline(time.Now().Add(h.readWait))

		recordedAt := msg.RecordedAt
		if recordedAt.IsZero() {
			recordedAt = time.Now()
		}

		loc, err := kernel.NewLocation(msg.Lat, msg.Lng, recordedAt)
		if err != nil {
			logger.Warn("dropping invalid location report", "error", err)
			continue
		}

		if !h.hub.Accept(d.ID().Bytes(), loc.RecordedAt()) {
			continue
		}

		availability := string(d.Availability())
		if msg.Availability != "" {
			a := driver.Availability(msg.Availability)
			if err = a.Validate(); err != nil {
				logger.Warn("dropping invalid availability", "error", err)
				continue
			}
			if err = h.drivers.SetAvailability(ctx, d.ID(), a); err != nil {
				logger.Error("failed to update availability", "error", err)
				continue
			}
			availability = string(a)
		}

		if err = h.drivers.UpdateLocation(ctx, d.ID(), loc); err != nil {
			logger.Error("failed to persist location", "error", err)
			continue
		}

		h.hub.Publish(LocationUpdate{
			DriverID:     d.ID().Bytes(),
			WarehouseID:  d.WarehouseID().Bytes(),
			Lat:          loc.Lat(),
			Lng:          loc.Lng(),
			RecordedAt:   loc.RecordedAt(),
			Availability: availability,
		})
	}
}

// serveDispatch is the subscription side of the endpoint. On connect the
// client receives a snapshot of the last known position of every driver in
// scope, then live updates as they arrive.
func (h *Handler) serveDispatch(c echo.Context, principal auth.Principal) error {
	snapshot, err := h.snapshot(c, principal)
	if err != nil {
		return err
	}

	var scope []uuid.UUID
	if !principal.IsUnrestricted() {
		ids := principal.AllowedWarehouseIDs()
		scope = make([]uuid.UUID, 0, len(ids))
		for _, id := range ids {
			scope = append(scope, id.Bytes())
		}
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	updates, cancel := h.hub.Subscribe(scope)
	defer cancel()

	h.logger.Info("dispatch subscriber connected", "user_id", principal.ID().String())

	for _, update := range snapshot {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err = conn.WriteJSON(update); err != nil {
			return nil
		}
	}

	go writePump(conn, updates)

	// Consume control frames until the peer goes away.
	configureRead(conn, pongWait)
	for {
		if _, _, err = conn.ReadMessage(); err != nil {
			break
		}
	}

	h.logger.Info("dispatch subscriber disconnected", "user_id", principal.ID().String())
	return nil
}

// snapshot collects the last known position of every in-scope driver that
// has ever reported one.
func (h *Handler) snapshot(c echo.Context, principal auth.Principal) ([]LocationUpdate, error) {
	all, err := h.drivers.GetAll(c.Request().Context())
	if err != nil {
		return nil, err
	}

	var scope map[kernel.UUID]struct{}
	if !principal.IsUnrestricted() {
		scope = make(map[kernel.UUID]struct{})
		for _, id := range principal.AllowedWarehouseIDs() {
			scope[id] = struct{}{}
		}
	}

	updates := make([]LocationUpdate, 0, len(all))
	for _, d := range all {
		if scope != nil {
			if _, ok := scope[d.WarehouseID()]; !ok {
				continue
			}
		}
		loc := d.LastKnownLocation()
		if loc == nil {
			continue
		}
		updates = append(updates, LocationUpdate{
			DriverID:     d.ID().Bytes(),
			WarehouseID:  d.WarehouseID().Bytes(),
			Lat:          loc.Lat(),
			Lng:          loc.Lng(),
			RecordedAt:   loc.RecordedAt(),
			Availability: string(d.Availability()),
		})
	}

	return updates, nil
}
