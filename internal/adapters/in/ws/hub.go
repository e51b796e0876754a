// Package ws implements the live location fan-out over WebSocket. One
// endpoint serves both roles: drivers push position reports, dispatch
// screens receive updates for drivers within their warehouse scope.
//
// Delivery is lossy on purpose. Every subscriber has a small bounded queue
// and a slow consumer loses its oldest queued update, never the newest:
// for positional data staleness is worse than loss. A slow dispatcher
// screen can therefore never stall a driver's upload path.
package ws

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// LocationUpdate is the fan-out unit: one driver position report.
type LocationUpdate struct {
	DriverID     uuid.UUID `json:"driver_id"`
	WarehouseID  uuid.UUID `json:"warehouse_id"`
	Lat          float64   `json:"lat"`
	Lng          float64   `json:"lng"`
	RecordedAt   time.Time `json:"recorded_at"`
	Availability string    `json:"availability"`
}

// subscriber is one dispatch connection. A nil warehouses set means the
// subscriber is unrestricted.
type subscriber struct {
	send       chan LocationUpdate
	warehouses map[uuid.UUID]struct{}
}

func (s *subscriber) wants(update LocationUpdate) bool {
	if s.warehouses == nil {
		return true
	}
	_, ok := s.warehouses[update.WarehouseID]
	return ok
}

// offer enqueues an update, dropping the oldest queued one when full.
func (s *subscriber) offer(update LocationUpdate) (dropped bool) {
	for {
		select {
		case s.send <- update:
			return dropped
		default:
		}
		select {
		case <-s.send:
			dropped = true
		default:
		}
	}
}

// Hub routes driver location updates to dispatch subscribers.
//
// It also owns the per-driver ingest rate limit: reports arriving faster
// than the configured minimum interval are dropped before they reach
// persistence or fan-out.
type Hub struct {
	queueSize   int
	minInterval time.Duration
	logger      *slog.Logger

	mu           sync.Mutex
	subscribers  map[*subscriber]struct{}
	lastAccepted map[uuid.UUID]time.Time
	closed       bool
}

// NewHub creates a hub. queueSize bounds each subscriber's queue;
// minInterval is the per-driver floor between accepted reports, zero
// disables rate limiting.
func NewHub(queueSize int, minInterval time.Duration, logger *slog.Logger) *Hub {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Hub{
		queueSize:    queueSize,
		minInterval:  minInterval,
		logger:       logger.With("component", "ws-hub"),
		subscribers:  make(map[*subscriber]struct{}),
		lastAccepted: make(map[uuid.UUID]time.Time),
	}
}

// Run blocks until ctx is done, then closes every subscriber connection.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()

	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for sub := range h.subscribers {
		close(sub.send)
		delete(h.subscribers, sub)
	}
	h.logger.Info("hub shut down")
}

// Subscribe registers a dispatch consumer scoped to the given warehouses
// (nil means unrestricted) and returns its update channel plus a cancel
// function. The channel is closed on cancel or hub shutdown.
func (h *Hub) Subscribe(warehouseIDs []uuid.UUID) (<-chan LocationUpdate, func()) {
	var scope map[uuid.UUID]struct{}
	if warehouseIDs != nil {
		scope = make(map[uuid.UUID]struct{}, len(warehouseIDs))
		for _, id := range warehouseIDs {
			scope[id] = struct{}{}
		}
	}

	sub := &subscriber{
		send:       make(chan LocationUpdate, h.queueSize),
		warehouses: scope,
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(sub.send)
		return sub.send, func() {}
	}
	h.subscribers[sub] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subscribers[sub]; ok {
			delete(h.subscribers, sub)
			close(sub.send)
		}
	}

	return sub.send, cancel
}

// Accept applies the per-driver rate limit. It returns true when the update
// should be processed and records the acceptance time.
func (h *Hub) Accept(driverID uuid.UUID, recordedAt time.Time) bool {
	if h.minInterval <= 0 {
		return true
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	last, ok := h.lastAccepted[driverID]
	if ok && recordedAt.Sub(last) < h.minInterval {
		return false
	}
	h.lastAccepted[driverID] = recordedAt
	return true
}

// Forget clears the rate-limit state for a disconnected driver.
func (h *Hub) Forget(driverID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.lastAccepted, driverID)
}

// Publish fans an update out to every subscriber whose scope covers the
// driver's warehouse. Never blocks on a slow subscriber.
func (h *Hub) Publish(update LocationUpdate) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}

	for sub := range h.subscribers {
		if !sub.wants(update) {
			continue
		}
		if sub.offer(update) {
			h.logger.Debug("dropped oldest update for slow subscriber",
				"driver_id", update.DriverID)
		}
	}
}

// SubscriberCount reports the number of active subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}
