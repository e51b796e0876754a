package ws_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/adapters/in/ws"
)

func newTestHub(queueSize int, minInterval time.Duration) *ws.Hub {
	return ws.NewHub(queueSize, minInterval, slog.Default())
}

func makeUpdate(warehouseID uuid.UUID) ws.LocationUpdate {
	return ws.LocationUpdate{
		DriverID:     uuid.New(),
		WarehouseID:  warehouseID,
		Lat:          31.95,
		Lng:          35.91,
		RecordedAt:   time.Now(),
		Availability: "online",
	}
}

func Test_Hub_Publish(t *testing.T) {
	t.Run("should deliver updates to an unrestricted subscriber", func(t *testing.T) {
		hub := newTestHub(4, 0)
		updates, cancel := hub.Subscribe(nil)
		defer cancel()

		sent := makeUpdate(uuid.New())
		hub.Publish(sent)

		select {
		case got := <-updates:
			assert.Equal(t, sent.DriverID, got.DriverID)
		case <-time.After(time.Second):
			t.Fatal("expected an update")
		}
	})

	t.Run("should filter updates by warehouse scope", func(t *testing.T) {
		hub := newTestHub(4, 0)
		visible := uuid.New()
		hidden := uuid.New()

		updates, cancel := hub.Subscribe([]uuid.UUID{visible})
		defer cancel()

		hub.Publish(makeUpdate(hidden))
		inScope := makeUpdate(visible)
		hub.Publish(inScope)

		select {
		case got := <-updates:
			assert.Equal(t, inScope.DriverID, got.DriverID)
		case <-time.After(time.Second):
			t.Fatal("expected the in-scope update")
		}
		select {
		case got := <-updates:
			t.Fatalf("unexpected extra update for driver %s", got.DriverID)
		default:
		}
	})

	t.Run("should treat an empty scope as matching nothing", func(t *testing.T) {
		hub := newTestHub(4, 0)
		updates, cancel := hub.Subscribe([]uuid.UUID{})
		defer cancel()

		hub.Publish(makeUpdate(uuid.New()))

		select {
		case got := <-updates:
			t.Fatalf("unexpected update for driver %s", got.DriverID)
		default:
		}
	})

	t.Run("should drop the oldest update for a slow subscriber", func(t *testing.T) {
		hub := newTestHub(2, 0)
		warehouseID := uuid.New()
		updates, cancel := hub.Subscribe([]uuid.UUID{warehouseID})
		defer cancel()

		first := makeUpdate(warehouseID)
		second := makeUpdate(warehouseID)
		third := makeUpdate(warehouseID)
		hub.Publish(first)
		hub.Publish(second)
		hub.Publish(third)

		got := <-updates
		assert.Equal(t, second.DriverID, got.DriverID, "oldest update should have been dropped")
		got = <-updates
		assert.Equal(t, third.DriverID, got.DriverID, "newest update must survive")
	})

	t.Run("should fan out to several subscribers", func(t *testing.T) {
		hub := newTestHub(4, 0)
		warehouseID := uuid.New()

		a, cancelA := hub.Subscribe(nil)
		defer cancelA()
		b, cancelB := hub.Subscribe([]uuid.UUID{warehouseID})
		defer cancelB()

		assert.Equal(t, 2, hub.SubscriberCount())

		sent := makeUpdate(warehouseID)
		hub.Publish(sent)

		for _, ch := range []<-chan ws.LocationUpdate{a, b} {
			select {
			case got := <-ch:
				assert.Equal(t, sent.DriverID, got.DriverID)
			case <-time.After(time.Second):
				t.Fatal("expected an update on every subscriber")
			}
		}
	})
}

func Test_Hub_Accept(t *testing.T) {
	t.Run("should accept everything when rate limiting is disabled", func(t *testing.T) {
		hub := newTestHub(4, 0)
		driverID := uuid.New()
		now := time.Now()

		assert.True(t, hub.Accept(driverID, now))
		assert.True(t, hub.Accept(driverID, now))
	})

	t.Run("should drop reports arriving faster than the interval", func(t *testing.T) {
		hub := newTestHub(4, 3*time.Second)
		driverID := uuid.New()
		base := time.Now()

		assert.True(t, hub.Accept(driverID, base))
		assert.False(t, hub.Accept(driverID, base.Add(time.Second)))
		assert.True(t, hub.Accept(driverID, base.Add(3*time.Second)))
	})

	t.Run("should rate limit each driver independently", func(t *testing.T) {
		hub := newTestHub(4, 3*time.Second)
		base := time.Now()

		first := uuid.New()
		second := uuid.New()
		assert.True(t, hub.Accept(first, base))
		assert.True(t, hub.Accept(second, base.Add(time.Second)))
	})

	t.Run("should start over after the driver state is forgotten", func(t *testing.T) {
		hub := newTestHub(4, 3*time.Second)
		driverID := uuid.New()
		base := time.Now()

		require.True(t, hub.Accept(driverID, base))
		require.False(t, hub.Accept(driverID, base.Add(time.Second)))

		hub.Forget(driverID)
		assert.True(t, hub.Accept(driverID, base.Add(2*time.Second)))
	})
}

func Test_Hub_Lifecycle(t *testing.T) {
	t.Run("should close subscriber channels on shutdown", func(t *testing.T) {
		hub := newTestHub(4, 0)
		ctx, stop := context.WithCancel(context.Background())

		done := make(chan struct{})
		go func() {
			hub.Run(ctx)
			close(done)
		}()

		updates, _ := hub.Subscribe(nil)
		stop()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("hub did not shut down")
		}

		_, open := <-updates
		assert.False(t, open, "subscriber channel should be closed")
		assert.Zero(t, hub.SubscriberCount())
	})

	t.Run("should hand a closed channel to subscribers arriving after shutdown", func(t *testing.T) {
		hub := newTestHub(4, 0)
		ctx, stop := context.WithCancel(context.Background())
		stop()
		hub.Run(ctx)

		updates, cancel := hub.Subscribe(nil)
		defer cancel()

		_, open := <-updates
		assert.False(t, open)
	})

	t.Run("should remove a cancelled subscriber", func(t *testing.T) {
		hub := newTestHub(4, 0)

		_, cancel := hub.Subscribe(nil)
		require.Equal(t, 1, hub.SubscriberCount())

		cancel()
		assert.Zero(t, hub.SubscriberCount())

		// Cancelling twice is safe.
		cancel()
	})
}
