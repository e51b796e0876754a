package ws

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeWait is the deadline for a single write to the peer.
	writeWait = 10 * time.Second

	// pongWait is how long a connection may stay silent before it is
	// considered dead. Dispatch connections stay alive through the
	// ping/pong exchange; driver connections extend the deadline on
	// every received report.
	pongWait = 60 * time.Second

	// pingPeriod must be less than pongWait so pings keep the read
	// deadline alive.
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize bounds inbound frames. Location reports are tiny;
	// anything larger is a misbehaving client.
	maxMessageSize = 1024
)

// driverMessage is the inbound frame from a driver connection.
type driverMessage struct {
	Lat          float64   `json:"lat"`
	Lng          float64   `json:"lng"`
	RecordedAt   time.Time `json:"recorded_at"`
	Availability string    `json:"availability,omitempty"`
}

func configureRead(conn *websocket.Conn, wait time.Duration) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(wait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wait))
	})
}

// writePump drains updates to a subscriber connection and keeps it alive
// with pings. Returns when updates is closed or a write fails.
func writePump(conn *websocket.Conn, updates <-chan LocationUpdate) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case update, ok := <-updates:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(update); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
