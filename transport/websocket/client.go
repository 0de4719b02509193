package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 64
)

// client is one WebSocket connection. Reads happen on the connection's
// serve goroutine; writes are funneled through the send channel so the hub
// can fan out without blocking on a slow peer.
type client struct {
	conn *websocket.Conn
	send chan []byte

	mu     sync.Mutex
	userID string
	closed bool
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
}

func (that *client) user() string {
	that.mu.Lock()
	defer that.mu.Unlock()
	return that.userID
}

func (that *client) setUser(id string) {
	that.mu.Lock()
	defer that.mu.Unlock()
	that.userID = id
}

// enqueue queues a frame for delivery. Frames for a client whose buffer is
// full are dropped rather than stalling the broadcast.
func (that *client) enqueue(message []byte) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return
	}

	select {
	case that.send <- message:
	default:
	}
}

func (that *client) close() {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return
	}
	that.closed = true
	close(that.send)
}

// writePump drains the send channel onto the wire and keeps the connection
// alive with periodic pings. It exits when the channel closes or a write
// fails.
func (that *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = that.conn.Close()
	}()

	for {
		select {
		case message, ok := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = that.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := that.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
