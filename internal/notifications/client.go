package notifications

import (
	"log"
	"time"

	"warbler/internal/observability"

	"github.com/gofiber/websocket/v2"
)

const (
	// Time allowed to flush a frame to the subscriber.
	writeWait = 10 * time.Second

	// Time allowed between pongs before the subscriber is considered gone.
	pongWait = 60 * time.Second

	// Ping cadence. Must be shorter than pongWait.
	pingInterval = (pongWait * 9) / 10

	// Feed subscribers have nothing to say; inbound frames beyond control
	// traffic are capped hard and discarded.
	maxInboundSize = 512

	// Events queued per subscriber before the fan-out starts dropping.
	sendBuffer = 256
)

// Client is one live websocket subscription to the feed. A user may hold
// several at once (tabs, devices); each gets its own Client.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	UserID uint

	// Send carries encoded feed events to the write pump.
	Send chan []byte
}

func newClient(hub *Hub, conn *websocket.Conn, userID uint) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		UserID: userID,
		Send:   make(chan []byte, sendBuffer),
	}
}

// ReadPump blocks until the subscriber disconnects. The feed is push-only,
// so the loop exists to service pongs and notice the close; any payload the
// subscriber sends is discarded.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.UnregisterClient(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxInboundSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("feed subscriber %d read error: %v", c.UserID, err)
			}
			return
		}
	}
}

// WritePump delivers queued feed events and keeps the connection alive with
// pings. It owns all writes to the socket.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.Send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, event); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// TrySend queues an event without ever blocking the fan-out. A slow
// subscriber loses events rather than stalling delivery to everyone else;
// a feed_gap notice tells the client to re-fetch what it missed.
func (c *Client) TrySend(event []byte) {
	defer func() {
		if recover() != nil {
			observability.WebSocketBackpressureDrops.WithLabelValues(c.hub.Name(), "closed").Inc()
		}
	}()

	select {
	case c.Send <- event:
	default:
		observability.WebSocketBackpressureDrops.WithLabelValues(c.hub.Name(), "full").Inc()
		log.Printf("feed subscriber %d: send buffer full, event dropped", c.UserID)

		select {
		case c.Send <- []byte(`{"type":"feed_gap","payload":{"reason":"buffer_full"}}`):
		default:
		}
	}
}
