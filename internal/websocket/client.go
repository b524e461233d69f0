// Fleetwatch - Real-Time Device Monitoring Dashboard
// Copyright 2026 Fleetwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fleetwatch/fleetwatch

package websocket

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fleetwatch/fleetwatch/internal/logging"
	"github.com/fleetwatch/fleetwatch/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512 * 1024 // 512 KB
)

// clientIDCounter hands out monotonically increasing ids so the hub can
// iterate clients in a stable order.
var clientIDCounter atomic.Uint64

// Client bridges one viewer's websocket connection and the hub.
type Client struct {
	id   uint64
	hub  *Hub
	conn *websocket.Conn
	send chan models.Event

	// sendMu guards sendClosed so concurrent senders (the hub's fan-out
	// and the read pump's pong reply) never hit a closed channel.
	sendMu     sync.Mutex
	sendClosed bool
}

// NewClient wraps an upgraded connection. The caller registers it with
// the hub and then calls Start.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		id:   clientIDCounter.Add(1),
		hub:  hub,
		conn: conn,
		send: make(chan models.Event, broadcastBuffer),
	}
}

// ID returns the client's ordering id.
func (c *Client) ID() uint64 {
	return c.id
}

// trySend queues an event without blocking. Returns false when the
// buffer is full or the channel has been closed; either way the event
// is dropped, matching at-most-once delivery.
func (c *Client) trySend(event models.Event) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.sendClosed {
		return false
	}
	select {
	case c.send <- event:
		return true
	default:
		return false
	}
}

// closeSend closes the send channel exactly once. Only the hub calls
// this; after it returns, trySend is a safe no-op.
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if !c.sendClosed {
		c.sendClosed = true
		close(c.send)
	}
}

// Start launches the read and write pumps. The pumps unregister the
// client and close the connection on their way out.
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

// readPump consumes inbound frames. Viewers only ever send application
// pings; everything else is ignored. Exiting the loop unregisters the
// client.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg models.Event
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Error().Err(err).Msg("unexpected websocket close")
			}
			break
		}

		if msg.Type == MessageTypePing {
			c.trySend(models.Event{Type: MessageTypePong})
		}
	}
}

// writePump forwards queued events to the connection and keeps the
// protocol-level ping/pong heartbeat going.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline")
				return
			}
			if !ok {
				// Hub closed the channel.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				logging.Error().Err(err).Msg("failed to write event")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline for ping")
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
