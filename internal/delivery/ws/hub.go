// Package ws fans order events out to connected WebSocket clients.
package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"munch/internal/domain/service"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 16
)

// Client is a single WebSocket subscriber. Admins receive every event;
// shoppers only receive events for their own orders.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID uuid.UUID
	admin  bool
	send   chan []byte
}

// Hub tracks connected clients and routes order events to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *slog.Logger
}

// NewHub is the constructor for the Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

// Register attaches an upgraded connection to the hub and starts its pumps.
func (h *Hub) Register(conn *websocket.Conn, userID uuid.UUID, admin bool) {
	client := &Client{
		hub:    h,
		conn:   conn,
		userID: userID,
		admin:  admin,
		send:   make(chan []byte, sendBufferSize),
	}

	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()

	h.logger.Debug("WebSocket client connected",
		slog.Any("userID", userID),
		slog.Bool("admin", admin))

	go client.writePump()
	go client.readPump()
}

// Broadcast routes an order event to every client allowed to see it.
// Shoppers receive order events for their own orders only; the statistics
// channel is admin-only.
func (h *Hub) Broadcast(event *service.OrderEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Failed to marshal order event", slog.Any("error", err))

		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if !client.allowed(event) {
			continue
		}

		select {
		case client.send <- payload:
		default:
			// Slow consumer, drop the event rather than block the hub.
			h.logger.Warn("Dropping event for slow WebSocket client",
				slog.Any("userID", client.userID))
		}
	}
}

func (c *Client) allowed(event *service.OrderEvent) bool {
	if c.admin {
		return true
	}

	return event.Channel == service.ChannelOrders && event.UserID == c.userID
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	h.mu.Unlock()
}

// readPump discards inbound frames and detects closed connections.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump flushes queued events and keeps the connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})

				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
