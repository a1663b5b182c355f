package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Topic names a store whose snapshots are pushed to clients
type Topic string

const (
	TopicCatalog  Topic = "catalog"
	TopicBookings Topic = "bookings"
	TopicLoyalty  Topic = "loyalty"
)

// AllTopics is the default subscription of a new client
var AllTopics = []Topic{TopicCatalog, TopicBookings, TopicLoyalty}

// MessageType represents the type of WebSocket message
type MessageType string

const (
	MessageTypeSnapshot MessageType = "snapshot"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
	sendBuffer     = 64
)

// Message represents a WebSocket message
type Message struct {
	Type      MessageType `json:"type"`
	Topic     Topic       `json:"topic"`
	Loading   bool        `json:"loading"`
	Data      any         `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

// Client represents a WebSocket client connection
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	topics map[Topic]bool
}

// Hub fans store snapshots out to the connected clients. The latest
// snapshot of every topic is replayed to clients when they connect.
type Hub struct {
	clients    map[*Client]bool
	last       map[Topic][]byte
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	done       chan struct{}
	mu         sync.RWMutex
	log        logrus.FieldLogger
	upgrader   websocket.Upgrader
	now        func() time.Time
}

// NewHub creates a new Hub
func NewHub(log logrus.FieldLogger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		last:       make(map[Topic][]byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 256),
		done:       make(chan struct{}),
		log:        log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		now: time.Now,
	}
}

// Run starts the hub's main loop. It returns when ctx is done, after
// closing every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.log.Info("WebSocket hub stopped")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			for topic := range client.topics {
				if data, ok := h.last[topic]; ok {
					client.send <- data
				}
			}
			h.log.WithField("clients", len(h.clients)).Debug("WebSocket client registered")
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.log.WithField("clients", len(h.clients)).Debug("WebSocket client unregistered")
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			data, err := json.Marshal(message)
			if err != nil {
				h.log.WithError(err).WithField("topic", message.Topic).Error("Failed to marshal snapshot")
				continue
			}

			h.mu.Lock()
			h.last[message.Topic] = data
			for client := range h.clients {
				if !client.topics[message.Topic] {
					continue
				}
				select {
				case client.send <- data:
				default:
					delete(h.clients, client)
					close(client.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues a snapshot for every client subscribed to topic.
// It is a no-op once the hub has stopped.
func (h *Hub) Publish(topic Topic, loading bool, data any) {
	msg := &Message{
		Type:      MessageTypeSnapshot,
		Topic:     topic,
		Loading:   loading,
		Data:      data,
		Timestamp: h.now().UnixMilli(),
	}
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ParseTopics reads a comma separated topic list. Empty means all topics.
func ParseTopics(s string) (map[Topic]bool, error) {
	topics := make(map[Topic]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		switch t := Topic(part); t {
		case TopicCatalog, TopicBookings, TopicLoyalty:
			topics[t] = true
		default:
			return nil, fmt.Errorf("unknown topic %q", part)
		}
	}
	if len(topics) == 0 {
		for _, t := range AllTopics {
			topics[t] = true
		}
	}
	return topics, nil
}

// ServeWS upgrades the request and streams snapshots of the topics named
// in the "topics" query parameter.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	topics, err := ParseTopics(r.URL.Query().Get("topics"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		topics: topics,
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump drains the connection so control frames are processed.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
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

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
