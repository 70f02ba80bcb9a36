package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	wsWriteWait  = 10 * time.Second
	wsSendBuffer = 32
)

// ErrSubscriberGone is returned when a message cannot be queued because the
// subscriber was dropped or its send buffer is full
var ErrSubscriberGone = errors.New("websocket subscriber gone")

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type      string `json:"type"`
	PostID    string `json:"post_id,omitempty"`
	Kind      string `json:"kind,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
	Message   string `json:"message,omitempty"`
}

// WSClient is one subscribed connection. Messages are queued on send and
// written by the client's own writer goroutine, the only writer of conn.
type WSClient struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func newWSClient(conn *websocket.Conn, buffer int) *WSClient {
	return &WSClient{
		conn: conn,
		send: make(chan []byte, buffer),
		done: make(chan struct{}),
	}
}

// enqueue never blocks. It reports false when the client is closed or its
// buffer is full.
func (c *WSClient) enqueue(data []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *WSClient) close() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// WSHub tracks the connections watching each post and relays engagement
// changes to them
type WSHub struct {
	mu          sync.RWMutex
	subscribers map[string]map[*WSClient]struct{}
	bufferSize  int
}

// NewWSHub creates a new WebSocket hub
func NewWSHub() *WSHub {
	return &WSHub{
		subscribers: make(map[string]map[*WSClient]struct{}),
		bufferSize:  wsSendBuffer,
	}
}

// Register subscribes a connection to a post and starts its writer
func (h *WSHub) Register(postID string, conn *websocket.Conn) *WSClient {
	client := h.add(postID, conn)
	go h.writePump(postID, client)
	return client
}

func (h *WSHub) add(postID string, conn *websocket.Conn) *WSClient {
	client := newWSClient(conn, h.bufferSize)

	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.subscribers[postID]
	if !ok {
		clients = make(map[*WSClient]struct{})
		h.subscribers[postID] = clients
	}
	clients[client] = struct{}{}

	log.Info().Str("post_id", postID).Int("subscribers", len(clients)).Msg("WebSocket subscription registered")
	return client
}

// Unregister removes a subscription and closes its connection
func (h *WSHub) Unregister(postID string, client *WSClient) {
	client.close()

	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.subscribers[postID]
	if !ok {
		return
	}
	if _, exists := clients[client]; !exists {
		return
	}
	delete(clients, client)
	if len(clients) == 0 {
		delete(h.subscribers, postID)
	}
	log.Info().Str("post_id", postID).Msg("WebSocket subscription unregistered")
}

// Subscribers counts the connections watching a post
func (h *WSHub) Subscribers(postID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[postID])
}

// SendTo queues a message for one client. A client that cannot take the
// message is dropped.
func (h *WSHub) SendTo(postID string, client *WSClient, message WSMessage) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	if !client.enqueue(data) {
		h.Unregister(postID, client)
		return ErrSubscriberGone
	}
	return nil
}

// NotifyEngagement tells every subscriber of postID that its likes or
// comments changed. It only queues messages and never waits on a
// connection.
func (h *WSHub) NotifyEngagement(postID, kind string) {
	h.mu.RLock()
	clients := make([]*WSClient, 0, len(h.subscribers[postID]))
	for c := range h.subscribers[postID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	if len(clients) == 0 {
		return
	}

	message := WSMessage{
		Type:      "engagement_changed",
		PostID:    postID,
		Kind:      kind,
		Timestamp: time.Now().UnixMilli(),
	}
	for _, c := range clients {
		if err := h.SendTo(postID, c, message); err != nil {
			log.Warn().
				Err(err).
				Str("post_id", postID).
				Msg("Dropped slow subscriber")
		}
	}
}

func (h *WSHub) writePump(postID string, client *WSClient) {
	for {
		select {
		case <-client.done:
			return
		case data := <-client.send:
			err := client.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err == nil {
				err = client.conn.WriteMessage(websocket.TextMessage, data)
			}
			if err != nil {
				log.Error().Err(err).Str("post_id", postID).Msg("Failed to write WebSocket message")
				h.Unregister(postID, client)
				return
			}
		}
	}
}
