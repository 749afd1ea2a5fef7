package ws

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultSendBuffer is the per-subscriber outbound queue capacity used when
// the hub is built with a non-positive buffer size.
const DefaultSendBuffer = 32

// Client is a subscriber handle. Messages arrive on Receive until the hub
// drops the client, which closes the channel.
type Client struct {
	id   uuid.UUID
	send chan []byte
}

// Receive returns the client's outbound queue.
func (c *Client) Receive() <-chan []byte { return c.send }

// Hub fans out snapshots to every subscriber with best-effort delivery:
// no replay, no backlog. A subscriber whose queue is full is dropped rather
// than allowed to stall delivery to the others.
type Hub struct {
	logger *zap.Logger
	buffer int

	mu      sync.Mutex
	clients map[*Client]struct{}
	closed  bool
}

func NewHub(logger *zap.Logger, sendBuffer int) *Hub {
	if sendBuffer <= 0 {
		sendBuffer = DefaultSendBuffer
	}
	return &Hub{
		logger:  logger,
		buffer:  sendBuffer,
		clients: make(map[*Client]struct{}),
	}
}

// Subscribe registers a new subscriber. No data has been sent to it yet.
func (h *Hub) Subscribe() *Client {
	c := &Client{id: uuid.New(), send: make(chan []byte, h.buffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(c.send)
		return c
	}
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("ws_subscribe", zap.String("client", c.id.String()), zap.Int("clients", n))
	return c
}

// Unsubscribe removes a subscriber. Idempotent, safe after the connection
// already closed.
func (h *Hub) Unsubscribe(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		h.logger.Info("ws_unsubscribe", zap.String("client", c.id.String()), zap.Int("clients", n))
	}
}

// Publish sends the payload to every registered subscriber without ever
// blocking: a client whose queue is full is dropped from the registry.
func (h *Hub) Publish(payload []byte) {
	h.mu.Lock()
	var dropped []*Client
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			delete(h.clients, c)
			close(c.send)
			dropped = append(dropped, c)
		}
	}
	h.mu.Unlock()

	for _, c := range dropped {
		h.logger.Warn("ws_client_dropped", zap.String("client", c.id.String()),
			zap.String("reason", "send buffer overflow"))
	}
}

// PublishJSON marshals the event once and fans the same bytes out to all
// subscribers, so one tick's payload is internally consistent.
func (h *Hub) PublishJSON(v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.Publish(payload)
	return nil
}

// ClientCount returns the number of registered subscribers.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close drops every subscriber and rejects future subscriptions.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}
