package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"hoursreport/internal/infrastructure"
	"hoursreport/pkg/contracts/events"
)

// broadcastQueueSize bounds the number of pending broadcasts.
const broadcastQueueSize = 64

// ErrHubStopped is returned when registering with a hub that is no longer running
var ErrHubStopped = errors.New("websocket hub stopped")

type outbound struct {
	msgType events.MessageType
	payload []byte
}

// Hub maintains the set of active clients and broadcasts session events to them
type Hub struct {
	// Registered clients
	clients map[*Client]struct{}

	broadcast  chan outbound
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu      sync.RWMutex
	logger  *slog.Logger
	metrics *infrastructure.ReportMetrics
}

// NewHub creates a new Hub. Call Run to start delivering messages.
func NewHub(logger *slog.Logger, metrics *infrastructure.ReportMetrics) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan outbound, broadcastQueueSize),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger.With(slog.String("component", "websocket.hub")),
		metrics:    metrics,
	}
}

// Run is the hub's main loop. It returns when ctx is cancelled, closing every client.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)
	defer h.closeAll(ctx)

	h.logger.InfoContext(ctx, "websocket hub started")

	for {
		select {
		case <-ctx.Done():
			h.logger.InfoContext(ctx, "websocket hub shutting down")
			return nil

		case client := <-h.register:
			h.addClient(ctx, client)

		case client := <-h.unregister:
			h.removeClient(ctx, client)

		case msg := <-h.broadcast:
			h.deliver(ctx, msg)
		}
	}
}

func (h *Hub) addClient(ctx context.Context, client *Client) {
	h.mu.Lock()
	h.clients[client] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	h.metrics.ClientConnected(ctx, 1)

	cctx := infrastructure.WithTraceID(ctx, client.traceID)
	h.logger.InfoContext(cctx, "client registered",
		slog.Int("total_clients", count),
		slog.String("client_id", client.id),
		slog.String("remote_addr", client.remoteAddr))

	payload, err := h.encode(cctx, events.MessageTypeConnect, map[string]string{
		"status":    "connected",
		"message":   "Connected to Employee Hours Report",
		"client_id": client.id,
	})
	if err != nil {
		h.logger.ErrorContext(cctx, "failed to encode connect message", slog.String("error", err.Error()))
		return
	}

	select {
	case client.send <- payload:
		h.metrics.MessagesDelivered(ctx, string(events.MessageTypeConnect), 1)
	default:
		h.logger.WarnContext(cctx, "client buffer full, connect message dropped",
			slog.String("client_id", client.id))
	}
}

func (h *Hub) removeClient(ctx context.Context, client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
		close(client.send)
	}
	count := len(h.clients)
	h.mu.Unlock()

	if !ok {
		return
	}

	h.metrics.ClientConnected(ctx, -1)
	h.logger.InfoContext(infrastructure.WithTraceID(ctx, client.traceID), "client unregistered",
		slog.Int("total_clients", count),
		slog.String("client_id", client.id),
		slog.Duration("connection_duration", time.Since(client.connectedAt)))
}

func (h *Hub) deliver(ctx context.Context, msg outbound) {
	h.mu.Lock()
	delivered, dropped := 0, 0
	for client := range h.clients {
		select {
		case client.send <- msg.payload:
			delivered++
		default:
			// Slow consumers are disconnected rather than stalling the hub
			close(client.send)
			delete(h.clients, client)
			dropped++
			h.logger.WarnContext(ctx, "client send buffer full, disconnecting",
				slog.String("client_id", client.id))
		}
	}
	h.mu.Unlock()

	if dropped > 0 {
		h.metrics.ClientConnected(ctx, -int64(dropped))
	}
	h.metrics.MessagesDelivered(ctx, string(msg.msgType), delivered)

	h.logger.DebugContext(ctx, "broadcast delivered",
		slog.String("type", string(msg.msgType)),
		slog.Int("delivered", delivered),
		slog.Int("dropped", dropped),
		slog.Int("payload_size", len(msg.payload)))
}

func (h *Hub) closeAll(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
		h.metrics.ClientConnected(ctx, -1)
	}
}

func (h *Hub) encode(ctx context.Context, msgType events.MessageType, data interface{}) ([]byte, error) {
	msg := events.WebSocketMessage{
		BaseMessage: events.BaseMessage{
			ID:        uuid.New().String(),
			Type:      msgType,
			Timestamp: time.Now().UTC(),
			TraceID:   infrastructure.GetTraceID(ctx),
		},
		Data: data,
	}
	return json.Marshal(msg)
}

// Publish queues a message for every connected client.
// It never blocks: when the queue is full the message is dropped and logged.
func (h *Hub) Publish(ctx context.Context, msgType events.MessageType, data interface{}) error {
	payload, err := h.encode(ctx, msgType, data)
	if err != nil {
		return fmt.Errorf("failed to encode %s message: %w", msgType, err)
	}

	select {
	case h.broadcast <- outbound{msgType: msgType, payload: payload}:
	default:
		h.logger.WarnContext(ctx, "broadcast queue full, message dropped",
			slog.String("type", string(msgType)))
	}
	return nil
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) error {
	select {
	case h.register <- client:
		return nil
	case <-h.done:
		return ErrHubStopped
	}
}

func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
