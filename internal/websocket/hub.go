package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"clinic-voice-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// redisChannel carries hub events across instances.
const redisChannel = "clinic_events"

// Hub fans queue and transfer events out to connected monitor dashboards.
// Subscribers are keyed by a caller-chosen monitor id so one dashboard can
// hold several tabs open.
type Hub struct {
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Redis connection for cross-instance fan-out; nil in single-node mode
	rdb *redis.Client

	// instanceID lets the subscriber skip frames this instance originated
	instanceID string

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.MonitorID] = append(h.clients[client.MonitorID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Monitor connected", map[string]interface{}{"monitor_id": client.MonitorID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.MonitorID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.MonitorID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.MonitorID]) == 0 {
					delete(h.clients, client.MonitorID)
					h.logger.Info("Hub", "Monitor disconnected", map[string]interface{}{"monitor_id": client.MonitorID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastEvent sends an event frame to every connected monitor and relays
// it to peer instances through Redis.
func (h *Hub) BroadcastEvent(eventType string, data map[string]interface{}) {
	frame, _ := json.Marshal(map[string]interface{}{
		"type":      eventType,
		"data":      data,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})

	h.deliverAll(frame)

	if h.rdb != nil {
		payload, _ := json.Marshal(map[string]interface{}{
			"origin":  h.instanceID,
			"message": json.RawMessage(frame),
		})
		h.rdb.Publish(context.Background(), redisChannel, payload)
	}
}

func (h *Hub) deliverAll(frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, clients := range h.clients {
		for _, client := range clients {
			select {
			case client.Send <- frame:
			default:
				h.logger.Warn("Hub", "Monitor send buffer full, dropping connection", map[string]interface{}{"monitor_id": client.MonitorID})
				close(client.Send)
				go func(c *Client) { h.unregister <- c }(client)
			}
		}
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, redisChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload struct {
			Origin  string          `json:"origin"`
			Message json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}
		if payload.Origin == h.instanceID {
			continue
		}
		h.deliverAll(payload.Message)
	}
}
