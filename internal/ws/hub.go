package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/alumnet/alumnet-backend/internal/domain"
	"github.com/alumnet/alumnet-backend/pkg/logger"
)

const redisPubSubChannel = "realtime"

// Hub fans realtime events out to the WebSocket clients of each user.
// With Redis configured, events are also relayed to the other API instances.
type Hub struct {
	// Registered clients grouped by user ID
	clients map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *domain.RealtimeEvent

	mu          sync.RWMutex
	redisClient *redis.Client
	instanceID  string
	now         func() time.Time
	ctx         context.Context
	cancel      context.CancelFunc
}

// relayMessage is the pub/sub payload; Origin lets an instance skip its own publishes
type relayMessage struct {
	Origin string                `json:"origin"`
	Event  *domain.RealtimeEvent `json:"event"`
}

// NewHub creates a new Hub. redisClient may be nil for a single instance.
func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:     make(map[string]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan *domain.RealtimeEvent, 256),
		redisClient: redisClient,
		instanceID:  uuid.NewString(),
		now:         time.Now,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.ctx.Done():
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	if h.redisClient != nil {
		go h.subscribeRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.userID] == nil {
				h.clients[client.userID] = make(map[*Client]bool)
			}
			h.clients[client.userID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.deliver(event)

		case <-h.ctx.Done():
			return
		}
	}
}

// remove drops a client; caller holds h.mu
func (h *Hub) remove(client *Client) {
	clients, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, client.userID)
	}
}

func (h *Hub) deliver(event *domain.RealtimeEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.GetLogger().Error().Err(err).Str("type", event.Type).Msg("realtime event encode failed")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients[event.UserID] {
		select {
		case client.send <- data:
		default:
			// slow consumer
			h.remove(client)
		}
	}
}

// Notify queues an event for userID's open connections and relays it
// to the other instances. It never blocks the caller.
func (h *Hub) Notify(userID, eventType string, data interface{}) {
	if userID == "" {
		return
	}
	event := &domain.RealtimeEvent{
		CreatedAt: h.now().UTC(),
		Data:      data,
		Type:      eventType,
		UserID:    userID,
	}
	h.enqueue(event)

	if h.redisClient == nil {
		return
	}
	payload, err := json.Marshal(&relayMessage{Origin: h.instanceID, Event: event})
	if err != nil {
		logger.GetLogger().Error().Err(err).Str("type", eventType).Msg("realtime relay encode failed")
		return
	}
	if err := h.redisClient.Publish(h.ctx, redisPubSubChannel, payload).Err(); err != nil {
		logger.GetLogger().Warn().Err(err).Str("type", eventType).Msg("realtime relay publish failed")
	}
}

func (h *Hub) enqueue(event *domain.RealtimeEvent) {
	select {
	case h.broadcast <- event:
	default:
		logger.GetLogger().Warn().
			Str("type", event.Type).
			Str("user_id", event.UserID).
			Msg("realtime queue full, event dropped")
	}
}

// Online reports how many connections userID currently holds
func (h *Hub) Online(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// subscribeRedis relays events published by other instances
func (h *Hub) subscribeRedis() {
	pubsub := h.redisClient.Subscribe(h.ctx, redisPubSubChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var rm relayMessage
			if err := json.Unmarshal([]byte(msg.Payload), &rm); err != nil || rm.Event == nil {
				continue
			}
			if rm.Origin == h.instanceID {
				continue
			}
			h.enqueue(rm.Event)
		case <-h.ctx.Done():
			return
		}
	}
}

// Stop shuts the hub down
func (h *Hub) Stop() {
	h.cancel()
}
