package websocket

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	// Registered clients by channel
	clients  map[*Client]bool
	channels map[string]map[*Client]bool // channel -> clients

	// Subscription management
	subscriptions map[string]map[*Client]bool // topic -> clients

	// Inbound messages from clients
	broadcast chan []byte

	// Register/unregister requests
	register   chan *Client
	unregister chan *Client

	// Channel subscription requests
	subscribe   chan *SubscriptionRequest
	unsubscribe chan *SubscriptionRequest

	// Pool state buffer, flushed on the pool interval
	poolBuffer map[string]*PoolStateMessage

	// Mutex for thread-safe operations
	mu sync.RWMutex

	// Configuration
	config *HubConfig
}

// HubConfig contains hub configuration
type HubConfig struct {
	// Update intervals
	PoolInterval time.Duration // Default: 1s

	// Connection limits
	MaxClientsPerIP  int
	MaxSubscriptions int

	// Rate limiting
	MessageRateLimit int // Messages per second per client
}

// DefaultHubConfig returns default hub configuration
func DefaultHubConfig() *HubConfig {
	return &HubConfig{
		PoolInterval:     time.Second,
		MaxClientsPerIP:  10,
		MaxSubscriptions: 50,
		MessageRateLimit: 100,
	}
}

// SubscriptionRequest represents a subscription request
type SubscriptionRequest struct {
	Client  *Client
	Channel string
	Action  string // "subscribe" or "unsubscribe"
}

// NewHub creates a new Hub
func NewHub(config *HubConfig) *Hub {
	if config == nil {
		config = DefaultHubConfig()
	}

	return &Hub{
		clients:       make(map[*Client]bool),
		channels:      make(map[string]map[*Client]bool),
		subscriptions: make(map[string]map[*Client]bool),
		broadcast:     make(chan []byte, 256),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		subscribe:     make(chan *SubscriptionRequest, 256),
		unsubscribe:   make(chan *SubscriptionRequest, 256),
		poolBuffer:    make(map[string]*PoolStateMessage),
		config:        config,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	poolTicker := time.NewTicker(h.config.PoolInterval)
	defer poolTicker.Stop()

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case req := <-h.subscribe:
			h.handleSubscription(req)

		case req := <-h.unsubscribe:
			h.handleUnsubscription(req)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case <-poolTicker.C:
			h.broadcastPoolStates()
		}
	}
}

// registerClient adds a new client
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
}

// unregisterClient removes a client
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)

		// Remove from all channels
		for channel, clients := range h.channels {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.channels, channel)
			}
		}

		// Remove from all subscriptions
		for topic := range h.subscriptions {
			delete(h.subscriptions[topic], client)
		}

		close(client.send)
	}
}

// handleSubscription handles a subscription request
func (h *Hub) handleSubscription(req *SubscriptionRequest) {
	h.mu.Lock()
	defer h.mu.Unlock()

	channel := req.Channel
	client := req.Client

	if _, ok := h.channels[channel]; !ok {
		h.channels[channel] = make(map[*Client]bool)
	}
	h.channels[channel][client] = true

	// Send subscription confirmation
	confirmation := &WSMessage{
		Type:    "subscribed",
		Channel: channel,
		Data:    nil,
	}
	data, _ := json.Marshal(confirmation)
	client.send <- data
}

// handleUnsubscription handles an unsubscription request
func (h *Hub) handleUnsubscription(req *SubscriptionRequest) {
	h.mu.Lock()
	defer h.mu.Unlock()

	channel := req.Channel
	client := req.Client

	if clients, ok := h.channels[channel]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.channels, channel)
		}
	}

	// Send unsubscription confirmation
	confirmation := &WSMessage{
		Type:    "unsubscribed",
		Channel: channel,
		Data:    nil,
	}
	data, _ := json.Marshal(confirmation)
	client.send <- data
}

// broadcastMessage sends a message to all clients in a channel
func (h *Hub) broadcastMessage(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			// Client buffer is full, skip
		}
	}
}

// BroadcastToChannel sends a message to all clients subscribed to a channel
func (h *Hub) BroadcastToChannel(channel string, message interface{}) {
	h.mu.RLock()
	clients, ok := h.channels[channel]
	if !ok {
		h.mu.RUnlock()
		return
	}

	// Make a copy of clients to avoid holding lock during send
	clientList := make([]*Client, 0, len(clients))
	for client := range clients {
		clientList = append(clientList, client)
	}
	h.mu.RUnlock()

	data, err := json.Marshal(message)
	if err != nil {
		return
	}

	for _, client := range clientList {
		select {
		case client.send <- data:
		default:
			// Client buffer is full, skip
		}
	}
}

// ============ Channel-specific broadcasts ============

// UpdatePoolState updates the buffered state for a pool
func (h *Hub) UpdatePoolState(poolID string, state *PoolStateMessage) {
	h.mu.Lock()
	h.poolBuffer[poolID] = state
	h.mu.Unlock()
}

// broadcastPoolStates broadcasts all buffered pool updates
func (h *Hub) broadcastPoolStates() {
	h.mu.RLock()
	states := make(map[string]*PoolStateMessage)
	for k, v := range h.poolBuffer {
		states[k] = v
	}
	h.mu.RUnlock()

	for poolID, state := range states {
		channel := "pool:" + poolID
		msg := &WSMessage{
			Type:    "pool",
			Channel: channel,
			Data:    state,
		}
		h.BroadcastToChannel(channel, msg)
	}
}

// BroadcastDeposit broadcasts a collected deposit to pool subscribers
func (h *Hub) BroadcastDeposit(poolID string, deposit *DepositMessage) {
	channel := "deposits:" + poolID
	msg := &WSMessage{
		Type:    "deposit",
		Channel: channel,
		Data:    deposit,
	}
	h.BroadcastToChannel(channel, msg)
}

// BroadcastPhase broadcasts a phase transition to pool subscribers
func (h *Hub) BroadcastPhase(poolID string, phase *PhaseMessage) {
	channel := "pool:" + poolID
	msg := &WSMessage{
		Type:    "phase",
		Channel: channel,
		Data:    phase,
	}
	h.BroadcastToChannel(channel, msg)
}

// BroadcastDraw broadcasts a settled draw to pool subscribers
func (h *Hub) BroadcastDraw(poolID string, draw *DrawMessage) {
	channel := "draws:" + poolID
	msg := &WSMessage{
		Type:    "draw",
		Channel: channel,
		Data:    draw,
	}
	h.BroadcastToChannel(channel, msg)
}

// BroadcastClaimable broadcasts a claimable balance change to a member
func (h *Hub) BroadcastClaimable(address string, claim *ClaimMessage) {
	channel := "claims:" + address
	msg := &WSMessage{
		Type:    "claimable",
		Channel: channel,
		Data:    claim,
	}
	h.BroadcastToChannel(channel, msg)
}

// ============ Message Types ============

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Channel string      `json:"channel"`
	Data    interface{} `json:"data,omitempty"`
}

// PoolStateMessage represents a pool state update
type PoolStateMessage struct {
	PoolID        string `json:"pool_id"`
	Phase         string `json:"phase"`
	CurrentCycle  int64  `json:"current_cycle"`
	ActiveMembers int64  `json:"active_members"`
	Balance       string `json:"balance"`
	Timestamp     int64  `json:"timestamp"`
}

// DepositMessage represents a collected cycle deposit
type DepositMessage struct {
	PoolID    string `json:"pool_id"`
	Member    string `json:"member"`
	Cycle     int64  `json:"cycle"`
	Amount    string `json:"amount"`
	Timestamp int64  `json:"timestamp"`
}

// PhaseMessage represents a pool phase transition
type PhaseMessage struct {
	PoolID    string `json:"pool_id"`
	From      string `json:"from"`
	To        string `json:"to"`
	Timestamp int64  `json:"timestamp"`
}

// DrawMessage represents a settled prize draw
type DrawMessage struct {
	PoolID    string   `json:"pool_id"`
	Winners   []string `json:"winners"`
	Prize     string   `json:"prize"`
	Fee       string   `json:"fee"`
	Timestamp int64    `json:"timestamp"`
}

// ClaimMessage represents a claimable balance change
type ClaimMessage struct {
	PoolID    string `json:"pool_id"`
	Address   string `json:"address"`
	Amount    string `json:"amount"`
	Timestamp int64  `json:"timestamp"`
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// GetChannelCount returns the number of active channels
func (h *Hub) GetChannelCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels)
}

// GetChannelClientCount returns the number of clients in a channel
func (h *Hub) GetChannelClientCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if clients, ok := h.channels[channel]; ok {
		return len(clients)
	}
	return 0
}

// ServeWS handles WebSocket upgrade requests routed directly to the hub
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	clientID := uuid.New().String()
	userID := r.URL.Query().Get("address")
	ip := getClientIP(r)

	client := NewClient(h, conn, clientID, userID, ip)
	h.register <- client

	go client.writePump()
	go client.readPump()
}
