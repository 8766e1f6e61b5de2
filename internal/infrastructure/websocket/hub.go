package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"olicore/pkg/logger"
)

// Hub tracks every live connection grouped into per-user rooms. A user may
// hold several connections at once (one per device). The room a connection
// lands in is decided by the verified handshake credential, never by
// anything the client sends after connecting.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[client.UserID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[client.UserID] = room
	}
	room[client] = struct{}{}

	logger.Info("Client registered: user=%s connections=%d", client.UserID, len(room))
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[client.UserID]
	if !ok {
		return
	}
	if _, ok := room[client]; !ok {
		return
	}

	delete(room, client)
	client.closeSend()
	if len(room) == 0 {
		delete(h.rooms, client.UserID)
	}

	logger.Info("Client unregistered: user=%s connections=%d", client.UserID, len(room))
}

// EmitToUser broadcasts one event to every live connection of the user.
// No live connection is a silent no-op: durability for the offline case is
// the notification store's job, not this channel's.
func (h *Hub) EmitToUser(userID, event string, payload interface{}) {
	envelope := Envelope{
		Event:     event,
		Data:      payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	raw, err := json.Marshal(envelope)
	if err != nil {
		logger.Error("Failed to marshal %s event for user %s: %v", event, userID, err)
		return
	}

	h.mu.RLock()
	room := h.rooms[userID]
	clients := make([]*Client, 0, len(room))
	for client := range room {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		if !client.trySend(raw) {
			// The client is closed, or its buffer is full because the
			// reader is gone or hopelessly behind; drop the connection,
			// the client re-syncs over REST.
			logger.Warn("Dropping slow connection for user %s", userID)
			h.unregister(client)
		}
	}
}

// IsOnline reports whether the user holds at least one live connection.
func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[userID]) > 0
}
