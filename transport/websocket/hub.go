package websocket

import (
	"log/slog"
	"sync"
)

// Hub tracks every live connection and its room subscriptions, and fans
// server events out to them. It implements the service layer's Broadcaster.
type Hub struct {
	logger *slog.Logger

	mu      sync.RWMutex
	clients map[*client]bool
	rooms   map[string]map[*client]bool
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:  logger.With("component", "hub"),
		clients: make(map[*client]bool),
		rooms:   make(map[string]map[*client]bool),
	}
}

func (that *Hub) register(cl *client) {
	that.mu.Lock()
	defer that.mu.Unlock()
	that.clients[cl] = true
}

// unregister drops the client from the global set and every room group.
func (that *Hub) unregister(cl *client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.clients, cl)
	for roomID, group := range that.rooms {
		delete(group, cl)
		if len(group) == 0 {
			delete(that.rooms, roomID)
		}
	}
}

// Subscribe joins the user's connection to the room group.
func (that *Hub) Subscribe(roomID, userID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for cl := range that.clients {
		if cl.user() != userID {
			continue
		}
		if that.rooms[roomID] == nil {
			that.rooms[roomID] = make(map[*client]bool)
		}
		that.rooms[roomID][cl] = true
	}
}

// Unsubscribe removes the user's connection from the room group.
func (that *Hub) Unsubscribe(roomID, userID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for cl := range that.rooms[roomID] {
		if cl.user() == userID {
			delete(that.rooms[roomID], cl)
		}
	}
	if len(that.rooms[roomID]) == 0 {
		delete(that.rooms, roomID)
	}
}

// ToRoom sends an event to every connection subscribed to the room. The
// payload is serialized before return, so callers may pass state they still
// hold a lock over.
func (that *Hub) ToRoom(roomID, event string, payload any) {
	message, err := envelope(event, payload)
	if err != nil {
		that.logger.Error("failed to marshal event", "event", event, "error", err)
		return
	}

	that.mu.RLock()
	defer that.mu.RUnlock()

	for cl := range that.rooms[roomID] {
		cl.enqueue(message)
	}
}

// ToAll sends an event to every live connection.
func (that *Hub) ToAll(event string, payload any) {
	message, err := envelope(event, payload)
	if err != nil {
		that.logger.Error("failed to marshal event", "event", event, "error", err)
		return
	}

	that.mu.RLock()
	defer that.mu.RUnlock()

	for cl := range that.clients {
		cl.enqueue(message)
	}
}
