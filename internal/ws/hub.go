package ws

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"

	"go-bizman-ws/pkg/logger"
)

// Session ties a websocket connection to the tenant it authenticated as.
type Session struct {
	Conn    *websocket.Conn
	OwnerID uuid.UUID
}

type envelope struct {
	ownerID uuid.UUID
	message []byte
}

// Hub fans change events out to the connected clients of one tenant.
// Listeners only ever see events for their own ownerId; ordering between
// independent listeners is not guaranteed, only per-connection.
type Hub struct {
	clients    map[*websocket.Conn]uuid.UUID
	Register   chan Session
	Unregister chan *websocket.Conn
	events     chan envelope
	mutex      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]uuid.UUID),
		Register:   make(chan Session),
		Unregister: make(chan *websocket.Conn),
		events:     make(chan envelope, 64),
	}
}

// Publish queues one event for every client of the tenant. Safe to call
// from any goroutine; marshalling a map of plain values cannot fail.
func (h *Hub) Publish(ownerID uuid.UUID, payload map[string]interface{}) {
	msg, err := json.Marshal(payload)
	if err != nil {
		logger.WithModule("ws").WithError(err).Warn("dropping unmarshallable event")
		return
	}
	h.events <- envelope{ownerID: ownerID, message: msg}
}

func (h *Hub) Run() {
	log := logger.WithModule("ws")
	for {
		select {
		case s := <-h.Register:
			h.mutex.Lock()
			h.clients[s.Conn] = s.OwnerID
			h.mutex.Unlock()
			log.WithField("owner_id", s.OwnerID).Info("client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case ev := <-h.events:
			h.mutex.Lock()
			for conn, ownerID := range h.clients {
				if ownerID != ev.ownerID {
					continue
				}
				if err := conn.WriteMessage(websocket.TextMessage, ev.message); err != nil {
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}
