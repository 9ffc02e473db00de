package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
)

// TaskEvent is pushed to every connected client after a task mutation so
// open boards can refresh without polling.
type TaskEvent struct {
	Type   string      `json:"type"` // task_created, task_updated, task_deleted
	TaskID string      `json:"task_id"`
	Actor  string      `json:"actor"`
	Task   interface{} `json:"task,omitempty"`
}

// Hub fans task events out to connected websocket clients.
type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte),
	}
}

// BroadcastEvent marshals the event and queues it for delivery. Safe to call
// from request handlers; delivery happens on the hub goroutine.
func (h *Hub) BroadcastEvent(ev TaskEvent) {
	msg, err := json.Marshal(ev)
	if err != nil {
		log.Printf("ws: marshal event: %v", err)
		return
	}
	h.Broadcast <- msg
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			log.Println("New WS client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}
