package orderControllers

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub fans new orders out to connected admin dashboards.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]*sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*sync.Mutex)}
}

func (h *Hub) add(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = &sync.Mutex{}
	h.mu.Unlock()
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
	h.mu.Unlock()
}

// Count is the number of live connections.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast queues v as JSON for every client and returns without waiting on
// the writes. Clients that fail the write are dropped.
func (h *Hub) Broadcast(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("❌ broadcast marshal failed: %v", err)
		return
	}

	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		go h.send(conn, data)
	}
}

// send serializes writes per connection; gorilla allows one concurrent writer.
func (h *Hub) send(conn *websocket.Conn, data []byte) {
	lock := h.writeLock(conn)
	if lock == nil {
		return
	}
	lock.Lock()
	defer lock.Unlock()

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.remove(conn)
	}
}

func (h *Hub) writeLock(conn *websocket.Conn) *sync.Mutex {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.clients[conn]
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
}

// GET /admin/orders/ws
func OrderWebSocketHandler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("❌ websocket upgrade failed: %v", err)
			return
		}
		hub.add(conn)
		defer hub.remove(conn)

		// drain until the client goes away
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}
