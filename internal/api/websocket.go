package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 50 * time.Second
	wsSendBuffer = 16
)

// Hub fans template change events out to WebSocket subscribers.
// Clients only ever receive events for their own tenant.
type Hub struct {
	logger Logger

	mu      sync.RWMutex
	clients map[*wsClient]bool
	closed  bool
}

type wsClient struct {
	conn   *websocket.Conn
	tenant string
	send   chan []byte
}

// NewHub creates an event hub.
func NewHub(logger Logger) *Hub {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Hub{
		logger:  logger,
		clients: make(map[*wsClient]bool),
	}
}

// Broadcast delivers a payload to every subscriber of the given
// tenant. Slow clients are dropped rather than blocking the hub.
func (h *Hub) Broadcast(tenant string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		if c.tenant != tenant {
			continue
		}
		select {
		case c.send <- payload:
		default:
			h.logger.Warn("dropping slow websocket client", "tenant", tenant)
			go h.remove(c)
		}
	}
}

// Close disconnects all subscribers.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

func (h *Hub) add(c *wsClient) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = true
	return true
}

func (h *Hub) remove(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c] {
		delete(h.clients, c)
		close(c.send)
	}
}

// handleEventStream upgrades the connection and streams the caller's
// template change events. The tenant token is passed as a query
// parameter because browsers cannot set headers on upgrade requests.
func (s *Server) handleEventStream(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeError(w, http.StatusUnauthorized, "missing token")
		return
	}
	claims, err := s.deps.Auth.ParseToken(token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || s.originAllowed(origin)
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	client := &wsClient{
		conn:   conn,
		tenant: claims.Tenant,
		send:   make(chan []byte, wsSendBuffer),
	}
	if !s.deps.Hub.add(client) {
		conn.Close()
		return
	}

	s.logger.Debug("websocket client connected", "tenant", claims.Tenant)
	go client.writePump()
	go client.readPump(s.deps.Hub)
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames; the stream is one-way. It exists
// to process control frames and detect disconnects.
func (c *wsClient) readPump(hub *Hub) {
	defer func() {
		hub.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
