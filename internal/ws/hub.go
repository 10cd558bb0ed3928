package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"zorgmatch/internal/common"
	"zorgmatch/internal/http/middleware"
	"zorgmatch/internal/http/response"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 45 * time.Second
	sendBufferSize = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Logger interface {
	Info(msg string)
	Error(msg string)
}

type client struct {
	userID common.UUID
	conn   *websocket.Conn
	send   chan []byte
}

// Hub keeps one connection set per user and pushes delivery nudges to exactly
// the addressed user. Messages themselves stay pull-based over HTTP; a nudge
// only tells the client to refetch.
type Hub struct {
	mu      sync.RWMutex
	clients map[common.UUID]map[*client]struct{}
	logger  Logger
}

func NewHub(logger Logger) *Hub {
	return &Hub{
		clients: make(map[common.UUID]map[*client]struct{}),
		logger:  logger,
	}
}

// Notify sends the payload to every open connection of the user. Slow or gone
// connections are dropped instead of blocking the caller.
func (h *Hub) Notify(userID common.UUID, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logError("failed to encode nudge payload")
		return
	}
	h.mu.RLock()
	conns := h.clients[userID]
	stale := make([]*client, 0)
	for c := range conns {
		select {
		case c.send <- data:
		default:
			stale = append(stale, c)
		}
	}
	h.mu.RUnlock()
	for _, c := range stale {
		h.remove(c)
	}
}

// ServeHTTP upgrades the request. The auth middleware has already put the
// user id in the context.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, common.NewError(common.CodeUnauthorized, "authentication required", nil))
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		return
	}
	c := &client{userID: userID, conn: conn, send: make(chan []byte, sendBufferSize)}
	h.add(c)
	go c.writePump(h)
	go c.readPump(h)
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.clients[c.userID]
	if !ok {
		conns = make(map[*client]struct{})
		h.clients[c.userID] = conns
	}
	conns[c] = struct{}{}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	conns, ok := h.clients[c.userID]
	if ok {
		if _, present := conns[c]; present {
			delete(conns, c)
			close(c.send)
			if len(conns) == 0 {
				delete(h.clients, c.userID)
			}
		}
	}
	h.mu.Unlock()
	_ = c.conn.Close()
}

// Connections reports the number of open connections for the user.
func (h *Hub) Connections(userID common.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (c *client) writePump(h *Hub) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		h.remove(c)
	}()
	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards client frames; the socket is push-only. It exists to
// notice disconnects and answer pings.
func (c *client) readPump(h *Hub) {
	defer h.remove(c)
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) logError(msg string) {
	if h.logger == nil {
		return
	}
	h.logger.Error(msg)
}
