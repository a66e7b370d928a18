package realtime

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/tradelens/backend/pkg/logger"
)

// Event is one refresh notification pushed to connected dashboards
type Event struct {
	Type      string    `json:"type"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Event types
const (
	EventSummaryRefreshed = "summary_refreshed"
	EventCacheInvalidated = "cache_invalidated"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second // must be less than pongWait
	sendBufferSize = 16
)

// Hub fans refresh events out to websocket subscribers, one channel
// per user id. Broadcasts are rate limited per user so a burst of
// invalidations coalesces into a few notifications instead of a flood.
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]map[*client]struct{} // user id -> connections
	limiters map[string]*rate.Limiter

	upgrader websocket.Upgrader
	perSec   rate.Limit
	burst    int
	log      *logger.Logger
}

type client struct {
	conn *websocket.Conn
	send chan Event
}

// NewHub creates a hub allowing at most perSec events per second per
// user, with the given burst
func NewHub(perSec float64, burst int, log *logger.Logger) *Hub {
	return &Hub{
		clients:  make(map[string]map[*client]struct{}),
		limiters: make(map[string]*rate.Limiter),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		perSec: rate.Limit(perSec),
		burst:  burst,
		log:    log,
	}
}

// ServeWS upgrades the request and subscribes the connection to the
// user's refresh events until the peer disconnects
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	c := &client{conn: conn, send: make(chan Event, sendBufferSize)}
	h.register(userID, c)

	go h.writePump(userID, c)
	h.readPump(userID, c)
}

// Notify pushes an event to every connection of the user. Events over
// the per-user rate are dropped; a cached summary is already fresh, so
// losing an extra notification costs nothing.
func (h *Hub) Notify(userID, eventType string) {
	if !h.limiter(userID).Allow() {
		return
	}

	event := Event{
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		select {
		case c.send <- event:
		default:
			// Slow consumer; drop rather than block the notifier
		}
	}
}

// ClientCount returns the number of open connections across all users
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	total := 0
	for _, conns := range h.clients {
		total += len(conns)
	}
	return total
}

// Shutdown closes every open connection
func (h *Hub) Shutdown(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, conns := range h.clients {
		for c := range conns {
			c.conn.Close()
		}
		delete(h.clients, userID)
	}
	h.log.Info("Realtime hub shut down")
}

func (h *Hub) register(userID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*client]struct{})
	}
	h.clients[userID][c] = struct{}{}
}

func (h *Hub) unregister(userID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.clients[userID]; ok {
		if _, ok := conns[c]; ok {
			delete(conns, c)
			close(c.send)
			if len(conns) == 0 {
				delete(h.clients, userID)
			}
		}
	}
}

func (h *Hub) limiter(userID string) *rate.Limiter {
	h.mu.Lock()
	defer h.mu.Unlock()
	lim, ok := h.limiters[userID]
	if !ok {
		lim = rate.NewLimiter(h.perSec, h.burst)
		h.limiters[userID] = lim
	}
	return lim
}

// readPump discards inbound frames; the protocol is push-only. It
// exists to process pongs and detect the peer going away.
func (h *Hub) readPump(userID string, c *client) {
	defer func() {
		h.unregister(userID, c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.WithError(err).Debug("WebSocket read error")
			}
			return
		}
	}
}

func (h *Hub) writePump(userID string, c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
