package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/server/api"
)

const (
	// DefaultBroadcastInterval limits snapshot messages when nothing but
	// readiness or fps changed.
	DefaultBroadcastInterval = 100 * time.Millisecond

	clientBuffer = 32
	writeTimeout = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// Message is one WebSocket event. Exactly one of Snapshot and Notice is set.
type Message struct {
	Type     string                `json:"type"`
	Snapshot *api.SnapshotResponse `json:"snapshot,omitempty"`
	Notice   *api.NoticeResponse   `json:"notice,omitempty"`
}

// Message types.
const (
	MessageSnapshot = "snapshot"
	MessageNotice   = "notice"
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub keeps the latest snapshot and fans snapshots and notices out to
// WebSocket clients. It is registered as a pipeline output.
type Hub struct {
	interval time.Duration
	logger   zerolog.Logger

	mu        sync.RWMutex
	clients   map[*client]struct{}
	latest    engine.Snapshot
	hasLatest bool
	lastSent  engine.Snapshot
	sentAny   bool
}

// NewHub creates a Hub. interval <= 0 selects DefaultBroadcastInterval.
func NewHub(interval time.Duration, logger zerolog.Logger) *Hub {
	if interval <= 0 {
		interval = DefaultBroadcastInterval
	}
	return &Hub{
		interval: interval,
		logger:   logger,
		clients:  make(map[*client]struct{}),
	}
}

// Latest returns the most recent snapshot.
func (h *Hub) Latest() (engine.Snapshot, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest, h.hasLatest
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Render records snap and broadcasts it when it differs from the last
// broadcast or the interval has passed.
func (h *Hub) Render(snap engine.Snapshot) {
	h.mu.Lock()
	h.latest = snap
	h.hasLatest = true
	send := !h.sentAny || significant(h.lastSent, snap) || snap.Time.Sub(h.lastSent.Time) >= h.interval
	if send {
		h.lastSent = snap
		h.sentAny = true
	}
	h.mu.Unlock()

	if send {
		resp := api.NewSnapshotResponse(snap)
		h.broadcast(Message{Type: MessageSnapshot, Snapshot: &resp})
	}
}

// Notify broadcasts n to every client.
func (h *Hub) Notify(n engine.Notice) {
	resp := api.NewNoticeResponse(n)
	h.broadcast(Message{Type: MessageNotice, Notice: &resp})
}

func significant(prev, next engine.Snapshot) bool {
	return next.Accepted != gesture.NoSymbol ||
		prev.Display != next.Display ||
		prev.Count != next.Count ||
		prev.HandPresent != next.HandPresent ||
		prev.Sentence != next.Sentence ||
		prev.LetterDelay != next.LetterDelay ||
		prev.SpeechEnabled != next.SpeechEnabled
}

func (h *Hub) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error().Err(err).Str("type", msg.Type).Msg("encode websocket message")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.Debug().Str("remote", c.conn.RemoteAddr().String()).Msg("websocket client behind, dropping message")
		}
	}
}

// ServeHTTP upgrades the request and streams events until the client
// disconnects. The current snapshot is sent first.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &client{conn: conn, send: make(chan []byte, clientBuffer)}

	h.mu.Lock()
	if h.hasLatest {
		resp := api.NewSnapshotResponse(h.latest)
		if data, err := json.Marshal(Message{Type: MessageSnapshot, Snapshot: &resp}); err == nil {
			c.send <- data
		}
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	h.logger.Debug().Str("remote", conn.RemoteAddr().String()).Msg("websocket client connected")

	go c.writeLoop()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, c)
	close(c.send)
	h.mu.Unlock()

	conn.Close()
	h.logger.Debug().Str("remote", conn.RemoteAddr().String()).Msg("websocket client disconnected")
}

func (c *client) writeLoop() {
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			c.conn.Close()
			return
		}
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.conn.Close()
	}
}
