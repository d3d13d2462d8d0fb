// Package live streams processed voice commands to dashboard watchers over
// WebSocket, so staff can follow a call as it happens.
package live

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	"github.com/wolfman30/practice-voice-ai/pkg/logging"
)

// CommandEvent is one processed voice command, as broadcast to watchers.
type CommandEvent struct {
	CallID     string    `json:"call_id"`
	Transcript string    `json:"transcript"`
	Action     string    `json:"action"`
	Confidence float64   `json:"confidence"`
	Message    string    `json:"message"`
	Success    bool      `json:"success"`
	Timestamp  time.Time `json:"timestamp"`
}

// InboundMessage is what a watcher sends. Only pings are meaningful; the
// stream is one-way.
type InboundMessage struct {
	Type string `json:"type"` // "ping"
}

// OutboundMessage is what the hub sends to watchers.
type OutboundMessage struct {
	Type  string        `json:"type"` // "hello", "command", "pong"
	Event *CommandEvent `json:"event,omitempty"`
}

// Hub fans processed commands out to connected watchers. Publish never
// blocks command processing on a slow watcher beyond the socket write.
type Hub struct {
	logger *logging.Logger

	mu       sync.RWMutex
	watchers map[string]*wsConn
}

type wsConn struct {
	conn *websocket.Conn
	done chan struct{}
}

// NewHub creates a watcher hub.
func NewHub(logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Default()
	}
	return &Hub{
		logger:   logger,
		watchers: make(map[string]*wsConn),
	}
}

// HandleWebSocket upgrades to WebSocket and keeps the watcher registered
// until it disconnects.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(h.serveWS).ServeHTTP(w, r)
}

func (h *Hub) serveWS(conn *websocket.Conn) {
	watcherID := uuid.New().String()

	wsc := &wsConn{conn: conn, done: make(chan struct{})}
	h.mu.Lock()
	h.watchers[watcherID] = wsc
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		if h.watchers[watcherID] == wsc {
			delete(h.watchers, watcherID)
		}
		h.mu.Unlock()
		close(wsc.done)
	}()

	_ = websocket.JSON.Send(conn, OutboundMessage{Type: "hello"})
	h.logger.Info("live: watcher connected", "watcher_id", watcherID)

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			h.logger.Debug("live: watcher disconnected", "watcher_id", watcherID, "error", err)
			return
		}
		if msg.Type == "ping" {
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "pong"})
		}
	}
}

// Publish broadcasts one command event to every connected watcher. Failed
// writes are left to the watcher's own read loop to clean up.
func (h *Hub) Publish(evt CommandEvent) {
	if h == nil {
		return
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}

	h.mu.RLock()
	conns := make([]*wsConn, 0, len(h.watchers))
	for _, wsc := range h.watchers {
		conns = append(conns, wsc)
	}
	h.mu.RUnlock()

	msg := OutboundMessage{Type: "command", Event: &evt}
	for _, wsc := range conns {
		_ = websocket.JSON.Send(wsc.conn, msg)
	}
}

// WatcherCount reports how many watchers are connected.
func (h *Hub) WatcherCount() int {
	if h == nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.watchers)
}
