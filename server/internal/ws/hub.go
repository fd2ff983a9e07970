package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fibermonitor/fibermonitor/pkg/fiber"
	"github.com/fibermonitor/fibermonitor/pkg/form"
	"github.com/fibermonitor/fibermonitor/server/internal/api"
	"github.com/fibermonitor/fibermonitor/server/internal/metrics"
	"github.com/fibermonitor/fibermonitor/server/internal/store"
)

const (
	// writeTimeout is the deadline for a single write to a client.
	writeTimeout = 10 * time.Second

	// pongWait is how long to wait for a pong response before treating the
	// connection as dead.
	pongWait = 60 * time.Second

	// pingPeriod controls how often the server sends WebSocket ping frames.
	// Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// sendBufSize is the per-client outgoing message buffer depth.
	sendBufSize = 16

	// maxMessageSize bounds one client frame; a submission is a few hundred bytes.
	maxMessageSize = 4096
)

// Event names carried in the envelope.
const (
	EventSession    = "session"
	EventSubmit     = "submit"
	EventReset      = "reset"
	EventAssessment = "assessment"
	EventError      = "error"
)

// ClientMessage is the JSON envelope a client sends.
type ClientMessage struct {
	Event string          `json:"event"`
	Data  form.Submission `json:"data"`
}

// Message is the JSON envelope sent to clients.
type Message struct {
	Event     string             `json:"event"`
	SessionID string             `json:"session_id,omitempty"`
	Data      *fiber.Assessment  `json:"data,omitempty"`
	Error     *api.ErrorResponse `json:"error,omitempty"`
}

// Hub manages live form connections. Each connection owns one store session
// whose current assessment it replaces on submit and clears on reset.
type Hub struct {
	store    *store.Store
	metrics  *metrics.Registry
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}
}

// client represents one connected WebSocket client.
type client struct {
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

// New creates a Hub backed by st. m may be nil. allowedOrigins lists the
// browser origins that may open a connection; "*" allows any origin.
func New(st *store.Store, m *metrics.Registry, allowedOrigins []string) *Hub {
	return &Hub{
		store:   st,
		metrics: m,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		clients: make(map[*client]struct{}),
	}
}

// originChecker returns a CheckOrigin func for the upgrader. CORS does not
// apply to the WebSocket handshake, so the origin is matched here.
// Requests without an Origin header come from non-browser clients and pass.
func originChecker(allowed []string) func(*http.Request) bool {
	allowAll := false
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			allowAll = true
		}
		set[strings.ToLower(strings.TrimRight(o, "/"))] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || allowAll {
			return true
		}
		_, ok := set[strings.ToLower(origin)]
		if !ok {
			slog.Warn("ws: rejected origin", "origin", origin, "remote", r.RemoteAddr)
		}
		return ok
	}
}

// Run blocks until ctx is cancelled, then closes all active connections.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.closeAll()
}

// ServeHTTP upgrades the HTTP connection to WebSocket and serves the form.
// The session ID is sent immediately on connect. Blocks until the connection
// closes, then deletes the session.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader has already written the error response.
		return
	}

	c := &client{
		conn:      conn,
		send:      make(chan []byte, sendBufSize),
		sessionID: h.store.Create(),
	}
	h.register(c)
	defer func() {
		h.unregister(c)
		h.store.Delete(c.sessionID)
		slog.Debug("ws: client disconnected", "session_id", c.sessionID)
	}()
	slog.Debug("ws: client connected", "session_id", c.sessionID, "remote", r.RemoteAddr)

	h.deliver(c, Message{Event: EventSession, SessionID: c.sessionID})

	go c.writePump()
	h.readPump(c) // blocks until connection closes
}

// Count returns the number of currently connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// --- internal ---------------------------------------------------------------

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

// deliver queues msg for c. A client whose buffer is full is dropped.
func (h *Hub) deliver(c *client, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("ws: marshal message", "event", msg.Event, "err", err)
		return
	}

	h.mu.RLock()
	_, live := h.clients[c]
	full := false
	if live {
		select {
		case c.send <- data:
		default:
			full = true
		}
	}
	h.mu.RUnlock()

	if full {
		slog.Warn("ws: client send buffer full, disconnecting", "session_id", c.sessionID)
		h.unregister(c)
	}
}

// handle processes one client frame.
func (h *Hub) handle(c *client, raw []byte) {
	var in ClientMessage
	if err := json.Unmarshal(raw, &in); err != nil {
		h.deliver(c, errorMessage(errors.New("malformed message")))
		return
	}

	switch in.Event {
	case EventSubmit:
		a, err := form.Assess(in.Data)
		h.metrics.Observe(a, err)
		if err != nil {
			// The session keeps its previous assessment.
			h.deliver(c, errorMessage(err))
			return
		}
		if err := h.store.Put(c.sessionID, a); errors.Is(err, store.ErrNotFound) {
			// Idle past the TTL: open a fresh session and announce it.
			c.sessionID = h.store.Create()
			h.deliver(c, Message{Event: EventSession, SessionID: c.sessionID})
			h.store.Put(c.sessionID, a) //nolint:errcheck
		}
		h.deliver(c, Message{Event: EventAssessment, Data: &a})

	case EventReset:
		h.store.Reset(c.sessionID) //nolint:errcheck
		h.deliver(c, Message{Event: EventReset})

	default:
		h.deliver(c, errorMessage(errors.New("unknown event "+quote(in.Event))))
	}
}

func errorMessage(err error) Message {
	resp := api.NewErrorResponse(err)
	return Message{Event: EventError, Error: &resp}
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// writePump drains the client's send channel and forwards messages to the
// WebSocket connection. It also sends periodic ping frames. Runs in its own
// goroutine per client.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				// Channel was closed (hub is shutting down or client removed).
				c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump reads client frames and dispatches them to handle. Blocks until
// the connection closes.
func (h *Hub) readPump(c *client) {
	defer c.conn.Close()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		h.handle(c, raw)
	}
}
