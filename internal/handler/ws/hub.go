// Package ws relays reconciled swarm frames to dashboard browsers. The
// hub speaks the same JSON protocol the backend does, so a frontend can
// point at either endpoint unchanged.
package ws

import (
	"context"
	"encoding/json"
	"net/http"

	"driftwatch/internal/domain/models"
	"driftwatch/internal/state"
	"driftwatch/pkg/logger"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// connectionFrame tells relay clients whether the upstream backend link
// is up. It is a relay-only extension of the backend protocol.
type connectionFrame struct {
	Type      string `json:"type"`
	Connected bool   `json:"connected"`
}

// Hub fans applied frames out to connected dashboard clients. It
// implements repository.Relay. Broadcast never blocks the dispatch
// path: a full hub queue or a slow client drops frames, it does not
// stall them.
type Hub struct {
	store   *state.Store
	log     *logger.Logger
	sendBuf int

	register   chan *client
	unregister chan *client
	frames     chan []byte
	done       chan struct{} // closed when Run exits; unblocks register/unregister senders

	clients   map[*client]bool
	connected bool // last known upstream connectivity, replayed to joiners
}

// NewHub creates a relay hub. sendBuf is the per-client outbound queue;
// clients that fall further behind lose frames.
func NewHub(store *state.Store, sendBuf int, log *logger.Logger) *Hub {
	return &Hub{
		store:      store,
		log:        log,
		sendBuf:    sendBuf,
		register:   make(chan *client),
		unregister: make(chan *client),
		frames:     make(chan []byte, 256),
		done:       make(chan struct{}),
		clients:    make(map[*client]bool),
	}
}

// Broadcast queues one raw frame for all clients. Called from the
// dispatch goroutine after the store mutation has been applied.
func (h *Hub) Broadcast(raw []byte) {
	select {
	case h.frames <- raw:
	default:
		h.log.Debug("relay queue full, frame dropped")
	}
}

// BroadcastStatus queues an upstream connectivity transition.
func (h *Hub) BroadcastStatus(connected bool) {
	b, err := json.Marshal(connectionFrame{Type: "connection", Connected: connected})
	if err != nil {
		return
	}
	h.Broadcast(b)
}

// Run owns the client set until ctx is cancelled. Everything that
// touches h.clients happens on this goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			return
		case c := <-h.register:
			h.clients[c] = true
			for _, frame := range h.initialFrames() {
				c.enqueue(frame)
			}
			h.log.Info("relay client joined", logger.Int("clients", len(h.clients)))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.log.Info("relay client left", logger.Int("clients", len(h.clients)))
			}
		case frame := <-h.frames:
			h.rememberStatus(frame)
			for c := range h.clients {
				c.enqueue(frame)
			}
		}
	}
}

// initialFrames synthesizes the backend's connect-time push from the
// store, so a joining client starts from the current state instead of
// waiting for the next update cycle.
func (h *Hub) initialFrames() [][]byte {
	snap := h.store.Snapshot()

	frames := make([][]byte, 0, 5)
	add := func(v interface{}) {
		if b, err := json.Marshal(v); err == nil {
			frames = append(frames, b)
		}
	}

	add(connectionFrame{Type: "connection", Connected: h.connected})
	add(models.PheromoneUpdate{Type: models.MsgPheromoneUpdate, Pheromones: snap.Pheromones})
	if snap.Portfolio != nil {
		add(models.PortfolioUpdate{Type: models.MsgPortfolioUpdate, Portfolio: *snap.Portfolio})
	}
	add(models.AgentMetricsUpdate{Type: models.MsgAgentMetrics, Agents: snap.Agents})
	add(models.TradeHistoryUpdate{Type: models.MsgTradeHistory, Trades: snap.Trades})
	return frames
}

// rememberStatus tracks the last connection frame seen so late joiners
// get the current value, not a stale default.
func (h *Hub) rememberStatus(frame []byte) {
	var cf connectionFrame
	if err := json.Unmarshal(frame, &cf); err == nil && cf.Type == "connection" {
		h.connected = cf.Connected
	}
}

// ServeWS upgrades one HTTP request into a relay client.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("relay upgrade failed", logger.Error(err))
		return
	}
	c := &client{hub: h, conn: conn, send: make(chan []byte, h.sendBuf)}
	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// enqueue hands a frame to the client's writer without blocking the hub.
func (c *client) enqueue(frame []byte) {
	select {
	case c.send <- frame:
	default:
	}
}

// readPump drains the connection so close and control frames are
// processed; relay clients are not expected to send anything.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	defer func() { _ = c.conn.Close() }()
	for frame := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
