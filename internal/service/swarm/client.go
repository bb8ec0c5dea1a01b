// Package swarm maintains the single WebSocket connection to the swarm
// backend and feeds received frames to the dispatch layer.
package swarm

import (
	"context"
	"sync"
	"time"

	drepo "driftwatch/internal/domain/repository"
	"driftwatch/pkg/logger"

	"github.com/gorilla/websocket"
)

// Status is the connection state machine.
type Status int

const (
	Disconnected Status = iota
	Connecting
	Connected
)

func (s Status) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

const pingWriteWait = 5 * time.Second

// Client implements repository.Stream over gorilla/websocket. A lost
// connection is retried after a fixed delay, forever, until Disconnect.
// At most one retry is pending at any time.
type Client struct {
	url            string
	reconnectDelay time.Duration
	pingInterval   time.Duration
	dialTimeout    time.Duration

	log     *logger.Logger
	metrics drepo.Metrics

	onFrame  drepo.FrameHandler
	onStatus drepo.StatusHandler

	mu         sync.Mutex
	conn       *websocket.Conn
	status     Status
	retryTimer *time.Timer
	gen        uint64 // bumped on connect/disconnect to invalidate stale loops

	sendMu sync.Mutex
}

// New creates a swarm stream client.
func New(url string, reconnectDelay, pingInterval, dialTimeout time.Duration, log *logger.Logger, m drepo.Metrics) *Client {
	return &Client{
		url:            url,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
		dialTimeout:    dialTimeout,
		log:            log,
		metrics:        m,
	}
}

// OnFrame registers the frame handler. Register before Connect; the handler
// runs on the read goroutine, one frame at a time, in arrival order.
func (c *Client) OnFrame(h drepo.FrameHandler) { c.onFrame = h }

// OnStatus registers the connectivity handler. Register before Connect.
func (c *Client) OnStatus(h drepo.StatusHandler) { c.onStatus = h }

// Connect dials the backend. It is idempotent: a call while connecting or
// connected is a no-op. Dial failures are logged and answered with the same
// fixed-delay retry as a dropped connection, never returned.
func (c *Client) Connect(ctx context.Context) {
	c.mu.Lock()
	if c.status != Disconnected {
		c.mu.Unlock()
		return
	}
	c.stopRetryLocked()
	c.status = Connecting
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	dialer := websocket.Dialer{HandshakeTimeout: c.dialTimeout}
	conn, _, err := dialer.DialContext(ctx, c.url, nil)

	c.mu.Lock()
	if c.gen != gen {
		// Disconnected (or superseded) while dialing.
		c.mu.Unlock()
		if conn != nil {
			_ = conn.Close()
		}
		return
	}
	if err != nil {
		c.status = Disconnected
		c.scheduleRetryLocked(ctx)
		c.mu.Unlock()
		c.log.Warn("swarm dial failed", logger.String("url", c.url), logger.Error(err))
		c.metrics.RecordError("dial")
		return
	}
	c.conn = conn
	c.status = Connected
	c.mu.Unlock()

	c.log.Info("swarm connected", logger.String("url", c.url))
	c.setConnected(true)

	go c.readLoop(ctx, conn, gen)
	go c.pingLoop(conn, gen)
}

// Reconnect cancels any pending retry and connects immediately. While
// connected it is a no-op, like Connect.
func (c *Client) Reconnect(ctx context.Context) {
	c.mu.Lock()
	c.stopRetryLocked()
	c.mu.Unlock()
	c.metrics.RecordReconnect()
	c.Connect(ctx)
}

// Disconnect closes the connection and cancels any pending retry. The
// client stays dormant until the next explicit Connect.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	c.stopRetryLocked()
	c.gen++
	conn := c.conn
	c.conn = nil
	was := c.status
	c.status = Disconnected
	c.mu.Unlock()

	var err error
	if conn != nil {
		err = conn.Close()
	}
	if was == Connected {
		c.log.Info("swarm disconnected")
		c.setConnected(false)
	}
	return err
}

// Send writes one JSON frame. It reports false without writing anything
// when the connection is down; callers treat that as a silent drop.
func (c *Client) Send(v interface{}) bool {
	c.mu.Lock()
	conn := c.conn
	up := c.status == Connected
	c.mu.Unlock()
	if !up || conn == nil {
		return false
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if err := conn.WriteJSON(v); err != nil {
		c.log.Warn("swarm send failed", logger.Error(err))
		c.metrics.RecordError("send")
		return false
	}
	return true
}

// IsConnected indicates status.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status == Connected
}

// URL returns the configured backend endpoint.
func (c *Client) URL() string { return c.url }

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn, gen uint64) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.handleLoss(ctx, gen, err)
			return
		}
		if c.onFrame != nil {
			c.onFrame(data)
		}
	}
}

func (c *Client) pingLoop(conn *websocket.Conn, gen uint64) {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()
	for range ticker.C {
		c.mu.Lock()
		live := c.gen == gen && c.status == Connected
		c.mu.Unlock()
		if !live {
			return
		}
		if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(pingWriteWait)); err != nil {
			return
		}
	}
}

// handleLoss reacts to a failed read: close, flip state, arm the retry.
// A stale generation means Disconnect or a newer connection won the race.
func (c *Client) handleLoss(ctx context.Context, gen uint64, err error) {
	c.mu.Lock()
	if c.gen != gen || c.status != Connected {
		c.mu.Unlock()
		return
	}
	_ = c.conn.Close()
	c.conn = nil
	c.status = Disconnected
	c.scheduleRetryLocked(ctx)
	c.mu.Unlock()

	c.log.Warn("swarm stream lost", logger.Error(err))
	c.metrics.RecordError("stream")
	c.setConnected(false)
}

func (c *Client) scheduleRetryLocked(ctx context.Context) {
	if c.retryTimer != nil {
		return
	}
	c.retryTimer = time.AfterFunc(c.reconnectDelay, func() {
		c.mu.Lock()
		c.retryTimer = nil
		c.mu.Unlock()
		c.metrics.RecordReconnect()
		c.Connect(ctx)
	})
}

func (c *Client) stopRetryLocked() {
	if c.retryTimer != nil {
		c.retryTimer.Stop()
		c.retryTimer = nil
	}
}

func (c *Client) setConnected(up bool) {
	c.metrics.RecordConnected(up)
	if c.onStatus != nil {
		c.onStatus(up)
	}
}
